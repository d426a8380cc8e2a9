package docsum

import "context"

// Fetcher loads a page and returns its HTML after client-side rendering has
// settled. Implementations hold a browser or an HTTP client.
type Fetcher interface {
	// Fetch returns the HTML of url. ctx bounds the whole load.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases the underlying browser or connections. The crawler
	// calls it once when a run ends.
	Close() error
}
