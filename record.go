package docsum

import (
	"context"
	"errors"
	"net/url"
	"time"
)

// TimestampFormat is the ISO-8601 layout used for PageRecord.LastUpdated
// in exports.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// PageRecord is one exported row describing a crawled page.
type PageRecord struct {
	// URL is the site-relative path of the page (scheme and host stripped).
	URL string `json:"url"`

	// Title is the page title as rendered.
	Title string `json:"title"`

	// Summary is the technical synopsis. It never contains Separator.
	Summary string `json:"summary"`

	// SummaryDegraded is true when Summary came from FallbackSummary
	// instead of the text generation backend.
	SummaryDegraded bool `json:"summaryDegraded"`

	// ContentHash identifies the extracted text the summary was built from.
	ContentHash string `json:"contentHash"`

	// LastUpdated is the time the page was processed.
	LastUpdated time.Time `json:"lastUpdated"`
}

// Validate returns an error if the record contains invalid fields.
func (r *PageRecord) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "page record URL required")
	}
	if r.LastUpdated.IsZero() {
		return Errorf(EINVALID, "page record timestamp required")
	}
	return nil
}

// Timestamp returns LastUpdated formatted as ISO-8601 in UTC.
func (r *PageRecord) Timestamp() string {
	return r.LastUpdated.UTC().Format(TimestampFormat)
}

// Exporter persists the full ordered set of records.
// Each call replaces whatever a previous call wrote.
type Exporter interface {
	Export(ctx context.Context, records []PageRecord) error
}

// Exporters fans a single export out to several destinations.
// Every exporter is attempted; failures are joined.
type Exporters []Exporter

// Export calls Export on every exporter in order.
func (e Exporters) Export(ctx context.Context, records []PageRecord) error {
	var errs []error
	for _, exp := range e {
		if err := exp.Export(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RelativeURL strips the scheme and host from rawURL, keeping the path,
// query and fragment. Unparseable input is returned unchanged.
func RelativeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	rel := url.URL{Path: u.Path, RawPath: u.RawPath, RawQuery: u.RawQuery, Fragment: u.Fragment}
	s := rel.String()
	if s == "" {
		return "/"
	}
	return s
}
