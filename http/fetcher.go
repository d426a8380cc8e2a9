// Package http loads static documentation pages and reads sitemaps over
// plain HTTP.
package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/fwojciec/docsum"
)

// DefaultFetchTimeout bounds one request when no timeout option is given.
const DefaultFetchTimeout = 10 * time.Second

// maxPageBytes caps how much of a response body is read.
const maxPageBytes = 20 << 20

// UserAgent identifies the crawler to documentation servers.
const UserAgent = "docsum/1.0 (+local docs crawler)"

var _ docsum.Fetcher = (*Fetcher)(nil)

// Fetcher returns server-rendered HTML without running scripts. Single-page
// docs sites need the rod fetcher instead.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

type Option func(*Fetcher)

// WithTimeout overrides DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: http.DefaultTransport.(*http.Transport).Clone(),
	}
	return f
}

// Fetch GETs url and returns its body. Status 404 maps to ENOTFOUND, other
// non-200 statuses to EUNAVAILABLE, and non-HTML content to EINVALID so
// linked archives and PDFs are skipped.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", docsum.Errorf(docsum.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", docsum.Errorf(docsum.ENOTFOUND, "HTTP 404 for %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		return "", docsum.Errorf(docsum.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}
	if !isHTML(resp.Header.Get("Content-Type")) {
		return "", docsum.Errorf(docsum.EINVALID, "%s is %s, not HTML", url, resp.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

// isHTML accepts HTML media types and a missing Content-Type.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// Close drops idle keep-alive connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
