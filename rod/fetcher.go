// Package rod implements page fetching with a headless Chrome browser.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docsum"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements docsum.Fetcher at compile time.
var _ docsum.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single navigation when the caller's
// context has no deadline.
const DefaultFetchTimeout = 60 * time.Second

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// The browser is launched once by NewFetcher and released once by Close.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-fetch timeout. Zero disables it.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	// Launch browser using rod's launcher (finds or downloads Chrome)
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, docsum.Errorf(docsum.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, docsum.Errorf(docsum.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates a fresh tab to url, waits for the load event and
// returns the rendered HTML, open shadow roots included.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", docsum.Errorf(docsum.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("waiting for %s: %w", url, err)
	}

	html, err := page.Eval(serializeDocument)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return html.Value.Str(), nil
}

// serializeDocument returns the document HTML with open shadow roots
// inlined, so links rendered by web components are discoverable.
const serializeDocument = `() => {
	const root = document.documentElement;
	const inner = typeof root.getHTML === 'function'
		? root.getHTML({ shadowRoots: Array.from(document.querySelectorAll('*')).map((e) => e.shadowRoot).filter(Boolean) })
		: root.innerHTML;
	return '<!DOCTYPE html><html>' + inner + '</html>';
}`

// LauncherPID returns the PID of the launched browser process.
func (f *Fetcher) LauncherPID() int {
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}

// Close releases browser resources. It is safe to call more than once.
func (f *Fetcher) Close() error {
	f.closeOnce.Do(func() {
		f.closed.Store(true)
		f.closeErr = f.browser.Close()
		if f.launcher != nil {
			f.launcher.Kill()
		}
	})
	return f.closeErr
}
