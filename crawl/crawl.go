// Package crawl provides documentation crawling orchestration.
// It coordinates fetching, extraction, link discovery, summarization and
// checkpointed export of documentation pages.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/docsum"
	"golang.org/x/sync/errgroup"
)

// DefaultCheckpointInterval is how often a running crawl exports its records.
const DefaultCheckpointInterval = 30 * time.Second

// State is the lifecycle state of a crawl run.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Crawler walks a documentation site breadth-first from a start URL,
// summarizing every page and exporting the records periodically and
// once more when the crawl ends.
//
// A Crawler owns its Fetcher: Run closes it before returning.
type Crawler struct {
	Fetcher     docsum.Fetcher
	Extractor   docsum.Extractor
	Links       docsum.LinkDiscoverer
	Summarizer  docsum.Summarizer
	Exporter    docsum.Exporter
	RateLimiter docsum.DomainLimiter

	// Seeds are extra URLs queued at depth 0 after the start URL.
	Seeds []string

	// CheckpointInterval between periodic exports. Zero means
	// DefaultCheckpointInterval; negative disables periodic exports.
	CheckpointInterval time.Duration

	// PageTimeout bounds fetching a single page. Zero means no timeout.
	PageTimeout time.Duration

	// MaxPages stops the crawl once this many pages were attempted. Zero means no limit.
	MaxPages int

	// MaxDepth stops following links from pages at this depth. Zero means no limit.
	MaxDepth int

	// Now returns the record timestamp. Defaults to time.Now.
	Now func() time.Time
}

// Result holds the outcome of a crawl run.
type Result struct {
	Saved    int
	Failed   int
	Degraded int
	Exported int
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCrawling
	ProgressCompleted
	ProgressFailed
	ProgressCheckpoint
	ProgressCheckpointFailed
	ProgressFinished
)

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type     ProgressType
	State    State
	URL      string
	Saved    int
	Failed   int
	Pending  int
	Exported int
	Error    error
}

// ProgressFunc is a callback for reporting crawl progress.
// Calls are serialized, but may come from the checkpoint goroutine.
type ProgressFunc func(event ProgressEvent)

// Run crawls from startURL until the frontier is exhausted, a limit is
// reached, or ctx is canceled. Whatever way the loop ends, including a
// panic in a collaborator, the records collected so far are exported
// and the Fetcher is closed before Run returns.
func (c *Crawler) Run(ctx context.Context, startURL string, progress ProgressFunc) (result *Result, err error) {
	if err := c.validate(startURL); err != nil {
		if c.Fetcher != nil {
			if closeErr := c.Fetcher.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("release browser: %w", closeErr))
			}
		}
		return nil, err
	}

	r := &run{
		crawler:  c,
		frontier: NewFrontier(),
		store:    NewResultStore(),
		progress: progress,
	}
	r.frontier.Seed(startURL)
	r.frontier.EnqueueIfNew(c.Seeds, 0)
	r.state.Store(int32(StateRunning))
	r.emit(ProgressEvent{Type: ProgressStarted, URL: startURL})

	cctx, stopCheckpoints := context.WithCancel(ctx)
	defer stopCheckpoints()
	g, gctx := errgroup.WithContext(cctx)
	if c.CheckpointInterval >= 0 {
		g.Go(func() error {
			r.checkpointLoop(gctx)
			return nil
		})
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("crawl aborted: %v", rec)
		}
		r.state.Store(int32(StateDraining))
		stopCheckpoints()
		_ = g.Wait()

		records := r.store.Snapshot()
		if exportErr := r.export(context.WithoutCancel(ctx), records); exportErr != nil {
			err = errors.Join(err, fmt.Errorf("final export: %w", exportErr))
		} else {
			r.exported = len(records)
		}
		if closeErr := c.Fetcher.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("release browser: %w", closeErr))
		}

		r.state.Store(int32(StateDone))
		r.emit(ProgressEvent{Type: ProgressFinished, Exported: r.exported, Error: err})
		result = r.result()
	}()

	return nil, r.loop(ctx)
}

func (c *Crawler) validate(startURL string) error {
	switch {
	case startURL == "":
		return docsum.Errorf(docsum.EINVALID, "start URL required")
	case c.Fetcher == nil:
		return docsum.Errorf(docsum.EINVALID, "crawler fetcher required")
	case c.Extractor == nil:
		return docsum.Errorf(docsum.EINVALID, "crawler extractor required")
	case c.Links == nil:
		return docsum.Errorf(docsum.EINVALID, "crawler link discoverer required")
	case c.Summarizer == nil:
		return docsum.Errorf(docsum.EINVALID, "crawler summarizer required")
	case c.Exporter == nil:
		return docsum.Errorf(docsum.EINVALID, "crawler exporter required")
	}
	return nil
}

// run is the state of a single Crawler.Run call.
type run struct {
	crawler  *Crawler
	frontier *Frontier
	store    *ResultStore
	progress ProgressFunc

	state    atomic.Int32
	failed   atomic.Int64
	degraded atomic.Int64
	exported int

	mu sync.Mutex // serializes progress callbacks
}

func (r *run) loop(ctx context.Context) error {
	c := r.crawler
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.MaxPages > 0 && r.store.Len()+int(r.failed.Load()) >= c.MaxPages {
			return nil
		}

		entry, ok := r.frontier.NextUnvisited()
		if !ok {
			return nil
		}
		r.emit(ProgressEvent{Type: ProgressCrawling, URL: entry.URL})

		if err := r.wait(ctx, entry.URL); err != nil {
			return err
		}

		record, links, err := r.process(ctx, entry.URL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			r.failed.Add(1)
			r.emit(ProgressEvent{Type: ProgressFailed, URL: entry.URL, Error: err})
			continue
		}

		r.store.Append(*record)
		if record.SummaryDegraded {
			r.degraded.Add(1)
		}
		if c.MaxDepth <= 0 || entry.Depth < c.MaxDepth {
			r.frontier.EnqueueIfNew(links, entry.Depth+1)
		}
		r.emit(ProgressEvent{Type: ProgressCompleted, URL: entry.URL})
	}
}

// process fetches one page and turns it into a record plus its outgoing links.
func (r *run) process(ctx context.Context, pageURL string) (*docsum.PageRecord, []string, error) {
	c := r.crawler

	fetchCtx := ctx
	if c.PageTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.PageTimeout)
		defer cancel()
	}

	html, err := c.Fetcher.Fetch(fetchCtx, pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch: %w", err)
	}

	content, err := c.Extractor.Extract(html)
	if err != nil {
		return nil, nil, fmt.Errorf("extract: %w", err)
	}

	links, err := c.Links.DiscoverLinks(html, pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("discover links: %w", err)
	}

	text := content.Text()
	summary := c.Summarizer.Summarize(ctx, text)

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	return &docsum.PageRecord{
		URL:             docsum.RelativeURL(pageURL),
		Title:           content.Title,
		Summary:         summary.Text,
		SummaryDegraded: summary.Degraded,
		ContentHash:     ComputeHash(text),
		LastUpdated:     now().UTC(),
	}, links, nil
}

// wait paces requests to the page's host.
func (r *run) wait(ctx context.Context, pageURL string) error {
	if r.crawler.RateLimiter == nil {
		return nil
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil // the fetch reports the bad URL
	}
	return r.crawler.RateLimiter.Wait(ctx, u.Host)
}

func (r *run) checkpointLoop(ctx context.Context) {
	interval := r.crawler.CheckpointInterval
	if interval == 0 {
		interval = DefaultCheckpointInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.checkpoint(ctx)
		}
	}
}

// checkpoint exports a snapshot. Failures are reported and the crawl continues.
func (r *run) checkpoint(ctx context.Context) {
	records := r.store.Snapshot()
	if err := r.export(ctx, records); err != nil {
		r.emit(ProgressEvent{Type: ProgressCheckpointFailed, Error: err})
		return
	}
	r.emit(ProgressEvent{Type: ProgressCheckpoint, Exported: len(records)})
}

// export runs the Exporter, turning a panic into an error.
func (r *run) export(ctx context.Context, records []docsum.PageRecord) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("export panicked: %v", rec)
		}
	}()
	return r.crawler.Exporter.Export(ctx, records)
}

func (r *run) emit(ev ProgressEvent) {
	if r.progress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ev.State = State(r.state.Load())
	ev.Saved = r.store.Len()
	ev.Failed = int(r.failed.Load())
	ev.Pending = r.frontier.Len()
	r.progress(ev)
}

func (r *run) result() *Result {
	return &Result{
		Saved:    r.store.Len(),
		Failed:   int(r.failed.Load()),
		Degraded: int(r.degraded.Load()),
		Exported: r.exported,
	}
}
