package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/docsum"
	"github.com/fwojciec/docsum/crawl"
	"github.com/fwojciec/docsum/fs"
	"github.com/fwojciec/docsum/goquery"
	"github.com/fwojciec/docsum/readability"
	docslog "github.com/fwojciec/docsum/slog"
	"github.com/fwojciec/docsum/sqlite"
	"github.com/fwojciec/docsum/trafilatura"
)

// pingTimeout bounds the pre-flight liveness probe.
const pingTimeout = 30 * time.Second

// Breaker settings for the summarization backend.
const (
	breakerThreshold = 5
	breakerCooldown  = 30 * time.Second
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	startURL := c.StartURL
	if startURL == "" {
		startURL = DefaultStartURL
	}

	scope, err := docsum.NewScope(startURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsum.ErrorMessage(err))
		return err
	}

	exporter, err := fs.NewCSVExporter(c.Output,
		fs.WithSeparator(c.Separator),
		fs.WithSourceColumn(c.SourceColumn),
	)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsum.ErrorMessage(err))
		return err
	}

	extractor, err := c.extractor()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsum.ErrorMessage(err))
		return err
	}

	generator, err := c.preflight(deps)
	if err != nil {
		return err
	}

	exporters := docsum.Exporters{docslog.NewLoggingExporter(exporter, c.Output, deps.Logger)}
	if deps.DB != nil && deps.Runs != nil {
		run := &docsum.Run{StartURL: startURL}
		if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docsum.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Recording run %s\n", run.ID)
		exporters = append(exporters, docslog.NewLoggingExporter(sqlite.NewPageExporter(deps.DB, run.ID), "sqlite", deps.Logger))
	}

	var seeds []string
	if c.Sitemap && deps.Sitemaps != nil {
		seeds, err = deps.Sitemaps.DiscoverURLs(deps.Ctx, startURL, scope)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: sitemap: %v\n", err)
		} else {
			fmt.Fprintf(deps.Stdout, "Found %d sitemap URLs\n", len(seeds))
		}
	}

	fetcher, err := deps.NewFetcher(deps.Ctx, startURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsum.ErrorMessage(err))
		return err
	}

	crawler := &crawl.Crawler{
		Fetcher:            fetcher,
		Extractor:          extractor,
		Links:              goquery.NewLinkDiscoverer(scope),
		Summarizer:         c.summarizer(deps, generator),
		Exporter:           exporters,
		RateLimiter:        crawl.NewDomainLimiter(c.Delay),
		Seeds:              seeds,
		CheckpointInterval: c.Checkpoint,
		PageTimeout:        c.PageTimeout,
		MaxPages:           c.MaxPages,
		MaxDepth:           c.MaxDepth,
	}

	result, err := crawler.Run(deps.Ctx, startURL, c.progress(deps))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Done: %d pages saved, %d failed, %d with fallback summaries\n",
		result.Saved, result.Failed, result.Degraded)
	return nil
}

// preflight probes the backend. In strict mode an unreachable backend
// aborts the crawl; otherwise every summary uses the fallback.
func (c *CrawlCmd) preflight(deps *Dependencies) (docsum.TextGenerator, error) {
	if deps.Generator == nil {
		fmt.Fprintln(deps.Stdout, "No summarization backend, using fallback summaries")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(deps.Ctx, pingTimeout)
	defer cancel()
	if err := deps.Generator.Ping(ctx); err != nil {
		if c.Strict {
			fmt.Fprintf(deps.Stderr, "error: %s backend unreachable: %s\n", c.Backend, docsum.ErrorMessage(err))
			fmt.Fprintln(deps.Stderr, "Hint: use --no-strict to crawl with fallback summaries")
			return nil, docsum.Errorf(docsum.EUNAVAILABLE, "%s backend unreachable", c.Backend)
		}
		fmt.Fprintf(deps.Stderr, "warning: %s backend unreachable, using fallback summaries: %s\n", c.Backend, docsum.ErrorMessage(err))
		return nil, nil
	}
	return deps.Generator, nil
}

func (c *CrawlCmd) extractor() (docsum.Extractor, error) {
	switch c.Extractor {
	case "", ExtractorArticle:
		return goquery.NewContentExtractor(c.Region), nil
	case ExtractorTrafilatura:
		return trafilatura.NewExtractor(), nil
	case ExtractorReadability:
		return readability.NewExtractor(), nil
	default:
		return nil, docsum.Errorf(docsum.EINVALID, "unknown extractor %q", c.Extractor)
	}
}

func (c *CrawlCmd) summarizer(deps *Dependencies, generator docsum.TextGenerator) *crawl.Summarizer {
	return &crawl.Summarizer{
		Generator:        generator,
		Breaker:          crawl.NewBreaker(breakerThreshold, breakerCooldown),
		Timeout:          c.SummaryTimeout,
		RetryDelays:      crawl.BackoffDelays(crawl.DefaultRetryDelays()[0], c.SummaryRetries),
		Tokens:           deps.Tokens,
		MaxContentTokens: c.MaxContentTokens,
		Separator:        c.Separator,
		Logger: func(format string, args ...any) {
			deps.Logger.Warn(fmt.Sprintf(format, args...))
		},
	}
}

func (c *CrawlCmd) progress(deps *Dependencies) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCrawling:
			fmt.Fprintf(deps.Stdout, "Crawling %s\n", event.URL)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "Crawled %d pages (%d pending)\n", event.Saved, event.Pending)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		case crawl.ProgressCheckpoint:
			fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", event.Exported, c.Output)
		case crawl.ProgressCheckpointFailed:
			fmt.Fprintf(deps.Stderr, "  checkpoint failed: %v\n", event.Error)
		case crawl.ProgressFinished:
			if event.Error == nil || event.Exported > 0 {
				fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", event.Exported, c.Output)
			}
		}
	}
}
