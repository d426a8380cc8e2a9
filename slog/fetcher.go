package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsum"
)

var _ docsum.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every page load with its size and latency. Failed
// loads and close errors are logged at warn level.
type LoggingFetcher struct {
	next   docsum.Fetcher
	logger *slog.Logger
}

func NewLoggingFetcher(next docsum.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.logger.Warn("fetch", "url", url, "duration", time.Since(begin), "err", err)
			return
		}
		f.logger.Info("fetch", "url", url, "bytes", len(html), "duration", time.Since(begin))
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

func (f *LoggingFetcher) Close() error {
	err := f.next.Close()
	if err != nil {
		f.logger.Warn("close fetcher", "err", err)
	}
	return err
}
