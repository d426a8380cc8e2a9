package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsum"
)

// Ensure LoggingExporter implements docsum.Exporter.
var _ docsum.Exporter = (*LoggingExporter)(nil)

// LoggingExporter wraps an Exporter with debug logging.
type LoggingExporter struct {
	next   docsum.Exporter
	target string
	logger *slog.Logger
}

// NewLoggingExporter creates a new LoggingExporter. target names the
// destination in log lines, such as a file path.
func NewLoggingExporter(next docsum.Exporter, target string, logger *slog.Logger) *LoggingExporter {
	return &LoggingExporter{next: next, target: target, logger: logger}
}

// Export logs the record count and delegates to the wrapped exporter.
func (e *LoggingExporter) Export(ctx context.Context, records []docsum.PageRecord) (err error) {
	defer func(begin time.Time) {
		e.logger.Info("export",
			"target", e.target,
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Export(ctx, records)
}
