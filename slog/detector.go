package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docsum"
)

// Ensure LoggingDetector implements docsum.FrameworkDetector.
var _ docsum.FrameworkDetector = (*LoggingDetector)(nil)

// LoggingDetector wraps a FrameworkDetector with debug logging.
type LoggingDetector struct {
	next   docsum.FrameworkDetector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next docsum.FrameworkDetector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// Detect delegates to the wrapped detector and logs the framework found.
func (d *LoggingDetector) Detect(html string) docsum.Framework {
	begin := time.Now()
	framework := d.next.Detect(html)
	frameworkName := string(framework)
	if framework == docsum.FrameworkUnknown {
		frameworkName = "(unknown)"
	}
	d.logger.Info("framework detection",
		"framework", frameworkName,
		"duration", time.Since(begin),
	)
	return framework
}
