package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsum"
)

// Ensure LoggingGenerator implements docsum.TextGenerator.
var _ docsum.TextGenerator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a TextGenerator with debug logging.
type LoggingGenerator struct {
	next    docsum.TextGenerator
	backend string
	logger  *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator. backend names the
// wrapped generator in log lines.
func NewLoggingGenerator(next docsum.TextGenerator, backend string, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, backend: backend, logger: logger}
}

// Generate logs prompt and response sizes and delegates to the wrapped generator.
func (g *LoggingGenerator) Generate(ctx context.Context, prompt string) (text string, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate",
			"backend", g.backend,
			"prompt_bytes", len(prompt),
			"response_bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, prompt)
}

// Ping logs the probe result and delegates to the wrapped generator.
func (g *LoggingGenerator) Ping(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		g.logger.Info("ping",
			"backend", g.backend,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Ping(ctx)
}
