package mock

import (
	"context"

	"github.com/fwojciec/docsum"
)

var _ docsum.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of docsum.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, content string) docsum.Summary
}

func (s *Summarizer) Summarize(ctx context.Context, content string) docsum.Summary {
	return s.SummarizeFn(ctx, content)
}

var _ docsum.TextGenerator = (*TextGenerator)(nil)

// TextGenerator is a mock implementation of docsum.TextGenerator.
type TextGenerator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
	PingFn     func(ctx context.Context) error
}

func (g *TextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}

func (g *TextGenerator) Ping(ctx context.Context) error {
	return g.PingFn(ctx)
}
