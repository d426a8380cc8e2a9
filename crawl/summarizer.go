package crawl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/docsum"
)

// DefaultSummaryTimeout bounds one Summarize call, retries included.
const DefaultSummaryTimeout = 2 * time.Minute

var errEmptyResponse = errors.New("empty response from text generator")

var _ docsum.Summarizer = (*Summarizer)(nil)

// Summarizer produces summaries with a TextGenerator and falls back to
// docsum.FallbackSummary whenever the generator cannot deliver one.
type Summarizer struct {
	// Generator is the backend. A nil Generator always yields fallback summaries.
	Generator docsum.TextGenerator

	// Breaker, if set, skips the backend after repeated failures.
	Breaker *Breaker

	// Timeout bounds each Summarize call. Defaults to DefaultSummaryTimeout.
	Timeout time.Duration

	// RetryDelays between generation attempts. Nil means DefaultRetryDelays;
	// an empty slice means a single attempt.
	RetryDelays []time.Duration

	// Tokens and MaxContentTokens, if both set, cut page text down to the
	// model's input budget before it is sent.
	Tokens           docsum.TokenCounter
	MaxContentTokens int

	// Separator is the export field separator kept out of summaries.
	// Empty means docsum.Separator.
	Separator string

	// Logger receives retry and fallback notices.
	Logger LogFunc
}

// Summarize returns the generator's trimmed response with the separator
// removed, or a degraded fallback summary. It never fails.
func (s *Summarizer) Summarize(ctx context.Context, content string) (summary docsum.Summary) {
	if s.Generator == nil {
		return s.fallback(content)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logf("summarize panicked, using fallback: %v", r)
			summary = s.fallback(content)
		}
	}()

	text, err := s.generate(ctx, content)
	if err != nil {
		s.logf("summarize failed, using fallback: %v", err)
		return s.fallback(content)
	}
	return docsum.Summary{Text: docsum.SanitizeSummary(text, s.Separator)}
}

func (s *Summarizer) generate(ctx context.Context, content string) (string, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultSummaryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	prompt := docsum.BuildSummaryPrompt(s.clamp(ctx, content), s.Separator)
	var text string
	attempt := func(ctx context.Context) error {
		out, err := s.Generator.Generate(ctx, prompt)
		if err != nil {
			return err
		}
		if strings.TrimSpace(out) == "" {
			return errEmptyResponse
		}
		text = out
		return nil
	}
	call := func(ctx context.Context) error {
		return Retry(ctx, delays, attempt, func(n int, err error) {
			s.logf("retry generate (attempt %d): %v", n, err)
		})
	}

	var err error
	if s.Breaker != nil {
		err = s.Breaker.Call(ctx, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return text, nil
}

// clamp shortens content to about MaxContentTokens, assuming tokens are
// spread evenly over runes. Counting errors leave content unchanged.
func (s *Summarizer) clamp(ctx context.Context, content string) string {
	if s.Tokens == nil || s.MaxContentTokens <= 0 {
		return content
	}
	n, err := s.Tokens.CountTokens(ctx, content)
	if err != nil || n <= s.MaxContentTokens {
		return content
	}
	runes := []rune(content)
	keep := len(runes) * s.MaxContentTokens / n
	s.logf("content has %d tokens, truncating to %d", n, s.MaxContentTokens)
	return string(runes[:keep])
}

func (s *Summarizer) logf(format string, args ...any) {
	if s.Logger != nil {
		s.Logger(format, args...)
	}
}

func (s *Summarizer) fallback(content string) docsum.Summary {
	return docsum.Summary{Text: docsum.FallbackSummary(content, s.Separator), Degraded: true}
}
