package mock

import (
	"context"

	"github.com/fwojciec/docsum"
)

var (
	_ docsum.Fetcher        = (*Fetcher)(nil)
	_ docsum.DomainLimiter  = (*DomainLimiter)(nil)
	_ docsum.SitemapService = (*SitemapService)(nil)
	_ docsum.TokenCounter   = (*TokenCounter)(nil)
)

// Fetcher is a mock docsum.Fetcher. A nil CloseFn makes Close a no-op.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (m *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return m.FetchFn(ctx, url)
}

func (m *Fetcher) Close() error {
	if m.CloseFn == nil {
		return nil
	}
	return m.CloseFn()
}

// DomainLimiter is a mock docsum.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (m *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return m.WaitFn(ctx, domain)
}

// SitemapService is a mock docsum.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, scope *docsum.Scope) ([]string, error)
}

func (m *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, scope *docsum.Scope) ([]string, error) {
	return m.DiscoverURLsFn(ctx, baseURL, scope)
}

// TokenCounter is a mock docsum.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (m *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return m.CountTokensFn(ctx, text)
}
