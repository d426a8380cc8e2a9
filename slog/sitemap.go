package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsum"
)

var _ docsum.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService records each sitemap lookup, including the scope
// that filtered it. Failed lookups are logged at warn level.
type LoggingSitemapService struct {
	next   docsum.SitemapService
	logger *slog.Logger
}

func NewLoggingSitemapService(next docsum.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, scope *docsum.Scope) (urls []string, err error) {
	defer func(begin time.Time) {
		prefix := "(any)"
		if scope != nil {
			prefix = scope.PathPrefix
		}
		attrs := []any{
			"url", baseURL,
			"scope", prefix,
			"urls", len(urls),
			"duration", time.Since(begin),
		}
		if err != nil {
			s.logger.Warn("sitemap", append(attrs, "err", err)...)
			return
		}
		s.logger.Info("sitemap", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, scope)
}
