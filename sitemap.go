package docsum

import "context"

// SitemapService lists page URLs advertised by a site.
type SitemapService interface {
	// DiscoverURLs reads Sitemap: lines from robots.txt, falling back to
	// /sitemap.xml, and follows sitemap indexes. Only URLs inside scope are
	// returned; a nil scope keeps everything.
	DiscoverURLs(ctx context.Context, baseURL string, scope *Scope) ([]string, error)
}
