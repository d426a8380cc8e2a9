package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docsum"
)

// Limits on what a single discovery will read.
const (
	maxSitemapBytes = 50 << 20 // sitemap protocol cap, uncompressed
	maxSitemaps     = 500
)

// errNoSitemap marks a fallback location that does not serve a sitemap.
var errNoSitemap = errors.New("no sitemap")

var _ docsum.SitemapService = (*SitemapService)(nil)

// SitemapService reads robots.txt and sitemap XML over HTTP.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService returns a SitemapService using client, or
// http.DefaultClient when client is nil.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs returns the in-scope page URLs listed by the site's sitemaps,
// normalized and deduplicated, in document order. A site without sitemaps
// yields an empty, non-nil slice. When scope is nil it is derived from
// baseURL.
//
// Sitemaps named in robots.txt must load. Without them, <prefix>sitemap.xml
// and /sitemap.xml are tried, and missing ones are skipped; docs generators
// often publish the sitemap under their base path.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, scope *docsum.Scope) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, docsum.Errorf(docsum.EINVALID, "invalid base URL: %v", err)
	}
	if scope == nil {
		if scope, err = docsum.NewScope(baseURL); err != nil {
			return nil, err
		}
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}

	w := &sitemapWalker{
		svc:     s,
		scope:   scope,
		visited: make(map[string]bool),
		kept:    make(map[string]bool),
		urls:    []string{},
	}

	listed, err := s.robotsSitemaps(ctx, root.JoinPath("robots.txt").String())
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(listed) > 0 {
		for _, loc := range listed {
			if err := w.walk(ctx, loc); err != nil {
				return nil, err
			}
		}
		return w.urls, nil
	}

	for _, loc := range fallbackSitemaps(root, scope) {
		if err := w.walk(ctx, loc); err != nil && !errors.Is(err, errNoSitemap) {
			return nil, err
		}
	}
	return w.urls, nil
}

// fallbackSitemaps lists conventional sitemap locations, most specific first.
func fallbackSitemaps(root *url.URL, scope *docsum.Scope) []string {
	var locs []string
	if scope.PathPrefix != "/" {
		locs = append(locs, root.JoinPath(scope.PathPrefix, "sitemap.xml").String())
	}
	return append(locs, root.JoinPath("sitemap.xml").String())
}

// robotsSitemaps returns the Sitemap: directives of a robots.txt file.
func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.get(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var locs []string
	sc := bufio.NewScanner(body)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if loc := strings.TrimSpace(value); loc != "" {
			locs = append(locs, loc)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return locs, nil
}

// sitemapWalker accumulates URLs across a tree of sitemap indexes.
type sitemapWalker struct {
	svc     *SitemapService
	scope   *docsum.Scope
	visited map[string]bool
	kept    map[string]bool
	urls    []string
}

func (w *sitemapWalker) walk(ctx context.Context, loc string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[loc] {
		return nil
	}
	if len(w.visited) >= maxSitemaps {
		return docsum.Errorf(docsum.EINVALID, "more than %d sitemaps", maxSitemaps)
	}
	w.visited[loc] = true

	body, err := w.svc.get(ctx, loc)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(io.LimitReader(body, maxSitemapBytes)); err != nil {
		return fmt.Errorf("parsing sitemap %s: %w", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("parsing sitemap %s: no root element", loc)
	}

	switch root.Tag {
	case "sitemapindex":
		for _, child := range locs(root, "sitemap") {
			if err := w.walk(ctx, child); err != nil {
				return err
			}
		}
	case "urlset":
		for _, page := range locs(root, "url") {
			w.keep(page)
		}
	default:
		return fmt.Errorf("parsing sitemap %s: unexpected <%s>", loc, root.Tag)
	}
	return nil
}

func (w *sitemapWalker) keep(page string) {
	page = docsum.NormalizeURL(page)
	if w.kept[page] || !w.scope.Contains(page) {
		return
	}
	w.kept[page] = true
	w.urls = append(w.urls, page)
}

// locs returns the non-empty <loc> texts of root's tag children.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if text := strings.TrimSpace(loc.Text()); text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

// get returns the body of a 200 response. A 404 is reported as errNoSitemap.
func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusNotFound, http.StatusGone:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", target, errNoSitemap)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
}
