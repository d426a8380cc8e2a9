package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsum"
)

// Ensure LinkDiscoverer implements docsum.LinkDiscoverer at compile time.
var _ docsum.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer collects in-scope anchors from a page.
type LinkDiscoverer struct {
	Scope *docsum.Scope
}

// NewLinkDiscoverer creates a LinkDiscoverer restricted to scope.
func NewLinkDiscoverer(scope *docsum.Scope) *LinkDiscoverer {
	return &LinkDiscoverer{Scope: scope}
}

// DiscoverLinks returns absolute, fragment-free URLs of every a[href] on the
// page that the scope accepts. Links are deduplicated and keep document order.
// Links back to pageURL itself are dropped.
func (d *LinkDiscoverer) DiscoverLinks(html string, pageURL string) ([]string, error) {
	if d.Scope == nil {
		return nil, docsum.Errorf(docsum.EINVALID, "link discoverer scope required")
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, docsum.Errorf(docsum.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docsum.Errorf(docsum.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.TrimSpace(href) == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		if !d.Scope.Contains(resolved) {
			return
		}

		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves href against base and strips the fragment.
// Returns empty string if the href cannot be parsed or if it points back
// at base.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	baseNoFragment.RawFragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if the href uses a scheme the crawler cannot follow.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
