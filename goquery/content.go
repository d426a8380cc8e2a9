// Package goquery implements content extraction and link discovery over
// rendered HTML using CSS selectors.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsum"
)

// DefaultRegion is the content region of a documentation page.
const DefaultRegion = "article"

// Ensure ContentExtractor implements docsum.Extractor at compile time.
var _ docsum.Extractor = (*ContentExtractor)(nil)

// ContentExtractor pulls the title, paragraphs and heading trail out of a
// page. Only elements under Region are considered. With AutoRegion the
// region is chosen per page from the detected documentation framework.
type ContentExtractor struct {
	Region string
}

// NewContentExtractor creates a ContentExtractor for the given region
// selector. An empty region means DefaultRegion.
func NewContentExtractor(region string) *ContentExtractor {
	if region == "" {
		region = DefaultRegion
	}
	return &ContentExtractor{Region: region}
}

// Extract parses html. A page without the region yields empty body and
// headings, not an error.
func (e *ContentExtractor) Extract(html string) (*docsum.Content, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docsum.Errorf(docsum.EINVALID, "failed to parse HTML: %v", err)
	}

	region := e.Region
	switch region {
	case "":
		region = DefaultRegion
	case AutoRegion:
		region = RegionFor(detectDocument(doc))
	}
	root := doc.Find(region)

	return &docsum.Content{
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		Body:     joinText(root.Find("p"), "\n"),
		Headings: joinText(root.Find("h1, h2, h3"), docsum.HeadingSeparator),
	}, nil
}

// joinText joins the trimmed text of every non-empty element in sel.
func joinText(sel *goquery.Selection, sep string) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, sep)
}

// ExtractFragment extracts body and headings from an HTML fragment that is
// already reduced to the main content, such as the output of a
// boilerplate-removal library. The title is supplied by the caller.
func ExtractFragment(title, fragment string) (*docsum.Content, error) {
	content, err := (&ContentExtractor{Region: "body"}).Extract(fragment)
	if err != nil {
		return nil, err
	}
	content.Title = strings.TrimSpace(title)
	return content, nil
}
