// Package trafilatura implements content extraction with go-trafilatura's
// boilerplate removal, for sites without a clean content region.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/docsum"
	docgoquery "github.com/fwojciec/docsum/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docsum.Extractor at compile time.
var _ docsum.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	// Fallback is used when trafilatura finds no main content.
	Fallback docsum.Extractor
}

// NewExtractor creates a new Extractor that falls back to the article
// region extractor.
func NewExtractor() *Extractor {
	return &Extractor{Fallback: docgoquery.NewContentExtractor(docgoquery.DefaultRegion)}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docsum.Content, error) {
	if rawHTML == "" {
		return nil, docsum.Errorf(docsum.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil || result == nil || result.ContentNode == nil {
		if e.Fallback != nil {
			return e.Fallback.Extract(rawHTML)
		}
		if err != nil {
			return nil, err
		}
		return &docsum.Content{}, nil
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	content, err := docgoquery.ExtractFragment(result.Metadata.Title, contentHTML)
	if err != nil {
		return nil, err
	}
	if content.Empty() && e.Fallback != nil {
		return e.Fallback.Extract(rawHTML)
	}
	return content, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
