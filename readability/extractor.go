// Package readability extracts page content with go-readability, for sites
// whose markup does not put the docs body in a predictable region.
package readability

import (
	"strings"

	"github.com/fwojciec/docsum"
	docgoquery "github.com/fwojciec/docsum/goquery"
	"github.com/go-shiori/go-readability"
)

var _ docsum.Extractor = (*Extractor)(nil)

// Extractor scores the page's blocks and keeps the densest text region.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the readable region as Content. Pages where readability
// finds nothing to keep are rejected with EINVALID.
func (e *Extractor) Extract(rawHTML string) (*docsum.Content, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docsum.Errorf(docsum.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, docsum.Errorf(docsum.EINVALID, "readability: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, docsum.Errorf(docsum.EINVALID, "readability found no content")
	}

	return docgoquery.ExtractFragment(article.Title, article.Content)
}
