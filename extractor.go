package docsum

import "strings"

// HeadingSeparator joins the heading trail of a page.
const HeadingSeparator = " > "

// Content holds the text extracted from a rendered page.
type Content struct {
	// Title is the document title.
	Title string

	// Body is the paragraph text of the content region, one paragraph per line.
	Body string

	// Headings is the h1-h3 trail of the content region joined by HeadingSeparator.
	Headings string
}

// Text returns the text handed to the summarizer: headings, a blank line,
// then the body.
func (c *Content) Text() string {
	return c.Headings + "\n\n" + c.Body
}

// Empty reports whether no text was found in the content region.
func (c *Content) Empty() bool {
	return strings.TrimSpace(c.Body) == "" && strings.TrimSpace(c.Headings) == ""
}

// Extractor pulls the title, body paragraphs and heading trail out of a page.
type Extractor interface {
	// Extract processes rendered HTML. A page without a content region
	// yields empty Body and Headings, not an error.
	Extract(html string) (*Content, error)
}

// LinkDiscoverer finds in-scope links on a page.
type LinkDiscoverer interface {
	// DiscoverLinks returns absolute, fragment-free, de-duplicated URLs
	// in document order. pageURL is used to resolve relative hrefs.
	DiscoverLinks(html string, pageURL string) ([]string, error)
}
