package mock

import "github.com/fwojciec/docsum"

var _ docsum.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docsum.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docsum.Content, error)
}

func (e *Extractor) Extract(html string) (*docsum.Content, error) {
	return e.ExtractFn(html)
}

var _ docsum.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer is a mock implementation of docsum.LinkDiscoverer.
type LinkDiscoverer struct {
	DiscoverLinksFn func(html string, pageURL string) ([]string, error)
}

func (d *LinkDiscoverer) DiscoverLinks(html string, pageURL string) ([]string, error) {
	return d.DiscoverLinksFn(html, pageURL)
}

var _ docsum.FrameworkDetector = (*FrameworkDetector)(nil)

// FrameworkDetector is a mock implementation of docsum.FrameworkDetector.
type FrameworkDetector struct {
	DetectFn func(html string) docsum.Framework
}

func (m *FrameworkDetector) Detect(html string) docsum.Framework {
	return m.DetectFn(html)
}
