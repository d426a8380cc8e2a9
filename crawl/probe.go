package crawl

import (
	"context"
	"strings"

	"github.com/fwojciec/docsum"
)

// ContentDiffers compares the text extracted from a statically fetched page
// with the text of the same page after rendering. It returns true when the
// rendered text is more than 50% longer, meaning JavaScript adds the content.
// Extraction errors also return true.
func ContentDiffers(staticHTML, renderedHTML string, extractor docsum.Extractor) bool {
	staticContent, err := extractor.Extract(staticHTML)
	if err != nil {
		return true
	}

	renderedContent, err := extractor.Extract(renderedHTML)
	if err != nil {
		return true
	}

	staticLen := len(strings.TrimSpace(staticContent.Text()))
	renderedLen := len(strings.TrimSpace(renderedContent.Text()))

	if staticLen == 0 && renderedLen > 0 {
		return true
	}

	threshold := float64(staticLen) * 1.5
	return float64(renderedLen) > threshold
}

// ProbeFetcher fetches probeURL with both fetchers and returns the static one
// when rendering adds no content, the rendering one otherwise. The fetcher not
// returned is closed. Probing never fails: a static fetch error selects the
// rendering fetcher and a rendering fetch error selects the static one.
func ProbeFetcher(ctx context.Context, probeURL string, static, rendering docsum.Fetcher, extractor docsum.Extractor) docsum.Fetcher {
	choose := func(keep, drop docsum.Fetcher) docsum.Fetcher {
		_ = drop.Close()
		return keep
	}

	staticHTML, err := static.Fetch(ctx, probeURL)
	if err != nil {
		return choose(rendering, static)
	}

	renderedHTML, err := rendering.Fetch(ctx, probeURL)
	if err != nil {
		return choose(static, rendering)
	}

	if ContentDiffers(staticHTML, renderedHTML, extractor) {
		return choose(rendering, static)
	}
	return choose(static, rendering)
}
