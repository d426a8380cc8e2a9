package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsum"
)

// AutoRegion makes ContentExtractor pick the region from the detected framework.
const AutoRegion = "auto"

// Ensure Detector implements docsum.FrameworkDetector at compile time.
var _ docsum.FrameworkDetector = (*Detector)(nil)

// frameworkMarkers lists selectors unique to each framework, in detection
// order. VitePress precedes VuePress since it reuses some VuePress markup.
var frameworkMarkers = []struct {
	framework docsum.Framework
	selectors []string
}{
	{docsum.FrameworkDocusaurus, []string{"#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container", "[data-rh][data-theme]"}},
	{docsum.FrameworkMkDocs, []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"}},
	{docsum.FrameworkSphinx, []string{".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"}},
	{docsum.FrameworkVitePress, []string{"#VPContent", ".VPDoc", ".VPDocAsideOutline"}},
	{docsum.FrameworkVuePress, []string{".theme-default-content", ".sidebar-links", ".vuepress-navbar"}},
	{docsum.FrameworkGitBook, []string{"[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']"}},
	{docsum.FrameworkNextra, []string{".nextra-navbar", ".nextra-sidebar", ".nextra-toc"}},
}

// frameworkRegions maps a framework to the element holding page content.
var frameworkRegions = map[docsum.Framework]string{
	docsum.FrameworkDocusaurus: "article",
	docsum.FrameworkMkDocs:     ".md-content",
	docsum.FrameworkSphinx:     "div[role='main']",
	docsum.FrameworkVitePress:  ".vp-doc",
	docsum.FrameworkVuePress:   ".theme-default-content",
	docsum.FrameworkGitBook:    "main",
	docsum.FrameworkNextra:     "article",
}

// RegionFor returns the content region selector for a framework,
// DefaultRegion when the framework is unknown.
func RegionFor(framework docsum.Framework) string {
	if region, ok := frameworkRegions[framework]; ok {
		return region
	}
	return DefaultRegion
}

// Detector identifies documentation frameworks from meta generator tags
// and framework-specific markup.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
func (d *Detector) Detect(html string) docsum.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return docsum.FrameworkUnknown
	}
	return detectDocument(doc)
}

func detectDocument(doc *goquery.Document) docsum.Framework {
	// Meta generator is the most reliable signal when present.
	if framework := detectFromMetaGenerator(doc); framework != docsum.FrameworkUnknown {
		return framework
	}

	for _, m := range frameworkMarkers {
		for _, selector := range m.selectors {
			if doc.Find(selector).Length() > 0 {
				return m.framework
			}
		}
	}

	if hasGitBookClasses(doc) {
		return docsum.FrameworkGitBook
	}
	return docsum.FrameworkUnknown
}

func detectFromMetaGenerator(doc *goquery.Document) docsum.Framework {
	generator, _ := doc.Find("meta[name='generator']").Last().Attr("content")
	generator = strings.ToLower(generator)
	if generator == "" {
		return docsum.FrameworkUnknown
	}

	for _, f := range []docsum.Framework{
		docsum.FrameworkSphinx,
		docsum.FrameworkGitBook,
		docsum.FrameworkDocusaurus,
		docsum.FrameworkMkDocs,
		docsum.FrameworkVitePress,
		docsum.FrameworkVuePress,
		docsum.FrameworkNextra,
	} {
		if strings.Contains(generator, string(f)) {
			return f
		}
	}
	return docsum.FrameworkUnknown
}

// hasGitBookClasses requires at least two of GitBook's html classes.
func hasGitBookClasses(doc *goquery.Document) bool {
	class, _ := doc.Find("html").First().Attr("class")
	if class == "" {
		return false
	}

	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			count++
		}
	}
	return count >= 2
}
