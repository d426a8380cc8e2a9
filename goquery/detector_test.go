package goquery_test

import (
	"testing"

	"github.com/fwojciec/docsum"
	"github.com/fwojciec/docsum/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want docsum.Framework
	}{
		{
			name: "Docusaurus skip link",
			html: `<html><body><a id="__docusaurus_skipToContent_fallback" href="#x">Skip</a></body></html>`,
			want: docsum.FrameworkDocusaurus,
		},
		{
			name: "Docusaurus head attributes",
			html: `<html data-theme="light" data-rh="lang,dir"><body></body></html>`,
			want: docsum.FrameworkDocusaurus,
		},
		{
			name: "MkDocs Material color scheme",
			html: `<html><body data-md-color-scheme="default"><div class="md-content"></div></body></html>`,
			want: docsum.FrameworkMkDocs,
		},
		{
			name: "Sphinx ReadTheDocs sidebar",
			html: `<html><body><nav class="wy-nav-side"></nav></body></html>`,
			want: docsum.FrameworkSphinx,
		},
		{
			name: "VitePress content",
			html: `<html><body><div id="VPContent"><div class="vp-doc"></div></div></body></html>`,
			want: docsum.FrameworkVitePress,
		},
		{
			name: "VuePress content",
			html: `<html><body><div class="theme-default-content"></div></body></html>`,
			want: docsum.FrameworkVuePress,
		},
		{
			name: "GitBook sidebar",
			html: `<html><body><aside data-testid="space.sidebar"></aside></body></html>`,
			want: docsum.FrameworkGitBook,
		},
		{
			name: "GitBook html classes",
			html: `<html class="circular-corners theme-clean"><body></body></html>`,
			want: docsum.FrameworkGitBook,
		},
		{
			name: "single GitBook class is not enough",
			html: `<html class="tint"><body></body></html>`,
			want: docsum.FrameworkUnknown,
		},
		{
			name: "Nextra navbar",
			html: `<html><body><div class="nextra-navbar"></div></body></html>`,
			want: docsum.FrameworkNextra,
		},
		{
			name: "meta generator wins over markup",
			html: `<html><head><meta name="generator" content="Sphinx 7.2.6"></head><body><div class="nextra-toc"></div></body></html>`,
			want: docsum.FrameworkSphinx,
		},
		{
			name: "meta generator is case insensitive",
			html: `<html><head><meta name="generator" content="VitePress v1.0.0"></head><body></body></html>`,
			want: docsum.FrameworkVitePress,
		},
		{
			name: "plain page",
			html: `<html><body><article><p>Hello</p></article></body></html>`,
			want: docsum.FrameworkUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, goquery.NewDetector().Detect(tt.html))
		})
	}
}

func TestRegionFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "article", goquery.RegionFor(docsum.FrameworkDocusaurus))
	assert.Equal(t, ".md-content", goquery.RegionFor(docsum.FrameworkMkDocs))
	assert.Equal(t, "div[role='main']", goquery.RegionFor(docsum.FrameworkSphinx))
	assert.Equal(t, goquery.DefaultRegion, goquery.RegionFor(docsum.FrameworkUnknown))
}

func TestContentExtractor_AutoRegion(t *testing.T) {
	t.Parallel()

	t.Run("uses detected framework region", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Install</title></head>
<body>
<nav class="wy-nav-side"><p>Menu text</p></nav>
<div role="main">
	<h1>Installation</h1>
	<p>Run pip install.</p>
</div>
</body></html>`

		got, err := goquery.NewContentExtractor(goquery.AutoRegion).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Installation", got.Headings)
		assert.Equal(t, "Run pip install.", got.Body)
	})

	t.Run("falls back to article for unknown sites", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article><p>Plain</p></article></body></html>`

		got, err := goquery.NewContentExtractor(goquery.AutoRegion).Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Plain", got.Body)
	})
}
