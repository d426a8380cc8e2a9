package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docsum"
	"github.com/fwojciec/docsum/sqlite"
)

// Backend names accepted by --backend.
const (
	BackendOllama = "ollama"
	BackendGemini = "gemini"
	BackendNone   = "none"
)

// Fetcher names accepted by --fetcher.
const (
	FetcherRod  = "rod"
	FetcherHTTP = "http"
	FetcherAuto = "auto"
)

// Extractor names accepted by --extractor.
const (
	ExtractorArticle     = "article"
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
)

// DefaultStartURL is crawled when no start URL is given.
const DefaultStartURL = "http://localhost:3000/docs/"

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// NewFetcher launches the page fetcher. Commands call it lazily so the
	// browser is not started when pre-flight checks fail. probeURL is the
	// page used to choose a fetcher in auto mode.
	NewFetcher func(ctx context.Context, probeURL string) (docsum.Fetcher, error)

	Generator docsum.TextGenerator // nil for the "none" backend
	Tokens    docsum.TokenCounter
	Sitemaps  docsum.SitemapService
	Detector  docsum.FrameworkDetector

	DB    *sqlite.DB
	Runs  docsum.RunService
	Pages docsum.PageService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" env:"DOCSUM_VERBOSE" help:"Log every fetch, generation and export to stderr"`

	Crawl CrawlCmd `cmd:"" default:"withargs" help:"Crawl a documentation site and export page summaries"`
	Check CheckCmd `cmd:"" help:"Probe the summarization backend and detect a site's framework"`
	Pages PagesCmd `cmd:"" help:"List page records stored in a SQLite mirror"`
}

// BackendFlags select the summarization backend.
type BackendFlags struct {
	Backend   string `enum:"ollama,gemini,none" default:"ollama" env:"DOCSUM_BACKEND" help:"Summarization backend (ollama, gemini, none)"`
	Model     string `env:"DOCSUM_MODEL" help:"Model name (default depends on backend)"`
	OllamaURL string `name:"ollama-url" default:"http://localhost:11434" env:"DOCSUM_OLLAMA_URL" help:"Ollama server address"`
}

// FetcherFlags select how pages are loaded.
type FetcherFlags struct {
	Fetcher      string        `enum:"rod,http,auto" default:"rod" env:"DOCSUM_FETCHER" help:"Page loader: headless browser (rod), plain HTTP (http), or probe the start page (auto)"`
	FetchTimeout time.Duration `env:"DOCSUM_FETCH_TIMEOUT" help:"Fetcher's own per-request timeout (default depends on fetcher)"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	StartURL string `arg:"" optional:"" default:"http://localhost:3000/docs/" help:"Start page; its path sets the crawl scope"`

	Output       string `short:"o" default:"docs.csv" env:"DOCSUM_OUTPUT" help:"Export file path"`
	Separator    string `default:"|" env:"DOCSUM_SEPARATOR" help:"Field separator of the export file"`
	SourceColumn bool   `env:"DOCSUM_SOURCE_COLUMN" help:"Add a Summary Source column (ai or fallback)"`
	DB           string `env:"DOCSUM_DB" help:"Also mirror records into this SQLite database"`

	BackendFlags `embed:""`
	Strict       bool `default:"true" negatable:"" env:"DOCSUM_STRICT" help:"Abort when the backend fails its liveness probe"`

	FetcherFlags `embed:""`
	Extractor    string `enum:"article,trafilatura,readability" default:"article" env:"DOCSUM_EXTRACTOR" help:"Content extractor"`
	Region       string `default:"article" env:"DOCSUM_REGION" help:"CSS selector of the content region, or auto to detect the docs framework"`

	Delay            time.Duration `default:"50ms" env:"DOCSUM_DELAY" help:"Minimum delay between page loads"`
	Checkpoint       time.Duration `default:"30s" env:"DOCSUM_CHECKPOINT" help:"Interval between periodic exports (negative disables)"`
	PageTimeout      time.Duration `env:"DOCSUM_PAGE_TIMEOUT" help:"Upper bound on loading one page (0 = none)"`
	SummaryTimeout   time.Duration `default:"2m" env:"DOCSUM_SUMMARY_TIMEOUT" help:"Upper bound on summarizing one page, retries included"`
	SummaryRetries   int           `default:"2" env:"DOCSUM_SUMMARY_RETRIES" help:"Retries after a failed generation"`
	MaxContentTokens int           `env:"DOCSUM_MAX_CONTENT_TOKENS" help:"Truncate page text to this many tokens before summarizing (0 = no limit)"`
	MaxPages         int           `env:"DOCSUM_MAX_PAGES" help:"Stop after this many pages (0 = no limit)"`
	MaxDepth         int           `env:"DOCSUM_MAX_DEPTH" help:"Do not follow links deeper than this (0 = no limit)"`
	Sitemap          bool          `env:"DOCSUM_SITEMAP" help:"Seed the crawl with in-scope sitemap URLs"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	URL string `arg:"" optional:"" help:"Page to fetch over HTTP for framework detection"`

	BackendFlags `embed:""`
}

// PagesCmd is the "pages" subcommand.
type PagesCmd struct {
	DB       string `arg:"" optional:"" default:"docsum.db" help:"SQLite database written by crawl --db"`
	RunID    string `name:"run" help:"Run ID (default: latest run)"`
	Degraded bool   `help:"Only list pages with fallback summaries"`
	Limit    int    `help:"Maximum number of pages to list"`
}
