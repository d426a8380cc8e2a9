package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docsum"
	"github.com/fwojciec/docsum/crawl"
	"github.com/fwojciec/docsum/gemini"
	"github.com/fwojciec/docsum/goquery"
	docsumhttp "github.com/fwojciec/docsum/http"
	"github.com/fwojciec/docsum/ollama"
	"github.com/fwojciec/docsum/rod"
	docslog "github.com/fwojciec/docsum/slog"
	"github.com/fwojciec/docsum/sqlite"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// GeminiAPIKey authenticates the gemini backend. Read from GEMINI_API_KEY.
	GeminiAPIKey string

	// SQLite database, opened only when a command needs it.
	DB *sqlite.DB

	// Overrides for end-to-end testing. When nil, Run builds the real
	// implementations from the parsed flags.
	Fetcher   docsum.Fetcher
	Generator docsum.TextGenerator
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docsum"),
		kong.Description("Crawl a local documentation site and export a summary of every page."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := "crawl"
	if fields := strings.Fields(kongCtx.Command()); len(fields) > 0 {
		cmd = fields[0]
	}

	deps.Logger = newLogger(stderr, cli.Verbose)
	deps.Sitemaps = docslog.NewLoggingSitemapService(docsumhttp.NewSitemapService(nil), deps.Logger)
	deps.Detector = docslog.NewLoggingDetector(goquery.NewDetector(), deps.Logger)

	switch cmd {
	case "crawl":
		if err := m.wireBackend(ctx, deps, cli.Crawl.BackendFlags, stderr); err != nil {
			return err
		}
		deps.NewFetcher = m.fetcherFactory(cli.Crawl.FetcherFlags, deps.Logger, stderr)
		if cli.Crawl.MaxContentTokens > 0 && deps.Generator != nil {
			tokens, err := gemini.NewTokenCounter(tokenizerModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}
			deps.Tokens = tokens
		}
		if cli.Crawl.DB != "" {
			if err := m.openDB(deps, cli.Crawl.DB, stderr); err != nil {
				return err
			}
			defer m.Close()
		}

	case "check":
		if err := m.wireBackend(ctx, deps, cli.Check.BackendFlags, stderr); err != nil {
			return err
		}
		deps.NewFetcher = m.fetcherFactory(FetcherFlags{Fetcher: "http"}, deps.Logger, stderr)

	case "pages":
		if _, err := os.Stat(cli.Pages.DB); err != nil {
			return docsum.Errorf(docsum.ENOTFOUND, "database %q not found", cli.Pages.DB)
		}
		if err := m.openDB(deps, cli.Pages.DB, stderr); err != nil {
			return err
		}
		defer m.Close()
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is the local tokenizer used to clamp page text before it is
// sent to any backend. Token counts are an estimate for non-Gemini models.
const tokenizerModel = "gemini-2.5-flash"

func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// wireBackend sets deps.Generator for the selected backend. The "none"
// backend leaves it nil, so every summary uses the fallback.
func (m *Main) wireBackend(ctx context.Context, deps *Dependencies, flags BackendFlags, stderr io.Writer) error {
	if m.Generator != nil {
		deps.Generator = docslog.NewLoggingGenerator(m.Generator, flags.Backend, deps.Logger)
		return nil
	}

	var gen docsum.TextGenerator
	switch flags.Backend {
	case BackendNone:
		return nil

	case BackendOllama:
		model := flags.Model
		if model == "" {
			model = ollama.DefaultModel
		}
		gen = ollama.NewGenerator(flags.OllamaURL, model, &http.Client{Timeout: 5 * time.Minute})

	case BackendGemini:
		if m.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "Hint: Get an API key at https://aistudio.google.com/apikey")
			return docsum.Errorf(docsum.EINVALID, "GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  m.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		model := flags.Model
		if model == "" {
			model = gemini.DefaultModel
		}
		gen = gemini.NewGenerator(client, model)

	default:
		return docsum.Errorf(docsum.EINVALID, "unknown backend %q", flags.Backend)
	}

	deps.Generator = docslog.NewLoggingGenerator(gen, flags.Backend, deps.Logger)
	return nil
}

// fetcherFactory returns a constructor for the selected fetcher. The browser
// is only launched when the command asks for it.
func (m *Main) fetcherFactory(flags FetcherFlags, logger *slog.Logger, stderr io.Writer) func(context.Context, string) (docsum.Fetcher, error) {
	return func(ctx context.Context, probeURL string) (docsum.Fetcher, error) {
		if m.Fetcher != nil {
			return docslog.NewLoggingFetcher(m.Fetcher, logger), nil
		}

		switch flags.Fetcher {
		case FetcherHTTP:
			return docslog.NewLoggingFetcher(newHTTPFetcher(flags), logger), nil

		case FetcherAuto:
			static := newHTTPFetcher(flags)
			browser, err := newRodFetcher(flags)
			if err != nil {
				fmt.Fprintf(stderr, "warning: %v, using --fetcher=http\n", err)
				return docslog.NewLoggingFetcher(static, logger), nil
			}
			fetcher := crawl.ProbeFetcher(ctx, probeURL, static, browser, goquery.NewContentExtractor(goquery.AutoRegion))
			if fetcher == docsum.Fetcher(static) {
				logger.Info("fetcher probe", "url", probeURL, "fetcher", FetcherHTTP)
			} else {
				logger.Info("fetcher probe", "url", probeURL, "fetcher", FetcherRod)
			}
			return docslog.NewLoggingFetcher(fetcher, logger), nil

		default:
			fetcher, err := newRodFetcher(flags)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --fetcher=http")
				return nil, err
			}
			return docslog.NewLoggingFetcher(fetcher, logger), nil
		}
	}
}

func newHTTPFetcher(flags FetcherFlags) *docsumhttp.Fetcher {
	var opts []docsumhttp.Option
	if flags.FetchTimeout > 0 {
		opts = append(opts, docsumhttp.WithTimeout(flags.FetchTimeout))
	}
	return docsumhttp.NewFetcher(opts...)
}

func newRodFetcher(flags FetcherFlags) (*rod.Fetcher, error) {
	var opts []rod.Option
	if flags.FetchTimeout > 0 {
		opts = append(opts, rod.WithFetchTimeout(flags.FetchTimeout))
	}
	fetcher, err := rod.NewFetcher(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return fetcher, nil
}

func (m *Main) openDB(deps *Dependencies, path string, stderr io.Writer) error {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCSUM_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	deps.DB = m.DB
	deps.Runs = sqlite.NewRunService(m.DB)
	deps.Pages = sqlite.NewPageService(m.DB)
	return nil
}
