package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/sensa-code/climb"
	"github.com/sensa-code/climb/crawl"
	"github.com/sensa-code/climb/fs"
	"github.com/sensa-code/climb/goquery"
	"github.com/sensa-code/climb/htmltomarkdown"
	climbhttp "github.com/sensa-code/climb/http"
	"github.com/sensa-code/climb/readability"
	"github.com/sensa-code/climb/rod"
	climbslog "github.com/sensa-code/climb/slog"
	"github.com/sensa-code/climb/task"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path. Set before calling Run().
	ConfigPath string

	browser *rod.BrowserFetcher
	runner  *task.Runner
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: defaultConfigPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.runner != nil {
		m.runner.Shutdown()
	}
	if m.browser != nil {
		return m.browser.Close()
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
		kong.Name("climb"),
		kong.Description("Fetch web articles as markdown with local images."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'climb --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(m.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config %q: %w", m.ConfigPath, err)
	}
	store := climb.NewConfigStore(cfg)
	logger := newLogger(stderr, cfg.LogLevel)

	// No client-level timeout: each request path applies its own budget
	// (per attempt in the orchestrator, per download for images and robots).
	client := &http.Client{}
	normalizer := goquery.NewNormalizer(
		htmltomarkdown.NewConverter(),
		goquery.WithExtractor(readability.NewExtractor()),
	)

	static := climbhttp.NewStaticFetcher(client, store, normalizer)
	reader := climbhttp.NewReaderFetcher(client, store)
	m.browser = rod.NewBrowserFetcher(normalizer)
	m.runner = task.NewRunner(task.WithLogger(logger))

	fetcher := &crawl.Fetcher{
		Config: store,
		Robots: climbhttp.NewRobotsChecker(client),
		Strategies: []climb.ArticleFetcher{
			climbslog.NewLoggingFetcher(reader, logger),
			climbslog.NewLoggingFetcher(static, logger),
			climbslog.NewLoggingFetcher(m.browser, logger),
		},
		Logger: logger,
	}

	downloader := climbhttp.NewImageDownloader(client)
	deps.Config = store
	deps.Logger = logger
	deps.Fetch = fetcher.Fetch
	deps.HTML = static
	deps.Runner = m.runner
	deps.NewStore = func(dir string) climb.ArticleStore {
		return climbslog.NewLoggingStore(fs.NewArticleStore(dir, downloader, fs.WithLogger(logger)), logger)
	}
	deps.NewLedger = func(dir string) climb.Ledger {
		return fs.NewFileLedger(dir)
	}
	deps.NewReports = func(dir string) climb.ReportWriter {
		return fs.NewReportWriter(dir)
	}

	return kongCtx.Run(deps)
}
