package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sensa-code/climb"
	"github.com/sensa-code/climb/crawl"
	"github.com/sensa-code/climb/task"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Config *climb.ConfigStore
	Logger *slog.Logger

	Fetch  crawl.FetchFunc
	HTML   climb.HTMLFetcher
	Runner *task.Runner

	// The output directory is a per-command flag, so stores, ledgers,
	// and report writers are created at command run time.
	NewStore   func(dir string) climb.ArticleStore
	NewLedger  func(dir string) climb.Ledger
	NewReports func(dir string) climb.ReportWriter
}

// outputDir resolves the effective output directory: the command flag
// wins over the configured default.
func (d *Dependencies) outputDir(flag string) string {
	if flag != "" {
		return flag
	}
	return d.Config.Load().OutputDir
}

// newBatchDriver assembles a batch driver targeting dir.
func (d *Dependencies) newBatchDriver(dir string) *crawl.BatchDriver {
	return &crawl.BatchDriver{
		Fetch:   d.Fetch,
		Store:   d.NewStore(dir),
		Ledger:  d.NewLedger(dir),
		Reports: d.NewReports(dir),
		Config:  d.Config,
		Logger:  d.Logger,
	}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Fetch    FetchCmd    `cmd:"" help:"Fetch a single article URL"`
	Batch    BatchCmd    `cmd:"" help:"Fetch every URL listed in a file"`
	Board    BoardCmd    `cmd:"" help:"Fetch new posts from a forum board"`
	Identify IdentifyCmd `cmd:"" help:"Show the platform classification for a URL"`
	Serve    ServeCmd    `cmd:"" help:"Run the local HTTP ingestion server"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL    string `arg:"" help:"Article URL"`
	Output string `short:"o" help:"Output directory (default from config)"`
	Force  bool   `short:"f" help:"Refetch even when the URL is already in the ledger"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File   string        `arg:"" help:"File with one URL per line; # starts a comment"`
	Output string        `short:"o" help:"Output directory (default from config)"`
	Every  time.Duration `help:"Re-run on this interval until interrupted"`
}

// BoardCmd is the "board" subcommand.
type BoardCmd struct {
	Board  string        `arg:"" help:"Board name, e.g. cat"`
	Pages  int           `short:"p" default:"1" help:"Listing pages to walk backward"`
	Output string        `short:"o" help:"Output directory (default from config)"`
	Every  time.Duration `help:"Re-run on this interval until interrupted"`
}

// IdentifyCmd is the "identify" subcommand.
type IdentifyCmd struct {
	URL string `arg:"" help:"URL to classify"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr   string `default:"127.0.0.1:8831" help:"Listen address"`
	Output string `short:"o" help:"Output directory (default from config)"`
}

// runEvery runs fn once, then again on every tick when an interval is
// set, until the command context is cancelled.
func runEvery(deps *Dependencies, every time.Duration, fn func() error) error {
	if err := fn(); err != nil || every <= 0 {
		return err
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-deps.Ctx.Done():
			return nil
		case <-ticker.C:
			if err := fn(); err != nil {
				return err
			}
		}
	}
}

// printSummary writes the tri-count batch summary.
func printSummary(w io.Writer, result *climb.BatchResult) {
	fmt.Fprintf(w, "success: %d, failed: %d, skipped: %d\n",
		len(result.Success), len(result.Failed), len(result.Skipped))
}
