package crawl

import (
	"context"
	"log/slog"

	"github.com/sensa-code/climb"
	"golang.org/x/time/rate"
)

// BatchDriver runs a list of URLs through the fetch pipeline with dedup
// checks, politeness pacing, and a persisted run report.
type BatchDriver struct {
	Fetch   FetchFunc
	Store   climb.ArticleStore
	Ledger  climb.Ledger
	Reports climb.ReportWriter
	Config  *climb.ConfigStore
	Logger  *slog.Logger
}

// Run processes urls in order and returns the tallied outcomes. Known
// duplicates and login-required platforms are skipped before any network
// traffic. A single URL's failure never aborts the run. The report is
// written even when the run is cut short by context cancellation, in
// which case the context error is returned alongside the partial result.
func (d *BatchDriver) Run(ctx context.Context, urls []string) (*climb.BatchResult, error) {
	logger := d.logger()
	result := climb.NewBatchResult()

	cfg := d.Config.Load()
	// Burst 1 with a full initial token: the first URL goes immediately,
	// later ones wait out the politeness delay.
	limiter := rate.NewLimiter(rate.Every(cfg.PolitenessDelay), 1)

	var runErr error
	for i, url := range urls {
		logger.Info("processing url", "index", i+1, "total", len(urls), "url", url)

		if d.Ledger.IsFetched(url) {
			logger.Info("already fetched, skipping", "url", url)
			result.Skipped = append(result.Skipped, climb.BatchOutcome{URL: url, Reason: "already fetched"})
			continue
		}
		platform := climb.Classify(url)
		if platform.Strategy == climb.StrategySkip {
			logger.Warn("platform requires login, skipping", "platform", platform.Name, "url", url)
			result.Skipped = append(result.Skipped, climb.BatchOutcome{URL: url, Reason: platform.Name + " requires login"})
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			runErr = err
			break
		}

		article, err := d.Fetch(ctx, url)
		if err != nil {
			logger.Warn("fetch failed", "url", url, "error", err)
			result.Failed = append(result.Failed, climb.BatchOutcome{URL: url, Reason: climb.ErrorMessage(err)})
			continue
		}

		path, err := d.Store.Save(ctx, article)
		if err != nil {
			logger.Warn("save failed", "url", url, "error", err)
			result.Failed = append(result.Failed, climb.BatchOutcome{URL: url, Reason: climb.ErrorMessage(err)})
			continue
		}
		if err := d.Ledger.MarkFetched(url); err != nil {
			logger.Warn("ledger update failed", "url", url, "error", err)
		}
		result.Success = append(result.Success, climb.BatchOutcome{URL: url, Path: path})
	}

	logger.Info("batch finished",
		"success", len(result.Success),
		"failed", len(result.Failed),
		"skipped", len(result.Skipped))

	if d.Reports != nil {
		path, err := d.Reports.WriteReport(result)
		if err != nil {
			logger.Warn("report write failed", "error", err)
		} else {
			logger.Info("report written", "path", path)
		}
	}

	return result, runErr
}

func (d *BatchDriver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
