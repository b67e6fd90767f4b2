package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sensa-code/climb"
)

// Fetcher coordinates platform classification, robots checking, and the
// strategy fallback chain for a single URL.
type Fetcher struct {
	Config     *climb.ConfigStore
	Robots     climb.RobotsPolicy
	Strategies []climb.ArticleFetcher
	Logger     *slog.Logger
}

// StrategyOrder returns the fallback chain for a platform's preferred
// strategy. The browser chain omits the reader proxy: platforms that
// need a real browser serve nothing useful to a proxy either.
func StrategyOrder(preferred climb.Strategy) []climb.Strategy {
	switch preferred {
	case climb.StrategyStatic:
		return []climb.Strategy{climb.StrategyStatic, climb.StrategyReader, climb.StrategyBrowser}
	case climb.StrategyBrowser:
		return []climb.Strategy{climb.StrategyBrowser, climb.StrategyStatic}
	default:
		return []climb.Strategy{climb.StrategyReader, climb.StrategyStatic, climb.StrategyBrowser}
	}
}

// Fetch runs url through the pipeline and returns the extracted article.
// Platforms that require a login are rejected up front with EFORBIDDEN,
// as are URLs disallowed by robots.txt. Each strategy in the platform's
// fallback chain is retried before moving on; ENOTFOUND is returned once
// the chain is exhausted.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*climb.Article, error) {
	platform := climb.Classify(url)
	if platform.Strategy == climb.StrategySkip {
		return nil, climb.Errorf(climb.EFORBIDDEN, "%s requires login, cannot fetch %s", platform.Name, url)
	}

	if f.Robots != nil && !f.Robots.IsAllowed(ctx, url) {
		return nil, climb.Errorf(climb.EFORBIDDEN, "blocked by robots.txt: %s", url)
	}

	cfg := f.Config.Load()
	logger := f.logger()

	for _, name := range StrategyOrder(platform.Strategy) {
		fetcher := f.strategy(name)
		if fetcher == nil {
			continue
		}
		if cfg.RequestTimeout > 0 {
			fetcher = &timeoutFetcher{ArticleFetcher: fetcher, timeout: cfg.RequestTimeout}
		}

		article, err := FetchWithRetry(ctx, fetcher, url, cfg.MaxRetries, cfg.RetryBaseDelay, func(format string, args ...any) {
			logger.Debug("retrying fetch", "detail", fmt.Sprintf(format, args...))
		})
		if err != nil {
			logger.Warn("strategy failed", "strategy", name, "url", url, "error", err)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			continue
		}

		article.Platform = platform.Name
		return article, nil
	}

	return nil, climb.Errorf(climb.ENOTFOUND, "no strategy could extract %s", url)
}

func (f *Fetcher) strategy(name climb.Strategy) climb.ArticleFetcher {
	for _, s := range f.Strategies {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

// timeoutFetcher bounds each fetch attempt so retry backoff time never
// counts against the request budget.
type timeoutFetcher struct {
	climb.ArticleFetcher
	timeout time.Duration
}

func (t *timeoutFetcher) Fetch(ctx context.Context, url string) (*climb.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.ArticleFetcher.Fetch(ctx, url)
}
