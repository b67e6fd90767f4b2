// Package slog provides logging decorators for the fetch pipeline.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sensa-code/climb"
)

// Ensure LoggingFetcher implements climb.ArticleFetcher.
var _ climb.ArticleFetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps an ArticleFetcher with operational logging.
type LoggingFetcher struct {
	next   climb.ArticleFetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next climb.ArticleFetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Name delegates to the wrapped fetcher.
func (f *LoggingFetcher) Name() climb.Strategy {
	return f.next.Name()
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (article *climb.Article, err error) {
	defer func(begin time.Time) {
		size := 0
		if article != nil {
			size = len(article.Content)
		}
		f.logger.Info("article fetch",
			"strategy", f.next.Name(),
			"url", url,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
