package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sensa-code/climb"
)

// Ensure LoggingStore implements climb.ArticleStore.
var _ climb.ArticleStore = (*LoggingStore)(nil)

// LoggingStore wraps an ArticleStore with operational logging.
type LoggingStore struct {
	next   climb.ArticleStore
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next climb.ArticleStore, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Save delegates to the wrapped store and logs the operation.
func (s *LoggingStore) Save(ctx context.Context, article *climb.Article) (path string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("article save",
			"title", article.Title,
			"url", article.URL,
			"images", len(article.Images),
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, article)
}
