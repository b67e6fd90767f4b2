package slog_test

import (
	"bytes"
	"context"
	stdslog "log/slog"
	"testing"

	"github.com/sensa-code/climb"
	"github.com/sensa-code/climb/mock"
	climbslog "github.com/sensa-code/climb/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() (*stdslog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return stdslog.New(stdslog.NewTextHandler(&buf, nil)), &buf
}

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	t.Run("delegates and logs the fetch", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		next := &mock.ArticleFetcher{
			NameFn: func() climb.Strategy { return climb.StrategyStatic },
			FetchFn: func(ctx context.Context, url string) (*climb.Article, error) {
				return &climb.Article{Title: "t", Content: "body"}, nil
			},
		}
		f := climbslog.NewLoggingFetcher(next, logger)

		article, err := f.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "t", article.Title)
		assert.Equal(t, climb.StrategyStatic, f.Name())
		assert.Contains(t, buf.String(), "article fetch")
		assert.Contains(t, buf.String(), "strategy=static")
		assert.Contains(t, buf.String(), "url=https://example.com/post")
	})

	t.Run("logs the error on failure", func(t *testing.T) {
		t.Parallel()

		logger, buf := testLogger()
		next := &mock.ArticleFetcher{
			NameFn: func() climb.Strategy { return climb.StrategyBrowser },
			FetchFn: func(ctx context.Context, url string) (*climb.Article, error) {
				return nil, climb.Errorf(climb.EUNAVAILABLE, "no browser")
			},
		}
		f := climbslog.NewLoggingFetcher(next, logger)

		_, err := f.Fetch(context.Background(), "https://example.com/post")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "no browser")
	})
}

func TestLoggingStore(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	next := &mock.ArticleStore{
		SaveFn: func(ctx context.Context, article *climb.Article) (string, error) {
			return "/out/dir", nil
		},
	}
	s := climbslog.NewLoggingStore(next, logger)

	path, err := s.Save(context.Background(), &climb.Article{Title: "t", Content: "c", URL: "https://example.com"})

	require.NoError(t, err)
	assert.Equal(t, "/out/dir", path)
	assert.Contains(t, buf.String(), "article save")
	assert.Contains(t, buf.String(), "path=/out/dir")
}
