package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/sensa-code/climb"
	"github.com/sensa-code/climb/crawl"
	"github.com/sensa-code/climb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingFetcher(calls *int, err error) *mock.ArticleFetcher {
	return &mock.ArticleFetcher{
		NameFn: func() climb.Strategy { return climb.StrategyStatic },
		FetchFn: func(ctx context.Context, url string) (*climb.Article, error) {
			*calls++
			return nil, err
		},
	}
}

func TestRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("doubles from the base between attempts", func(t *testing.T) {
		t.Parallel()

		delays := crawl.RetryDelays(4, 2*time.Second)

		assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, delays)
	})

	t.Run("single attempt needs no delay", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, crawl.RetryDelays(1, time.Second))
	})

	t.Run("non-positive attempts are clamped to one", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, crawl.RetryDelays(0, time.Second))
	})
}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("makes one attempt per delay plus the initial call", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := failingFetcher(&calls, climb.Errorf(climb.EINTERNAL, "boom"))
		delays := []time.Duration{time.Millisecond, 2 * time.Millisecond}

		_, err := crawl.FetchWithRetryDelays(context.Background(), f, "https://example.com", delays, nil)

		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})
}

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns the first success without retrying", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := &mock.ArticleFetcher{
			NameFn: func() climb.Strategy { return climb.StrategyStatic },
			FetchFn: func(ctx context.Context, url string) (*climb.Article, error) {
				calls++
				return &climb.Article{Title: "ok", Content: "body"}, nil
			},
		}

		article, err := crawl.FetchWithRetry(context.Background(), f, "https://example.com", 3, time.Millisecond, nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", article.Title)
		assert.Equal(t, 1, calls)
	})

	t.Run("exhausts all attempts on persistent failure", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := failingFetcher(&calls, climb.Errorf(climb.EINTERNAL, "boom"))

		_, err := crawl.FetchWithRetry(context.Background(), f, "https://example.com", 3, time.Millisecond, nil)

		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("recovers when a later attempt succeeds", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := &mock.ArticleFetcher{
			NameFn: func() climb.Strategy { return climb.StrategyStatic },
			FetchFn: func(ctx context.Context, url string) (*climb.Article, error) {
				calls++
				if calls < 3 {
					return nil, climb.Errorf(climb.EINTERNAL, "flaky")
				}
				return &climb.Article{Title: "ok", Content: "body"}, nil
			},
		}

		article, err := crawl.FetchWithRetry(context.Background(), f, "https://example.com", 3, time.Millisecond, nil)

		require.NoError(t, err)
		assert.NotNil(t, article)
		assert.Equal(t, 3, calls)
	})

	t.Run("unavailable engine is not retried", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := failingFetcher(&calls, climb.Errorf(climb.EUNAVAILABLE, "no browser"))

		_, err := crawl.FetchWithRetry(context.Background(), f, "https://example.com", 5, time.Millisecond, nil)

		require.Error(t, err)
		assert.Equal(t, climb.EUNAVAILABLE, climb.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when the context is cancelled between attempts", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		f := &mock.ArticleFetcher{
			NameFn: func() climb.Strategy { return climb.StrategyStatic },
			FetchFn: func(ctx context.Context, url string) (*climb.Article, error) {
				calls++
				cancel()
				return nil, climb.Errorf(climb.EINTERNAL, "boom")
			},
		}

		_, err := crawl.FetchWithRetry(ctx, f, "https://example.com", 5, time.Hour, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("logs each retry", func(t *testing.T) {
		t.Parallel()

		calls := 0
		f := failingFetcher(&calls, climb.Errorf(climb.EINTERNAL, "boom"))
		logged := 0

		_, err := crawl.FetchWithRetry(context.Background(), f, "https://example.com", 3, time.Millisecond,
			func(format string, args ...any) { logged++ })

		require.Error(t, err)
		assert.Equal(t, 2, logged)
	})
}
