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

func testConfig() *climb.ConfigStore {
	cfg := climb.DefaultConfig()
	cfg.MaxRetries = 1
	cfg.RetryBaseDelay = time.Millisecond
	cfg.PolitenessDelay = time.Millisecond
	return climb.NewConfigStore(cfg)
}

func allowAllRobots() *mock.RobotsPolicy {
	return &mock.RobotsPolicy{
		IsAllowedFn: func(ctx context.Context, url string) bool { return true },
	}
}

// strategyStub returns a fetcher for the named strategy that records its
// invocations in order.
func strategyStub(name climb.Strategy, order *[]climb.Strategy, err error) *mock.ArticleFetcher {
	return &mock.ArticleFetcher{
		NameFn: func() climb.Strategy { return name },
		FetchFn: func(ctx context.Context, url string) (*climb.Article, error) {
			*order = append(*order, name)
			if err != nil {
				return nil, err
			}
			return &climb.Article{Title: "t", Content: "c", Strategy: name, URL: url}, nil
		},
	}
}

func TestStrategyOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []climb.Strategy{climb.StrategyReader, climb.StrategyStatic, climb.StrategyBrowser},
		crawl.StrategyOrder(climb.StrategyReader))
	assert.Equal(t, []climb.Strategy{climb.StrategyStatic, climb.StrategyReader, climb.StrategyBrowser},
		crawl.StrategyOrder(climb.StrategyStatic))
	assert.Equal(t, []climb.Strategy{climb.StrategyBrowser, climb.StrategyStatic},
		crawl.StrategyOrder(climb.StrategyBrowser))
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("login-required platform is rejected without network traffic", func(t *testing.T) {
		t.Parallel()

		var order []climb.Strategy
		robotsCalled := false
		f := &crawl.Fetcher{
			Config: testConfig(),
			Robots: &mock.RobotsPolicy{
				IsAllowedFn: func(ctx context.Context, url string) bool {
					robotsCalled = true
					return true
				},
			},
			Strategies: []climb.ArticleFetcher{strategyStub(climb.StrategyReader, &order, nil)},
		}

		_, err := f.Fetch(context.Background(), "https://www.facebook.com/some.page/posts/1")

		require.Error(t, err)
		assert.Equal(t, climb.EFORBIDDEN, climb.ErrorCode(err))
		assert.Empty(t, order)
		assert.False(t, robotsCalled)
	})

	t.Run("robots disallow is rejected before any strategy runs", func(t *testing.T) {
		t.Parallel()

		var order []climb.Strategy
		f := &crawl.Fetcher{
			Config: testConfig(),
			Robots: &mock.RobotsPolicy{
				IsAllowedFn: func(ctx context.Context, url string) bool { return false },
			},
			Strategies: []climb.ArticleFetcher{strategyStub(climb.StrategyReader, &order, nil)},
		}

		_, err := f.Fetch(context.Background(), "https://example.com/private")

		require.Error(t, err)
		assert.Equal(t, climb.EFORBIDDEN, climb.ErrorCode(err))
		assert.Empty(t, order)
	})

	t.Run("falls back through the chain and tags the platform", func(t *testing.T) {
		t.Parallel()

		var order []climb.Strategy
		f := &crawl.Fetcher{
			Config: testConfig(),
			Robots: allowAllRobots(),
			Strategies: []climb.ArticleFetcher{
				strategyStub(climb.StrategyReader, &order, climb.Errorf(climb.EINTERNAL, "proxy down")),
				strategyStub(climb.StrategyStatic, &order, nil),
				strategyStub(climb.StrategyBrowser, &order, nil),
			},
		}

		article, err := f.Fetch(context.Background(), "https://some-random-blog.example.com/post")

		require.NoError(t, err)
		assert.Equal(t, []climb.Strategy{climb.StrategyReader, climb.StrategyStatic}, order)
		assert.Equal(t, climb.StrategyStatic, article.Strategy)
		assert.Equal(t, "other", article.Platform)
	})

	t.Run("browser-preferred platforms never consult the reader proxy", func(t *testing.T) {
		t.Parallel()

		var order []climb.Strategy
		f := &crawl.Fetcher{
			Config: testConfig(),
			Robots: allowAllRobots(),
			Strategies: []climb.ArticleFetcher{
				strategyStub(climb.StrategyReader, &order, nil),
				strategyStub(climb.StrategyStatic, &order, nil),
				strategyStub(climb.StrategyBrowser, &order, climb.Errorf(climb.EUNAVAILABLE, "no browser")),
			},
		}

		article, err := f.Fetch(context.Background(), "https://mp.weixin.qq.com/s/abc")

		require.NoError(t, err)
		assert.Equal(t, []climb.Strategy{climb.StrategyBrowser, climb.StrategyStatic}, order)
		assert.Equal(t, climb.StrategyStatic, article.Strategy)
	})

	t.Run("reports not found once the chain is exhausted", func(t *testing.T) {
		t.Parallel()

		var order []climb.Strategy
		boom := climb.Errorf(climb.EINTERNAL, "boom")
		f := &crawl.Fetcher{
			Config: testConfig(),
			Robots: allowAllRobots(),
			Strategies: []climb.ArticleFetcher{
				strategyStub(climb.StrategyReader, &order, boom),
				strategyStub(climb.StrategyStatic, &order, boom),
				strategyStub(climb.StrategyBrowser, &order, boom),
			},
		}

		_, err := f.Fetch(context.Background(), "https://example.com/post")

		require.Error(t, err)
		assert.Equal(t, climb.ENOTFOUND, climb.ErrorCode(err))
		assert.Len(t, order, 3)
	})

	t.Run("each attempt carries its own request deadline", func(t *testing.T) {
		t.Parallel()

		var hadDeadline bool
		f := &crawl.Fetcher{
			Config: testConfig(),
			Robots: allowAllRobots(),
			Strategies: []climb.ArticleFetcher{
				&mock.ArticleFetcher{
					NameFn: func() climb.Strategy { return climb.StrategyReader },
					FetchFn: func(ctx context.Context, url string) (*climb.Article, error) {
						_, hadDeadline = ctx.Deadline()
						return &climb.Article{Title: "t", Content: "c", Strategy: climb.StrategyReader, URL: url}, nil
					},
				},
			},
		}

		_, err := f.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.True(t, hadDeadline)
	})

	t.Run("missing strategies are skipped", func(t *testing.T) {
		t.Parallel()

		var order []climb.Strategy
		f := &crawl.Fetcher{
			Config: testConfig(),
			Robots: allowAllRobots(),
			Strategies: []climb.ArticleFetcher{
				strategyStub(climb.StrategyStatic, &order, nil),
			},
		}

		article, err := f.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, []climb.Strategy{climb.StrategyStatic}, order)
		assert.NotNil(t, article)
	})
}
