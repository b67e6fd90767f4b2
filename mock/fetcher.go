// Package mock provides function-field mock implementations of the
// domain interfaces for testing.
package mock

import (
	"context"

	"github.com/sensa-code/climb"
)

var _ climb.ArticleFetcher = (*ArticleFetcher)(nil)

// ArticleFetcher is a mock implementation of climb.ArticleFetcher.
type ArticleFetcher struct {
	NameFn  func() climb.Strategy
	FetchFn func(ctx context.Context, url string) (*climb.Article, error)
}

func (f *ArticleFetcher) Name() climb.Strategy {
	return f.NameFn()
}

func (f *ArticleFetcher) Fetch(ctx context.Context, url string) (*climb.Article, error) {
	return f.FetchFn(ctx, url)
}

var _ climb.HTMLFetcher = (*HTMLFetcher)(nil)

// HTMLFetcher is a mock implementation of climb.HTMLFetcher.
type HTMLFetcher struct {
	FetchHTMLFn func(ctx context.Context, url string) (string, error)
}

func (f *HTMLFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	return f.FetchHTMLFn(ctx, url)
}
