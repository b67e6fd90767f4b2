package http

import (
	"context"
	"io"
	"net/http"

	"github.com/sensa-code/climb"
	"golang.org/x/net/html/charset"
)

// Ensure StaticFetcher implements both interfaces at compile time.
var (
	_ climb.ArticleFetcher = (*StaticFetcher)(nil)
	_ climb.HTMLFetcher    = (*StaticFetcher)(nil)
)

// StaticFetcher extracts articles with a plain GET and server-side HTML
// parsing. It does not execute JavaScript; pages that render client-side
// fall through to the browser strategy.
type StaticFetcher struct {
	client     *http.Client
	config     *climb.ConfigStore
	normalizer climb.Normalizer
}

// NewStaticFetcher creates a new StaticFetcher. If client is nil,
// http.DefaultClient is used.
func NewStaticFetcher(client *http.Client, config *climb.ConfigStore, normalizer climb.Normalizer) *StaticFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &StaticFetcher{client: client, config: config, normalizer: normalizer}
}

// Name returns the strategy this fetcher implements.
func (f *StaticFetcher) Name() climb.Strategy {
	return climb.StrategyStatic
}

// Fetch retrieves the page and delegates extraction to the normalizer.
// The caller's context bounds the request; the pipeline applies the
// per-attempt budget.
func (f *StaticFetcher) Fetch(ctx context.Context, url string) (*climb.Article, error) {
	html, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return f.normalizer.Parse(html, url, climb.StrategyStatic)
}

// FetchHTML retrieves the raw, charset-decoded HTML for url under the
// configured request timeout. This is the direct entry point for callers
// outside the strategy pipeline, such as the board walker.
func (f *StaticFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	if timeout := f.config.Load().RequestTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return f.get(ctx, url)
}

// get performs the request. Forum hosts get the age-verification cookie
// attached; without it the forum serves a confirmation interstitial
// instead of the post.
func (f *StaticFetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)
	if climb.IsForumHost(url) {
		req.AddCookie(&http.Cookie{Name: "over18", Value: "1"})
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", climb.Errorf(climb.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	}

	// Decode to UTF-8 using the declared or sniffed response encoding.
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	return string(body), nil
}
