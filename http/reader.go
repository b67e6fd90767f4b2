package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/sensa-code/climb"
)

// minReaderContent is the minimum accepted response length in runes.
// Shorter responses are almost always proxy error pages.
const minReaderContent = 100

// untitledArticle is the placeholder title when none can be extracted.
const untitledArticle = "Untitled Article"

// Ensure ReaderFetcher implements climb.ArticleFetcher at compile time.
var _ climb.ArticleFetcher = (*ReaderFetcher)(nil)

// ReaderFetcher extracts articles through a reader-proxy endpoint that
// returns pre-rendered markdown for a target URL appended to its base URL.
type ReaderFetcher struct {
	client *http.Client
	config *climb.ConfigStore
}

// NewReaderFetcher creates a new ReaderFetcher. If client is nil,
// http.DefaultClient is used. The caller's context bounds the request;
// the pipeline applies the per-attempt budget.
func NewReaderFetcher(client *http.Client, config *climb.ConfigStore) *ReaderFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &ReaderFetcher{client: client, config: config}
}

// Name returns the strategy this fetcher implements.
func (f *ReaderFetcher) Name() climb.Strategy {
	return climb.StrategyReader
}

// Fetch requests the reader proxy for url and validates the markdown
// response. Thin responses are rejected so the orchestrator falls back.
func (f *ReaderFetcher) Fetch(ctx context.Context, url string) (*climb.Article, error) {
	cfg := f.config.Load()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.ReaderBaseURL+url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Accept", "text/markdown")
	if cfg.ReaderAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.ReaderAPIKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, climb.Errorf(climb.ENOTFOUND, "reader proxy returned HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(content) < minReaderContent {
		return nil, climb.Errorf(climb.ENOTFOUND, "reader content too short for %s", url)
	}

	return &climb.Article{
		Title:    readerTitle(content),
		Content:  content,
		Strategy: climb.StrategyReader,
		URL:      url,
	}, nil
}

// readerTitle scans the first few lines of a reader response for a
// "Title:" prefix or a level-1 markdown heading.
func readerTitle(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "Title:"); ok {
			return strings.TrimSpace(after)
		}
		if after, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(after)
		}
	}
	return untitledArticle
}
