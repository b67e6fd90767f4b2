// Package rod implements the headless-browser extraction strategy using
// Chrome automation. It is the mandatory last-resort fallback for pages
// that render client-side and defeat static parsing.
package rod

import (
	"context"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sensa-code/climb"
)

// navigationTimeout bounds a single page navigation and render. Generous
// because SPA frameworks can take a while to settle.
const navigationTimeout = 30 * time.Second

// renderIdleTimeout bounds the post-load wait for async content.
const renderIdleTimeout = 10 * time.Second

// defaultMaxPages is the number of pages fetched before the browser is
// recycled. Chrome accumulates memory over time and never returns to its
// baseline even with proper page cleanup.
const defaultMaxPages = 50

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Ensure BrowserFetcher implements climb.ArticleFetcher at compile time.
var _ climb.ArticleFetcher = (*BrowserFetcher)(nil)

// BrowserFetcher extracts articles by rendering pages in headless Chrome.
// The browser is launched lazily on first use: when no Chrome/Chromium can
// be found or launched, Fetch reports EUNAVAILABLE so the orchestrator can
// degrade gracefully instead of failing the whole pipeline.
//
// BrowserFetcher is safe for concurrent use.
type BrowserFetcher struct {
	normalizer climb.Normalizer
	maxPages   int

	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount int
}

// Option configures a BrowserFetcher.
type Option func(*BrowserFetcher)

// WithMaxPages sets the number of pages fetched before the browser is
// recycled. Defaults to 50.
func WithMaxPages(n int) Option {
	return func(f *BrowserFetcher) {
		f.maxPages = n
	}
}

// NewBrowserFetcher creates a new BrowserFetcher. Close must be called
// when the fetcher is no longer needed.
func NewBrowserFetcher(normalizer climb.Normalizer, opts ...Option) *BrowserFetcher {
	f := &BrowserFetcher{
		normalizer: normalizer,
		maxPages:   defaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the strategy this fetcher implements.
func (f *BrowserFetcher) Name() climb.Strategy {
	return climb.StrategyBrowser
}

// Fetch renders url in the browser and delegates the resulting HTML to the
// normalizer.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*climb.Article, error) {
	html, err := f.fetchHTML(ctx, url)
	if err != nil {
		return nil, err
	}
	return f.normalizer.Parse(html, url, climb.StrategyBrowser)
}

func (f *BrowserFetcher) fetchHTML(ctx context.Context, url string) (string, error) {
	browser, err := f.acquireBrowser()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, navigationTimeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()
	page = page.Context(ctx)

	err = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      userAgent,
		AcceptLanguage: "zh-TW",
	})
	if err != nil {
		return "", err
	}

	// The forum serves an age-verification interstitial without this.
	if climb.IsForumHost(url) {
		err = page.SetCookies([]*proto.NetworkCookieParam{{
			Name:   "over18",
			Value:  "1",
			Domain: ".ptt.cc",
			Path:   "/",
		}})
		if err != nil {
			return "", err
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	// Give async content a chance to settle; a timeout here is not fatal,
	// the page may simply never go idle.
	_ = page.WaitIdle(renderIdleTimeout)

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	f.recordPage()
	return html, nil
}

// acquireBrowser returns the live browser, launching or recycling as
// needed. A failed launch surfaces as EUNAVAILABLE.
func (f *BrowserFetcher) acquireBrowser() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil && f.pageCount >= f.maxPages {
		f.closeBrowserLocked()
		f.pageCount = 0
	}

	if f.browser == nil {
		if err := f.launchLocked(); err != nil {
			return nil, climb.Errorf(climb.EUNAVAILABLE, "browser engine unavailable: %v", err)
		}
	}
	return f.browser, nil
}

func (f *BrowserFetcher) launchLocked() error {
	lnchr := launcher.New().
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return err
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return err
	}

	f.browser = browser
	f.launcher = lnchr
	return nil
}

func (f *BrowserFetcher) recordPage() {
	f.mu.Lock()
	f.pageCount++
	f.mu.Unlock()
}

// Close releases browser resources. Safe to call when the browser was
// never launched, and safe to call multiple times.
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeBrowserLocked()
}

func (f *BrowserFetcher) closeBrowserLocked() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}
