package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sensa-code/climb"
	"github.com/sensa-code/climb/bloom"
	"github.com/sensa-code/climb/goquery"
)

// boardPageDelay paces consecutive listing-page fetches.
const boardPageDelay = 1 * time.Second

// expectedBoardURLs sizes the per-walk dedup filter. A board page lists
// about 20 posts, so even a deep walk stays far below this.
const expectedBoardURLs = 4096

// BoardURL returns the newest listing page for a forum board.
func BoardURL(board string) string {
	return fmt.Sprintf("https://www.ptt.cc/bbs/%s/index.html", board)
}

// BoardWalker collects new article URLs from a paginated forum board,
// walking backward from the newest page.
type BoardWalker struct {
	HTML   climb.HTMLFetcher
	Ledger climb.Ledger
	Logger *slog.Logger

	// Delay between listing-page fetches. Defaults to one second.
	Delay time.Duration
}

// Collect walks up to pages listing pages of board and returns the post
// URLs not yet present in the ledger, in listing order. A page fetch or
// parse failure stops the walk and returns what was collected so far.
func (w *BoardWalker) Collect(ctx context.Context, board string, pages int) ([]string, error) {
	logger := w.logger()
	delay := w.Delay
	if delay <= 0 {
		delay = boardPageDelay
	}

	// Bloom filter dedup across pages: a post bumped by a reply can
	// appear on two adjacent listing pages.
	seen := bloom.NewFilter(expectedBoardURLs, 0.001)
	var collected []string

	pageURL := BoardURL(board)
	for page := 0; page < pages; page++ {
		logger.Info("reading board page", "board", board, "page", page+1, "pages", pages)

		html, err := w.HTML.FetchHTML(ctx, pageURL)
		if err != nil {
			logger.Warn("board page fetch failed", "url", pageURL, "error", err)
			break
		}
		listing, err := goquery.ParseBoardListing(html, pageURL)
		if err != nil {
			logger.Warn("board page parse failed", "url", pageURL, "error", err)
			break
		}

		for _, postURL := range listing.PostURLs {
			if seen.Test(postURL) {
				continue
			}
			seen.Add(postURL)
			if w.Ledger != nil && w.Ledger.IsFetched(postURL) {
				continue
			}
			collected = append(collected, postURL)
		}

		if listing.PrevPage == "" || page >= pages-1 {
			break
		}
		pageURL = listing.PrevPage

		select {
		case <-ctx.Done():
			logger.Warn("board walk cancelled", "board", board)
			return collected, ctx.Err()
		case <-time.After(delay):
		}
	}

	logger.Info("board walk finished", "board", board, "new_urls", len(collected))
	return collected, nil
}

func (w *BoardWalker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
