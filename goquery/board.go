package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sensa-code/climb"
)

// prevPageLabel is the text on the board listing's "previous page" button.
const prevPageLabel = "上頁"

// BoardListing holds the links extracted from one forum board listing page.
type BoardListing struct {
	// PostURLs are the absolute URLs of the posts on the page, in
	// listing order.
	PostURLs []string

	// PrevPage is the absolute URL of the previous (older) listing
	// page, or empty when the walk reached the board's first page.
	PrevPage string
}

// ParseBoardListing extracts per-post links and the previous-page link
// from a PTT board listing page.
func ParseBoardListing(rawHTML string, pageURL string) (*BoardListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, climb.Errorf(climb.EINVALID, "failed to parse board listing: %v", err)
	}

	listing := &BoardListing{}

	doc.Find("div.r-ent div.title a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		if resolved := resolveURL(pageURL, href); resolved != "" {
			listing.PostURLs = append(listing.PostURLs, resolved)
		}
	})

	doc.Find("div.btn-group-paging a.btn.wide").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), prevPageLabel) {
			return true
		}
		if href, ok := s.Attr("href"); ok {
			listing.PrevPage = resolveURL(pageURL, href)
		}
		return false
	})

	return listing, nil
}
