package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/sensa-code/climb"
	"golang.org/x/net/html"
)

// minForumContent is the minimum accepted content length in runes for a
// forum post. Forum posts are legitimately short, so the bar is lower
// than for generic pages.
const minForumContent = 30

// forumTitleKey is the label PTT uses for the title metadata line.
const forumTitleKey = "標題"

// imageLineRe matches a bare image URL standing on its own line, the way
// forum posts link images hosted on imgur and friends.
var imageLineRe = regexp.MustCompile(`(?i)^https?://\S+\.(jpg|jpeg|png|gif|webp)`)

// parseForum handles the PTT #main-content layout: labeled metadata lines
// at the top, the post body as raw text nodes, pushes (comments) below,
// and a signature after a lone "--" line.
func parseForum(doc *goquery.Document, pageURL string, strategy climb.Strategy) (*climb.Article, error) {
	main := doc.Find("div#main-content").First()
	if main.Length() == 0 {
		return nil, climb.Errorf(climb.ENOTFOUND, "no forum content container in %s", pageURL)
	}

	meta := make(map[string]string)
	main.Find("div.article-metaline").Each(func(_ int, s *goquery.Selection) {
		tag := strings.TrimSpace(s.Find("span.article-meta-tag").Text())
		value := strings.TrimSpace(s.Find("span.article-meta-value").Text())
		if tag != "" && value != "" {
			meta[tag] = value
		}
	})
	title := meta[forumTitleKey]

	// Prune metadata lines and pushes (comments) first so their image
	// links don't get attributed to the post body.
	main.Find("div.article-metaline, div.article-metaline-right, div.push, span.f2").Remove()

	var images []string
	seen := make(map[string]bool)
	addImage := func(raw string) {
		resolved := resolveURL(pageURL, raw)
		if resolved != "" && !seen[resolved] {
			seen[resolved] = true
			images = append(images, resolved)
		}
	}
	main.Find("img").Each(func(_ int, s *goquery.Selection) {
		if src := firstAttr(s, "src", "data-src"); src != "" {
			addImage(src)
		}
	})

	content := textWithNewlines(main)
	lines := strings.Split(content, "\n")

	// Drop leading blank lines.
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	// Everything after the first "--" line is the signature block.
	for i, line := range lines {
		if strings.TrimSpace(line) == "--" {
			lines = lines[:i]
			break
		}
	}
	content = strings.TrimSpace(strings.Join(lines, "\n"))

	// Bare image URLs in the body text are image references too.
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if imageLineRe.MatchString(line) {
			addImage(line)
		}
	}

	if content == "" || utf8.RuneCountInString(content) < minForumContent {
		return nil, climb.Errorf(climb.ENOTFOUND, "forum content too short for %s", pageURL)
	}

	if title == "" {
		title = untitledArticle
	}

	return &climb.Article{
		Title:    title,
		Content:  content,
		Strategy: strategy,
		URL:      pageURL,
		Images:   images,
		Meta:     meta,
	}, nil
}

// textWithNewlines extracts the text content of a selection with a newline
// between adjacent text nodes, preserving the line structure of forum
// posts whose body is raw text interleaved with markup.
func textWithNewlines(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
