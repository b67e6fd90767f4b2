// Package goquery implements HTML-to-Article normalization: boilerplate
// stripping, main-content location, markdown conversion, and image
// collection, with a specialized path for forum discussion pages.
package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/sensa-code/climb"
)

// minArticleContent is the minimum accepted content length in runes for a
// generically parsed page. Anything shorter is boilerplate residue or a
// JS-rendered shell.
const minArticleContent = 50

const untitledArticle = "Untitled Article"

// boilerplateSelector matches elements that never carry article content.
const boilerplateSelector = "script, style, nav, footer, header, aside, iframe, noscript"

// contentAttrRe matches class/id values that conventionally mark the main
// content container.
var contentAttrRe = regexp.MustCompile(`(?i)article|content|post|entry`)

// Ensure Normalizer implements climb.Normalizer at compile time.
var _ climb.Normalizer = (*Normalizer)(nil)

// Normalizer converts raw HTML into an Article. The converter turns the
// located content fragment into markdown. The extractor is optional: when
// set, it is consulted for boilerplate removal whenever the container
// heuristics cannot do better than the document body.
type Normalizer struct {
	converter climb.Converter
	extractor climb.Extractor
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithExtractor sets the fallback boilerplate-removal extractor.
func WithExtractor(e climb.Extractor) Option {
	return func(n *Normalizer) {
		n.extractor = e
	}
}

// NewNormalizer creates a new Normalizer using converter for markdown
// conversion.
func NewNormalizer(converter climb.Converter, opts ...Option) *Normalizer {
	n := &Normalizer{converter: converter}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Parse strips boilerplate, locates the main content, and converts it to a
// markdown Article. Forum hosts get a specialized parse first and fall
// through to the generic path when the page doesn't match the forum layout.
func (n *Normalizer) Parse(rawHTML string, pageURL string, strategy climb.Strategy) (*climb.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, climb.Errorf(climb.EINVALID, "failed to parse HTML: %v", err)
	}

	if climb.IsForumHost(pageURL) {
		if article, err := parseForum(doc, pageURL, strategy); err == nil {
			return article, nil
		}
	}

	doc.Find(boilerplateSelector).Remove()

	container, isBody := findContainer(doc)
	if container == nil {
		return nil, climb.Errorf(climb.ENOTFOUND, "no main content found in %s", pageURL)
	}

	fragment, err := goquery.OuterHtml(container)
	if err != nil {
		return nil, err
	}
	title := documentTitle(doc)

	// The heuristics gave up and picked the whole body. Let the
	// readability extractor take a shot at isolating the content.
	if isBody && n.extractor != nil {
		if extracted, extractedTitle, err := n.extractor.Extract(rawHTML); err == nil && strings.TrimSpace(extracted) != "" {
			fragment = extracted
			if title == "" {
				title = extractedTitle
			}
		}
	}

	images := collectImages(fragment, pageURL)

	content, err := n.converter.Convert(stripImages(fragment))
	if err != nil {
		return nil, err
	}

	// Appended rather than inlined at their original positions.
	for i, img := range images {
		content += fmt.Sprintf("\n\n![image %d](%s)", i+1, img)
	}

	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) < minArticleContent {
		return nil, climb.Errorf(climb.ENOTFOUND, "content too short for %s", pageURL)
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
	}, nil
}

// findContainer locates the primary content container, trying in order:
// a semantic article element, a content-like class, a content-like id, a
// main element, and finally the document body. The bool result reports
// whether the body fallback was used.
func findContainer(doc *goquery.Document) (*goquery.Selection, bool) {
	if sel := doc.Find("article").First(); sel.Length() > 0 {
		return sel, false
	}

	byAttr := func(attr string) *goquery.Selection {
		return doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
			v, ok := s.Attr(attr)
			return ok && contentAttrRe.MatchString(v)
		}).First()
	}
	if sel := byAttr("class"); sel.Length() > 0 {
		return sel, false
	}
	if sel := byAttr("id"); sel.Length() > 0 {
		return sel, false
	}

	if sel := doc.Find("main").First(); sel.Length() > 0 {
		return sel, false
	}
	if sel := doc.Find("body").First(); sel.Length() > 0 {
		return sel, true
	}
	return nil, false
}

// documentTitle extracts the page title, preferring an h1 element over the
// document <title>.
func documentTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		title = h1
	}
	return title
}

// collectImages returns the absolute URLs of images referenced in the HTML
// fragment, in document order, deduplicated.
func collectImages(fragment string, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var images []string
	seen := make(map[string]bool)
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := firstAttr(s, "src", "data-src", "data-original")
		if src == "" {
			return
		}
		resolved := resolveURL(pageURL, src)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		images = append(images, resolved)
	})
	return images
}

// stripImages removes img elements from an HTML fragment so the markdown
// conversion doesn't render them inline; image references are appended to
// the content by the caller instead.
func stripImages(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	doc.Find("img").Remove()
	out, err := doc.Find("body").First().Html()
	if err != nil {
		return fragment
	}
	return out
}

func firstAttr(s *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v, ok := s.Attr(name); ok && v != "" {
			return v
		}
	}
	return ""
}

// resolveURL resolves a possibly relative reference against the page URL.
// Returns empty string when either side is unparseable.
func resolveURL(pageURL, ref string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(r).String()
}
