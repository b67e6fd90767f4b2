package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/sensa-code/climb"
)

const (
	contentFile  = "content.md"
	metadataFile = "metadata.json"
	imagesSubdir = "images"

	// maxTitleRunes caps the sanitized title used in directory names.
	maxTitleRunes = 60
)

// unsafeTitleChars matches characters that are illegal or awkward in
// file names on at least one supported platform.
var unsafeTitleChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// inlineImageRe matches markdown image references.
var inlineImageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// bareImageRe matches image URLs standing in plain text.
var bareImageRe = regexp.MustCompile(`(?i)https?://[^\s<>"']+\.(?:jpg|jpeg|png|gif|webp)(?:\?[^\s<>"']*)?`)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Ensure ArticleStore implements climb.ArticleStore at compile time.
var _ climb.ArticleStore = (*ArticleStore)(nil)

// ArticleStore persists articles under an output directory. Each article
// gets its own directory holding the markdown content, a metadata
// sidecar, and locally rehomed images. Directories are created once and
// never mutated afterwards.
type ArticleStore struct {
	dir        string
	downloader climb.ImageDownloader
	logger     *slog.Logger
}

// StoreOption configures an ArticleStore.
type StoreOption func(*ArticleStore)

// WithLogger sets the logger used for per-image download warnings.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *ArticleStore) {
		s.logger = logger
	}
}

// NewArticleStore creates a store rooted at dir. The downloader fetches
// referenced images so they can be served from the article directory.
func NewArticleStore(dir string, downloader climb.ImageDownloader, opts ...StoreOption) *ArticleStore {
	s := &ArticleStore{
		dir:        dir,
		downloader: downloader,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes the article to its own directory and returns the directory
// path. Referenced images are downloaded into an images/ subdirectory
// and the content is rewritten to point at the local copies. A failed
// image download is logged and skipped, never fatal.
func (s *ArticleStore) Save(ctx context.Context, article *climb.Article) (string, error) {
	if err := article.Validate(); err != nil {
		return "", err
	}

	now := time.Now()
	dir := s.articleDir(article, now)
	if err := os.MkdirAll(filepath.Join(dir, imagesSubdir), 0755); err != nil {
		return "", err
	}

	content := article.Content
	images := collectImageURLs(content)
	referer := originOf(article.URL)

	for i, imgURL := range images {
		name := fmt.Sprintf("img_%02d%s", i+1, guessExtension(imgURL))
		dest := filepath.Join(dir, imagesSubdir, name)

		if err := s.downloader.Download(ctx, imgURL, dest, referer); err != nil {
			s.logger.Warn("image download failed", "url", imgURL, "error", err)
			continue
		}
		content = strings.ReplaceAll(content, imgURL, imagesSubdir+"/"+name)
	}

	final := formatHeader(article, now) + content
	if err := os.WriteFile(filepath.Join(dir, contentFile), []byte(final), 0644); err != nil {
		return "", err
	}

	if err := s.writeMetadata(dir, article, now, len(images)); err != nil {
		return "", err
	}
	return dir, nil
}

// articleDir builds the directory path from the date and the sanitized
// title. An existing directory of the same name gets a short URL-hash
// suffix so distinct articles with colliding titles both survive.
func (s *ArticleStore) articleDir(article *climb.Article, now time.Time) string {
	safe := unsafeTitleChars.ReplaceAllString(article.Title, "_")
	if utf8.RuneCountInString(safe) > maxTitleRunes {
		safe = string([]rune(safe)[:maxTitleRunes])
	}
	name := now.Format("2006-01-02") + "_" + safe

	dir := filepath.Join(s.dir, name)
	if _, err := os.Stat(dir); err == nil {
		suffix := fmt.Sprintf("%016x", xxhash.Sum64String(article.URL))[:6]
		dir = filepath.Join(s.dir, name+"_"+suffix)
	}
	return dir
}

func (s *ArticleStore) writeMetadata(dir string, article *climb.Article, now time.Time, imageCount int) error {
	data, err := json.MarshalIndent(struct {
		Title      string `json:"title"`
		URL        string `json:"url"`
		Platform   string `json:"platform"`
		Source     string `json:"source"`
		FetchedAt  string `json:"fetched_at"`
		ImageCount int    `json:"image_count"`
	}{
		Title:      article.Title,
		URL:        article.URL,
		Platform:   article.Platform,
		Source:     string(article.Strategy),
		FetchedAt:  now.Format(time.RFC3339),
		ImageCount: imageCount,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, metadataFile), data, 0644)
}

// formatHeader renders the metadata block written before the body. The
// title is quoted with embedded quotes and backslashes escaped.
func formatHeader(article *climb.Article, now time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: \"%s\"\n", escapeTitle(article.Title))
	fmt.Fprintf(&b, "source: %s\n", article.URL)
	fmt.Fprintf(&b, "platform: %s\n", article.Platform)
	fmt.Fprintf(&b, "fetched_by: %s\n", article.Strategy)
	fmt.Fprintf(&b, "date: %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("---\n\n")
	return b.String()
}

func escapeTitle(title string) string {
	title = strings.ReplaceAll(title, `\`, `\\`)
	return strings.ReplaceAll(title, `"`, `\"`)
}

// collectImageURLs gathers image URLs from the content, inline markdown
// references before bare URLs, deduplicated in first-seen order.
func collectImageURLs(content string) []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	for _, m := range inlineImageRe.FindAllStringSubmatch(content, -1) {
		add(m[2])
	}
	for _, m := range bareImageRe.FindAllString(content, -1) {
		add(m)
	}
	return urls
}

// guessExtension derives the local file extension from the URL path,
// defaulting to .jpg when unrecognized.
func guessExtension(rawURL string) string {
	path := strings.ToLower(rawURL)
	if u, err := url.Parse(rawURL); err == nil {
		path = strings.ToLower(u.Path)
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return ext
		}
	}
	return ".jpg"
}

// originOf returns the scheme://host/ origin used as the Referer when
// downloading an article's images.
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/"
}
