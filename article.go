package climb

import "context"

// Article represents an in-flight extracted article before persistence.
type Article struct {
	Title    string
	Content  string // Markdown
	Strategy Strategy
	URL      string
	Platform string

	// Images holds absolute image URLs referenced by the article,
	// in discovery order.
	Images []string

	// Meta holds optional source-specific metadata, such as the labeled
	// header lines of a forum post (author, board, post time).
	Meta map[string]string
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	if a.Content == "" {
		return Errorf(EINVALID, "article content required")
	}
	return nil
}

// ArticleFetcher extracts an article from a URL using one strategy.
// Ordinary failure modes (network error, thin content, missing content
// container) surface as errors so the orchestrator can fall back to the
// next strategy; an EUNAVAILABLE code means the strategy's engine is
// missing from the environment and retrying is pointless.
type ArticleFetcher interface {
	// Name returns the strategy this fetcher implements.
	Name() Strategy

	// Fetch retrieves and extracts the article at url.
	Fetch(ctx context.Context, url string) (*Article, error)
}

// ArticleStore persists a fetched article to an output directory.
type ArticleStore interface {
	// Save writes the article's content file, sidecar metadata, and
	// rehomed images, returning the created directory path.
	Save(ctx context.Context, article *Article) (string, error)
}

// Ledger tracks URLs that have already been fetched for one output
// directory, persisted across runs.
type Ledger interface {
	// IsFetched reports whether url has been fetched before.
	// A missing or corrupted ledger file reads as an empty set.
	IsFetched(url string) bool

	// MarkFetched records url as fetched.
	MarkFetched(url string) error
}

// Normalizer converts raw HTML into an Article.
type Normalizer interface {
	// Parse strips boilerplate, locates the main content, and converts
	// it to markdown. The strategy label is recorded on the result.
	Parse(html string, url string, strategy Strategy) (*Article, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML content into Markdown.
	Convert(html string) (string, error)
}

// Extractor removes boilerplate from a full HTML page, returning the main
// content as clean HTML. Used by the normalizer when its own container
// heuristics cannot do better than the document body.
type Extractor interface {
	Extract(html string) (contentHTML string, title string, err error)
}

// RobotsPolicy answers whether a URL may be fetched under the origin's
// robots.txt. Implementations must fail open: any retrieval or parse
// failure reads as allowed.
type RobotsPolicy interface {
	IsAllowed(ctx context.Context, url string) bool
}

// ImageDownloader retrieves a single image to a local path.
type ImageDownloader interface {
	// Download fetches imageURL to destPath, sending referer when non-empty.
	Download(ctx context.Context, imageURL, destPath, referer string) error
}

// HTMLFetcher retrieves raw HTML from a URL. Used by drivers that parse
// listing pages themselves rather than going through a strategy.
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}
