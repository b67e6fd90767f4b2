// Package readability provides boilerplate removal backed by go-readability.
// The normalizer consults it when its own container heuristics bottom out
// at the document body.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/sensa-code/climb"
)

// Ensure Extractor implements climb.Extractor at compile time.
var _ climb.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content as clean HTML
// along with the detected title.
func (e *Extractor) Extract(rawHTML string) (string, string, error) {
	if rawHTML == "" {
		return "", "", climb.Errorf(climb.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return "", "", err
	}

	return article.Content, article.Title, nil
}
