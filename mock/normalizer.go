package mock

import "github.com/sensa-code/climb"

var _ climb.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of climb.Normalizer.
type Normalizer struct {
	ParseFn func(html string, url string, strategy climb.Strategy) (*climb.Article, error)
}

func (n *Normalizer) Parse(html string, url string, strategy climb.Strategy) (*climb.Article, error) {
	return n.ParseFn(html, url, strategy)
}

var _ climb.Converter = (*Converter)(nil)

// Converter is a mock implementation of climb.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ climb.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of climb.Extractor.
type Extractor struct {
	ExtractFn func(html string) (string, string, error)
}

func (e *Extractor) Extract(html string) (string, string, error) {
	return e.ExtractFn(html)
}
