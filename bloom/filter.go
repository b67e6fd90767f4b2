// Package bloom provides probabilistic URL deduplication for board
// walks, where a false positive costs one skipped post and a set of
// exact URLs is not worth keeping.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter keyed by URL.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a URL.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test reports whether the URL may have been added. False positives are
// possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}
