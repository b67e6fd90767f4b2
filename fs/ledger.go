// Package fs persists articles, dedup records, and batch reports on the
// local filesystem.
package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sensa-code/climb"
)

// ledgerFile is the per-output-directory record of already-fetched URLs.
// The leading dot keeps it out of the way of article directories.
const ledgerFile = ".fetched_urls.json"

// Ensure FileLedger implements climb.Ledger at compile time.
var _ climb.Ledger = (*FileLedger)(nil)

// FileLedger tracks fetched URLs in a sorted JSON array scoped to one
// output directory. The load-modify-save cycle is serialized with a
// mutex, so concurrent workers sharing one FileLedger cannot lose an
// update. Separate processes writing the same file are not coordinated.
type FileLedger struct {
	dir string

	mu sync.Mutex
}

// NewFileLedger creates a ledger for the given output directory.
func NewFileLedger(dir string) *FileLedger {
	return &FileLedger{dir: dir}
}

// IsFetched reports whether url has been recorded.
func (l *FileLedger) IsFetched(url string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()[url]
}

// MarkFetched records url. Recording an already-present URL is a no-op.
func (l *FileLedger) MarkFetched(url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	set := l.load()
	if set[url] {
		return nil
	}
	set[url] = true
	return l.save(set)
}

// load reads the ledger file. A missing or unparsable file reads as an
// empty set; it gets rewritten whole on the next mark.
func (l *FileLedger) load() map[string]bool {
	set := make(map[string]bool)

	data, err := os.ReadFile(filepath.Join(l.dir, ledgerFile))
	if err != nil {
		return set
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return set
	}
	for _, u := range urls {
		set[u] = true
	}
	return set
}

func (l *FileLedger) save(set map[string]bool) error {
	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(l.dir, ledgerFile), data, 0644)
}
