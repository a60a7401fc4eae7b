// Package corpus holds the immutable set of C++ source texts searched by
// the extractors.
package corpus

import (
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dejo1307/hdrgraph/internal/scan"
)

// SkippedFile records a file that was left out of the corpus.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Corpus maps file ids (slash separated paths relative to the root) to raw
// text. It is never mutated after construction, so it is safe for concurrent
// readers. Comment-stripped text is computed on demand and kept in a bounded
// LRU cache.
type Corpus struct {
	root     string
	files    map[string]string
	paths    []string
	skipped  []SkippedFile
	size     int64
	stripped *lru.Cache[string, string]
}

// DefaultCacheSize is the number of stripped texts kept when no size is
// given.
const DefaultCacheSize = 256

// FromFiles builds a corpus from an in-memory map. The map is copied.
func FromFiles(files map[string]string) *Corpus {
	c, _ := newCorpus("", files, nil, DefaultCacheSize)
	return c
}

func newCorpus(root string, files map[string]string, skipped []SkippedFile, cacheSize int) (*Corpus, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}

	c := &Corpus{
		root:     root,
		files:    make(map[string]string, len(files)),
		skipped:  skipped,
		stripped: cache,
	}
	for path, text := range files {
		c.files[path] = text
		c.paths = append(c.paths, path)
		c.size += int64(len(text))
	}
	sort.Strings(c.paths)
	sort.Slice(c.skipped, func(i, j int) bool {
		return c.skipped[i].Path < c.skipped[j].Path
	})
	return c, nil
}

// Root returns the directory the corpus was loaded from, or "" for an
// in-memory corpus.
func (c *Corpus) Root() string {
	return c.root
}

// Paths returns the file ids in sorted order. The slice must not be
// modified.
func (c *Corpus) Paths() []string {
	return c.paths
}

// Len returns the number of files.
func (c *Corpus) Len() int {
	return len(c.paths)
}

// Size returns the total size of all texts in bytes.
func (c *Corpus) Size() int64 {
	return c.size
}

// Text returns the raw text of path.
func (c *Corpus) Text(path string) (string, bool) {
	text, ok := c.files[path]
	return text, ok
}

// Stripped returns the text of path with comments removed.
func (c *Corpus) Stripped(path string) (string, bool) {
	if s, ok := c.stripped.Get(path); ok {
		return s, true
	}
	text, ok := c.files[path]
	if !ok {
		return "", false
	}
	s := scan.StripComments(text)
	c.stripped.Add(path, s)
	return s, true
}

// Skipped returns the files that were left out during loading.
func (c *Corpus) Skipped() []SkippedFile {
	return c.skipped
}
