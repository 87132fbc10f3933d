package signature

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// CompileCache memoizes Compile by the raw signature source text. Matchers
// declared in a default config are shared verbatim across every scanned
// source file, so re-compiling the same signature string per file is wasted
// work; the cache key is a 64-bit hash rather than the string itself to keep
// the map's working set small across large projects.
type CompileCache struct {
	mu      sync.Mutex
	entries map[uint64]*cacheEntry
}

type cacheEntry struct {
	compiled *Compiled
	err      error
}

// NewCompileCache returns an empty cache.
func NewCompileCache() *CompileCache {
	return &CompileCache{entries: map[uint64]*cacheEntry{}}
}

// Compile returns the Compiled matcher for src, compiling and caching it on
// first use. Concurrent callers sharing a cache are safe.
func (c *CompileCache) Compile(src string) (*Compiled, error) {
	key := xxhash.Sum64String(src)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return e.compiled, e.err
	}
	c.mu.Unlock()

	compiled, err := Compile(src)

	c.mu.Lock()
	c.entries[key] = &cacheEntry{compiled: compiled, err: err}
	c.mu.Unlock()

	return compiled, err
}
