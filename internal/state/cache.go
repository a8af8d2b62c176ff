// Package state holds bundles between the lint host's pre-processing phase
// and its later rule evaluations.
//
// The host passes no context object between those phases, so the only shared
// datum is the virtual file name the processor hands back: the bundle key.
// Cache maps that key to the live bundle. The host processes one file at a
// time; the mutex only guards against callers that break that contract.
package state

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"lwcgraph/internal/bundle"
)

// DefaultCapacity bounds the number of in-flight bundles. Entries are
// normally evicted by post-processing; the bound only matters for passes the
// host abandoned without calling it.
const DefaultCapacity = 256

// Cache maps bundle keys to live bundles.
type Cache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, *bundle.Bundle]
}

// NewCache creates a cache holding at most capacity bundles.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, *bundle.Bundle](capacity)
	if err != nil {
		panic(fmt.Errorf("state cache: %w", err))
	}
	return &Cache{entries: entries}
}

// Add registers b under its current key and returns the key. It returns
// ("", false) without touching the cache when b has no primary file.
func (c *Cache) Add(b *bundle.Bundle) (string, bool) {
	key, err := b.Key()
	if err != nil {
		return "", false
	}
	c.mu.Lock()
	c.entries.Add(key, b)
	c.mu.Unlock()
	return key, true
}

// Get returns the bundle stored under key.
func (c *Cache) Get(key string) (*bundle.Bundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Get(key)
}

// Lookup resolves a host-facing file name (which may carry an index prefix
// or a directory) to a cached bundle. It tries the name verbatim first, then
// KeyFromHostFilename.
func (c *Cache) Lookup(hostFilename string) (*bundle.Bundle, string, bool) {
	if b, ok := c.Get(hostFilename); ok {
		return b, hostFilename, true
	}
	key := KeyFromHostFilename(hostFilename)
	b, ok := c.Get(key)
	return b, key, ok
}

// Has reports whether key is cached.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Contains(key)
}

// Remove evicts b, keyed by its current primary file. It reports whether an
// entry was removed; a bundle without a primary file is never found.
func (c *Cache) Remove(b *bundle.Bundle) bool {
	key, err := b.Key()
	if err != nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Remove(key)
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries.Purge()
	c.mu.Unlock()
}

// Len returns the number of cached bundles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// hosts name processor outputs "<index>_<name>", optionally below the
// physical file's path
var hostIndexPrefix = regexp.MustCompile(`^[0-9]+_`)

// KeyFromHostFilename strips the mangling a lint host applies to a virtual
// file name: any directory part and one numeric index prefix.
// "/src/foo/foo.js/0_foo-<id>.js" becomes "foo-<id>.js".
func KeyFromHostFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	return hostIndexPrefix.ReplaceAllString(name, "")
}
