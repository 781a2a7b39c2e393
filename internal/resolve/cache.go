package resolve

import (
	"sync"
	"time"

	"github.com/mj1618/desktop-invoke/internal/model"
	"github.com/mj1618/desktop-invoke/internal/platform"
)

type cacheEntry struct {
	elements  []model.Element
	timestamp time.Time
}

// Cache is a TTL cache of element trees keyed by window scope. A ttl of 0
// disables caching.
type Cache struct {
	mu      sync.Mutex
	entries map[platform.Scope]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[platform.Scope]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// ReadElements returns the cached tree for opts' scope while it is fresh,
// otherwise reads through reader.
func (c *Cache) ReadElements(reader platform.Reader, opts platform.ReadOptions) ([]model.Element, error) {
	if c == nil || c.ttl == 0 {
		return reader.ReadElements(opts)
	}

	c.mu.Lock()
	if entry, ok := c.entries[opts.Scope]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		c.mu.Unlock()
		return entry.elements, nil
	}
	c.mu.Unlock()

	elements, err := reader.ReadElements(opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[opts.Scope] = cacheEntry{elements: elements, timestamp: c.now()}
	c.mu.Unlock()
	return elements, nil
}

// Invalidate drops every entry for the scope's application, or everything
// when the scope names no application.
func (c *Cache) Invalidate(scope platform.Scope) {
	if c == nil {
		return
	}
	if scope.App == "" {
		c.InvalidateAll()
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.App == scope.App {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll clears the cache.
func (c *Cache) InvalidateAll() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[platform.Scope]cacheEntry)
}

// Len reports the number of cached trees.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
