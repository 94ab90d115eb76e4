package imagegen

import (
	"sync"
	"time"
)

// Cache keeps generated image URLs per scene until they go stale.
type Cache struct {
	mu      sync.Mutex
	maxAge  time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	url     string
	created time.Time
}

// NewCache creates a cache whose entries expire after maxAge.
func NewCache(maxAge time.Duration) *Cache {
	return &Cache{
		maxAge:  maxAge,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached URL for key if present and fresh.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(e.created) > c.maxAge {
		delete(c.entries, key)
		return "", false
	}
	return e.url, true
}

// Set stores url for key.
func (c *Cache) Set(key, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{url: url, created: c.now()}
}

// Len returns the number of entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
