// Package cache holds fetched repository reference results for the process
// lifetime, keyed by owner/repo.
package cache

import (
	"sync"
	"time"
)

// Entry is one cached repository result
type Entry struct {
	Code  string
	Files []string
	At    time.Time
}

// Cache maps owner/repo keys to fetched results. Expiry is checked lazily
// on read; expired entries stay in place until the next successful fetch
// overwrites them. There is no size cap and no background sweep.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]Entry
}

// New creates a cache with the given time-to-live
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]Entry),
	}
}

// Get returns the entry for key if it exists and is still fresh
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	if c.now().Sub(e.At) >= c.ttl {
		return Entry{}, false
	}
	return e, true
}

// Put stores a result for key, replacing any previous entry
func (c *Cache) Put(key, code string, files []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Code:  code,
		Files: files,
		At:    c.now(),
	}
}

// Clear drops all cached results
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
}

// Len reports the number of cached entries, fresh or stale
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
