package services

import "sync"

// DefaultCacheSize is the entry cap used when NewTotalsCache gets size <= 0.
const DefaultCacheSize = 500

// TotalsCache memoizes project summaries keyed by content fingerprint, so an
// edited project can never be served a stale entry. When the cache is full
// it is cleared before the next insert.
type TotalsCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]ProjectSummary
}

func NewTotalsCache(size int) *TotalsCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &TotalsCache{max: size, entries: make(map[string]ProjectSummary, size)}
}

// Get returns a copy of the summary stored under key.
func (c *TotalsCache) Get(key string) (ProjectSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[key]
	if !ok {
		return ProjectSummary{}, false
	}
	return s.clone(), true
}

// Put stores a copy of s under key.
func (c *TotalsCache) Put(key string, s ProjectSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.max {
		clear(c.entries)
	}
	c.entries[key] = s.clone()
}

// Invalidate drops the entry stored under key.
func (c *TotalsCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *TotalsCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

func (c *TotalsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
