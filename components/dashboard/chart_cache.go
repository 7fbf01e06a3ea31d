package dashboard

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

const defaultChartCacheEntries = 256

// RenderCache memoizes rendered chart HTML by key.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache keeps rendered charts for a fixed TTL. Every session with a
// distinct tree produces its own key, so the cache is bounded: when full, the
// entry closest to expiry is evicted. A zero TTL disables caching.
type ChartCache struct {
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]chartEntry
	hits    int
	misses  int
}

type chartEntry struct {
	html    string
	expires time.Time
}

// ChartCacheStats counts lookups since the cache was created.
type ChartCacheStats struct {
	Hits    int
	Misses  int
	Entries int
}

// NewChartCache builds a cache with the provided TTL holding at most 256 charts.
func NewChartCache(ttl time.Duration) *ChartCache {
	return NewBoundedChartCache(ttl, defaultChartCacheEntries)
}

// NewBoundedChartCache builds a cache holding at most maxEntries charts.
func NewBoundedChartCache(ttl time.Duration, maxEntries int) *ChartCache {
	if maxEntries <= 0 {
		maxEntries = defaultChartCacheEntries
	}
	return &ChartCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		entries:    make(map[string]chartEntry),
	}
}

// GetOrRender returns the cached chart for key or renders it. Failed renders
// are not stored.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c == nil || c.ttl <= 0 {
		return render()
	}
	if html, ok := c.lookup(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.store(key, html)
	return html, nil
}

func (c *ChartCache) lookup(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if ok && c.now().After(entry.expires) {
		delete(c.entries, key)
		ok = false
	}
	if !ok {
		c.misses++
		return "", false
	}
	c.hits++
	return entry.html, true
}

func (c *ChartCache) store(key, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = chartEntry{html: html, expires: c.now().Add(c.ttl)}
}

func (c *ChartCache) evictLocked() {
	var (
		victim string
		soon   time.Time
	)
	for key, entry := range c.entries {
		if victim == "" || entry.expires.Before(soon) {
			victim, soon = key, entry.expires
		}
	}
	delete(c.entries, victim)
}

// Purge drops expired entries and returns how many were removed.
func (c *ChartCache) Purge() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports how many entries are held, expired ones included.
func (c *ChartCache) Len() int {
	return c.Stats().Entries
}

// Stats returns lookup counters.
func (c *ChartCache) Stats() ChartCacheStats {
	if c == nil {
		return ChartCacheStats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChartCacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

// contentHash fingerprints the JSON form of v.
func contentHash(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "invalid"
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:12])
}
