package data

import (
	"sync"
	"time"
)

// BarCache is an in-memory TTL cache of loaded bar files, keyed by path.
// The API server reuses it across requests so repeated backtests over the
// same dataset do not re-read and re-validate the file each time. A zero TTL
// caches forever.
type BarCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	file   *BarFile
	loaded time.Time
}

// NewBarCache creates a cache with the given entry TTL.
func NewBarCache(ttl time.Duration) *BarCache {
	return &BarCache{store: map[string]cacheEntry{}, ttl: ttl}
}

// Load returns the cached bar file for path, loading it on a miss or after
// expiry.
func (c *BarCache) Load(path string) (*BarFile, error) {
	c.mu.RLock()
	e, ok := c.store[path]
	c.mu.RUnlock()
	if ok && (c.ttl == 0 || time.Since(e.loaded) < c.ttl) {
		return e.file, nil
	}

	bf, err := LoadBars(path)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.store[path] = cacheEntry{file: bf, loaded: time.Now()}
	c.mu.Unlock()
	return bf, nil
}
