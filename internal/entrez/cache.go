// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entrez

import (
	"net/url"
	"sync"
	"time"
)

// Cache memoizes E-utilities response bodies keyed by request URL and
// encoded parameters. Entries stay valid for the configured TTL. There is
// no size bound; expired entries are dropped on Get and swept on Put,
// which keeps the map proportional to the live working set.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry

	// now is swapped by tests to control expiry.
	now func() time.Time
}

type cacheEntry struct {
	at   time.Time
	body []byte
}

// NewCache creates a cache whose entries expire after ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// CacheKey derives the cache key for a request.
func CacheKey(endpoint string, params url.Values) string {
	return endpoint + "?" + params.Encode()
}

// Get returns the cached body for key if it was stored within the TTL
// window. Expired entries are dropped.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.at) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.body, true
}

// Put stores a response body under key, stamped with the current time,
// and sweeps out entries past the TTL.
func (c *Cache) Put(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.Sub(e.at) >= c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry{at: now, body: body}
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
