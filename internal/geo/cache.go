package geo

import (
	"context"
	"sync"
	"time"
)

// CachingResolver wraps a Resolver with a TTL-bounded in-memory memo of
// resolved places. Only successful resolutions are cached so a transient
// NotFound can be retried on the next request.
type CachingResolver struct {
	inner Resolver

	mu         sync.Mutex
	entries    map[string]cacheEntry
	maxEntries int
	ttl        time.Duration
}

type cacheEntry struct {
	place   Place
	expires time.Time
}

// NewCachingResolver creates a cache decorator around a resolver.
// maxEntries <= 0 disables the size bound, ttl <= 0 disables expiry.
func NewCachingResolver(inner Resolver, maxEntries int, ttl time.Duration) *CachingResolver {
	return &CachingResolver{
		inner:      inner,
		entries:    make(map[string]cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

func (c *CachingResolver) Resolve(ctx context.Context, query string) (Place, error) {
	key := normalize(query)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.ttl <= 0 || time.Now().Before(e.expires) {
			c.mu.Unlock()
			return e.place, nil
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	place, err := c.inner.Resolve(ctx, query)
	if err != nil {
		return Place{}, err
	}

	c.mu.Lock()
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		// Evict an arbitrary expired entry first, else the whole map: the
		// cache is a best-effort memo, not an index of record.
		evicted := false
		now := time.Now()
		for k, e := range c.entries {
			if c.ttl > 0 && now.After(e.expires) {
				delete(c.entries, k)
				evicted = true
				break
			}
		}
		if !evicted {
			c.entries = make(map[string]cacheEntry)
		}
	}
	c.entries[key] = cacheEntry{place: place, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return place, nil
}
