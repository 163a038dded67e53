package memory

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry struct {
	hist      History
	expiresAt time.Time
}

// localCache is the in-process fallback store: an LRU bound on the
// number of conversations plus a per-entry expiry.
type localCache struct {
	entries *lru.Cache[string, cacheEntry]
}

func newLocalCache(size int) *localCache {
	c, err := lru.New[string, cacheEntry](size)
	if err != nil {
		panic(err) // only possible with a non-positive size
	}
	return &localCache{entries: c}
}

func (c *localCache) get(id string, now time.Time) History {
	e, ok := c.entries.Get(id)
	if !ok {
		return nil
	}
	if now.After(e.expiresAt) {
		c.entries.Remove(id)
		return nil
	}
	return e.hist
}

func (c *localCache) put(id string, h History, ttl time.Duration, now time.Time) {
	c.entries.Add(id, cacheEntry{hist: h, expiresAt: now.Add(ttl)})
}

// sweep drops expired entries and reports how many were removed.
func (c *localCache) sweep(now time.Time) int {
	removed := 0
	for _, id := range c.entries.Keys() {
		if e, ok := c.entries.Peek(id); ok && now.After(e.expiresAt) {
			c.entries.Remove(id)
			removed++
		}
	}
	return removed
}
