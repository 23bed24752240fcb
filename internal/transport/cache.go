package transport

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache holds catalog responses for a short TTL so that repeated runs in
// one process (and retries of a failed pipeline) do not refetch them.
type Cache struct {
	store *gocache.Cache
}

// NewCache creates a new cache with the given TTL and cleanup interval.
func NewCache(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a cached response.
func (c *Cache) Get(url string) (*Response, bool) {
	v, ok := c.store.Get(url)
	if !ok {
		return nil, false
	}
	resp, ok := v.(*Response)
	return resp, ok
}

// Set stores a response with the default TTL.
func (c *Cache) Set(url string, resp *Response) {
	c.store.Set(url, resp, gocache.DefaultExpiration)
}

// Delete removes a cached response.
func (c *Cache) Delete(url string) {
	c.store.Delete(url)
}

// Clear removes all items from the cache.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of items in the cache.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
