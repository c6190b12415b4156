package fetch

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// CachedFetcher keeps recently fetched tiles in memory. Failures are not
// cached.
type CachedFetcher struct {
	next  Fetcher
	cache *ttlcache.Cache[string, []byte]
}

// NewCachedFetcher wraps next with a cache holding at most capacity tiles for
// ttl each. Call Start to run expiry in the background and Stop to end it.
func NewCachedFetcher(next Fetcher, ttl time.Duration, capacity uint64) *CachedFetcher {
	return &CachedFetcher{
		next: next,
		cache: ttlcache.New(
			ttlcache.WithTTL[string, []byte](ttl),
			ttlcache.WithCapacity[string, []byte](capacity),
			ttlcache.WithDisableTouchOnHit[string, []byte](),
		),
	}
}

// Fetch serves r from the cache or from the wrapped fetcher. Callers must not
// modify the returned bytes.
func (c *CachedFetcher) Fetch(ctx context.Context, r Request) ([]byte, error) {
	if item := c.cache.Get(r.URL); item != nil {
		return item.Value(), nil
	}
	data, err := c.next.Fetch(ctx, r)
	if err != nil {
		return nil, err
	}
	c.cache.Set(r.URL, data, ttlcache.DefaultTTL)
	return data, nil
}

// Len returns the number of cached tiles.
func (c *CachedFetcher) Len() int {
	return c.cache.Len()
}

// Start runs the expiry loop. It blocks until Stop is called.
func (c *CachedFetcher) Start() {
	c.cache.Start()
}

// Stop ends the expiry loop.
func (c *CachedFetcher) Stop() {
	c.cache.Stop()
}

var _ Fetcher = (*CachedFetcher)(nil)
