package feed

import (
	"context"
	"time"

	"github.com/bluele/gcache"
)

// CachingFetcher remembers recently fetched snapshots by source so that
// several lines served by the same feed share one download per cycle.
type CachingFetcher struct {
	next  Fetcher
	cache gcache.Cache
	ttl   time.Duration
}

// NewCachingFetcher wraps next with an LRU cache of size entries that expire
// after ttl. A non-positive ttl disables caching and returns next unchanged.
func NewCachingFetcher(next Fetcher, size int, ttl time.Duration) Fetcher {
	if ttl <= 0 {
		return next
	}
	if size <= 0 {
		size = 16
	}
	return &CachingFetcher{
		next:  next,
		cache: gcache.New(size).LRU().Build(),
		ttl:   ttl,
	}
}

func (c *CachingFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if cached, err := c.cache.Get(source); err == nil {
		if b, ok := cached.([]byte); ok {
			return b, nil
		}
	}

	b, err := c.next.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	// Only successful fetches are cached; failures retry on the next cycle.
	_ = c.cache.SetWithExpire(source, b, c.ttl)
	return b, nil
}
