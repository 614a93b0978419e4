package climate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultCacheSize = 64
	defaultCacheTTL  = 6 * time.Hour
)

// CachedFetcher memoises fetches per location rounded to two decimals.
type CachedFetcher struct {
	next  Fetcher
	cache *expirable.LRU[string, Dataset]
}

func NewCachedFetcher(next Fetcher, size int, ttl time.Duration) *CachedFetcher {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedFetcher{
		next:  next,
		cache: expirable.NewLRU[string, Dataset](size, nil, ttl),
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context, loc Location) (Dataset, error) {
	key := cacheKey(loc)
	if ds, ok := c.cache.Get(key); ok {
		return ds, nil
	}
	ds, err := c.next.Fetch(ctx, loc)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, ds)
	return ds, nil
}

func (c *CachedFetcher) Len() int {
	return c.cache.Len()
}

func cacheKey(loc Location) string {
	round := func(v float64) float64 { return math.Round(v*100) / 100 }
	return fmt.Sprintf("%.2f:%.2f", round(loc.Latitude), round(loc.Longitude))
}
