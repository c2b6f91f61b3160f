package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PEAScout/internal/model"
)

// Cached adds an in-memory TTL cache in front of a Fetcher. A scoring run
// and a backtest issued back to back then share one download per symbol.
type Cached struct {
	inner Fetcher
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	series  *model.PriceSeries
	expires time.Time
}

// NewCached wraps inner with a TTL cache.
func NewCached(inner Fetcher, ttl time.Duration) *Cached {
	return &Cached{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cached) Name() string { return c.inner.Name() }

func (c *Cached) History(ctx context.Context, symbol string, days int) (*model.PriceSeries, error) {
	key := fmt.Sprintf("%s/%d", symbol, days)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.expires) {
		c.mu.Unlock()
		return e.series, nil
	}
	c.mu.Unlock()

	series, err := c.inner.History(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{series: series, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return series, nil
}
