// Package makecache caches the distinct canonical make list used by the
// fuzzy fallback tier. The list changes only when the catalog is
// re-imported, so staleness up to the TTL is an accepted tradeoff.
package makecache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Lister fetches the distinct make list from the catalog.
type Lister interface {
	ListDistinctMakes(ctx context.Context) ([]string, error)
}

// Cache holds a process-wide snapshot of canonical makes with a
// time-based expiry. Expired reads serve the stale snapshot while a
// single refresh runs; callers never block behind each other's refresh.
type Cache struct {
	lister Lister
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	makes     []string
	fetchedAt time.Time

	group singleflight.Group
}

// New creates a cache around the given lister. The clock defaults to
// time.Now and can be overridden with WithClock for tests.
func New(lister Lister, ttl time.Duration) *Cache {
	return &Cache{
		lister: lister,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the cache's clock. Test hook.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the cached make list. A cold cache blocks on one shared
// fetch; an expired cache serves the stale snapshot immediately and
// kicks off a single background refresh, so query latency never waits
// on a refresh it does not strictly need.
func (c *Cache) Get(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	makes := c.makes
	fresh := makes != nil && c.now().Sub(c.fetchedAt) < c.ttl
	c.mu.RUnlock()

	if fresh {
		return makes, nil
	}

	if makes != nil {
		go func() {
			_, _, _ = c.group.Do("makes", c.refresh)
		}()
		return makes, nil
	}

	refreshed, err, _ := c.group.Do("makes", c.refresh)
	if err != nil {
		return nil, err
	}
	return refreshed.([]string), nil
}

func (c *Cache) refresh() (interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	listed, err := c.lister.ListDistinctMakes(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.makes = listed
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return listed, nil
}
