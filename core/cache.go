package core

import (
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultTTL = time.Hour

// TableCache is the time boxed cache around the fetch call. Invalidation is
// purely by age, renders inside the window reuse the same table and renders
// racing an expired entry share one in flight fetch.
type TableCache struct {
	TTL time.Duration
	Now func() time.Time

	group    singleflight.Group
	mu       sync.Mutex
	cached   *FetchReport
	filledAt time.Time
}

func NewTableCache(ttl time.Duration) *TableCache {
	if ttl == time.Duration(0) {
		ttl = DefaultTTL
	}

	return &TableCache{
		TTL: ttl,
		Now: time.Now,
	}
}

// Get returns the cached report while it is fresh, otherwise runs fill once
// and caches its result. A failed fill caches nothing.
func (c *TableCache) Get(fill func() (*FetchReport, error)) (*FetchReport, error) {
	c.mu.Lock()
	staleAt := c.Now().Add(-c.TTL)
	if c.cached != nil && c.filledAt.After(staleAt) {
		defer c.mu.Unlock()
		log.Println("returning cached index table")
		return c.cached, nil
	}
	c.mu.Unlock()

	res, err, _ := c.group.Do("index-table", func() (any, error) {
		report, err := fill()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cached = report
		c.filledAt = c.Now()
		c.mu.Unlock()

		return report, nil
	})

	if err != nil {
		return nil, err
	}

	return res.(*FetchReport), nil
}
