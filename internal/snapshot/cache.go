// Package snapshot holds the single in-memory copy of the backing-store
// records for one adapter session.
package snapshot

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/SweetsNSavories/timeline/internal/record"
)

// Snapshot is the ordered result of the one fetch per session. It is replaced
// wholesale, never patched; queries work on copies of Records.
type Snapshot struct {
	Records   []record.Record
	FetchedAt time.Time
}

// PopulateFunc produces the snapshot on a cache miss.
type PopulateFunc func(ctx context.Context) (*Snapshot, error)

// Cache owns one snapshot per adapter instance. Population is coalesced:
// when several callers race an unpopulated cache, one fetch runs and its
// result satisfies all of them. Once set, the cache never reverts to empty
// until the instance is discarded.
type Cache struct {
	mu    sync.RWMutex
	snap  *Snapshot
	group singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the current snapshot, or false when none is installed.
func (c *Cache) Get() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, c.snap != nil
}

// Set installs a snapshot, replacing any prior one.
func (c *Cache) Set(s *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = s
}

// Load returns the cached snapshot, populating it at most once. Concurrent
// first callers share the in-flight populate call instead of racing fetches.
func (c *Cache) Load(ctx context.Context, populate PopulateFunc) (*Snapshot, error) {
	if s, ok := c.Get(); ok {
		return s, nil
	}

	v, err, _ := c.group.Do("snapshot", func() (any, error) {
		// A racing caller may have populated while we queued.
		if s, ok := c.Get(); ok {
			return s, nil
		}
		s, err := populate(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Snapshot), nil
}
