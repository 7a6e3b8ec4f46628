// internal/cache/cache.go
package cache

import (
	"sync"

	"github.com/tamzrod/vitals-sampler/internal/reading"
)

// Cache holds the latest snapshot.
// Publish replaces it whole; Read returns a copy.
// The lock is held only for the copy, never across sleeps.
type Cache struct {
	mu   sync.Mutex
	snap reading.Snapshot
}

// New returns an empty cache (never sampled).
func New() *Cache {
	return &Cache{}
}

// Publish atomically replaces the stored snapshot.
func (c *Cache) Publish(s reading.Snapshot) {
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}

// Read returns a consistent copy of the stored snapshot.
func (c *Cache) Read() reading.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}
