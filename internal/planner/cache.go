package planner

import (
	"sync"

	"github.com/example/weekplan/internal/schedule"
)

type cacheKey struct {
	ownerID int64
	start   string
	end     string
}

// ExceptionCache holds the most recently fetched cancelled-date map for one
// exact (owner, start, end) range key. It is deliberately not an LRU: a new
// key fully replaces the previous entry. The cache provides no automatic
// invalidation on write; every mutation path must call Invalidate before
// triggering a re-resolution, or other surfaces may observe stale data.
type ExceptionCache struct {
	mu    sync.Mutex
	key   cacheKey
	set   schedule.ExceptionSet
	valid bool
}

func NewExceptionCache() *ExceptionCache {
	return &ExceptionCache{}
}

// Get returns the cached set when the key matches the stored entry exactly.
func (c *ExceptionCache) Get(ownerID int64, start, end string) (schedule.ExceptionSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid || c.key != (cacheKey{ownerID, start, end}) {
		return nil, false
	}
	return c.set, true
}

// Put replaces the single cached entry.
func (c *ExceptionCache) Put(ownerID int64, start, end string, set schedule.ExceptionSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = cacheKey{ownerID, start, end}
	c.set = set
	c.valid = true
}

// Invalidate drops the cached entry.
func (c *ExceptionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set = nil
	c.valid = false
}
