// Package cache provides a minimal read-through cache holding a single
// value and the time it was fetched. It is best-effort: readers may see
// data up to one TTL window stale, and concurrent refreshes may race,
// which is acceptable for its one consumer (the leaderboard).
package cache

import (
	"sync"
	"time"
)

type TTL[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	value     T
	fetchedAt time.Time
}

func New[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{ttl: ttl}
}

// Get returns the cached value when it is fresh, otherwise calls fetch
// and stores the result. The lock is not held across fetch, so it must
// be safe to call concurrently.
func (c *TTL[T]) Get(fetch func() (T, error)) (T, error) {
	c.mu.Lock()
	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.ttl {
		v := c.value
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err := fetch()
	if err != nil {
		return v, err
	}

	c.mu.Lock()
	c.value = v
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops the cached value so the next Get refetches.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}
