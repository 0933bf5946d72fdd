package fboclient

import "sync"

// Cache holds a single cached value with optimistic-update support: Apply
// installs a speculative value while remembering the previous one, Rollback
// restores it after a failed call, and Invalidate marks the entry stale after
// a successful mutation so the next read refetches.
type Cache[T any] struct {
	mu       sync.Mutex
	value    T
	previous T
	hasValue bool
	hasPrev  bool
}

// Get returns the cached value and whether it is currently valid.
func (c *Cache[T]) Get() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.hasValue
}

// Put stores an authoritative value.
func (c *Cache[T]) Put(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.hasValue = true
	c.hasPrev = false
}

// Apply installs a speculative value, keeping the previous one for Rollback.
func (c *Cache[T]) Apply(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasValue {
		c.previous = c.value
		c.hasPrev = true
	}
	c.value = value
	c.hasValue = true
}

// Rollback restores the value replaced by the last Apply. If there is nothing
// to restore the entry is invalidated instead.
func (c *Cache[T]) Rollback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasPrev {
		c.value = c.previous
		c.hasPrev = false
		return
	}
	var zero T
	c.value = zero
	c.hasValue = false
}

// Invalidate marks the entry stale so the next read refetches.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.previous = zero
	c.hasValue = false
	c.hasPrev = false
}
