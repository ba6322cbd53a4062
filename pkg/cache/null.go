package cache

import (
	"context"
	"time"
)

// NullCache misses every read and discards every write. It backs --no-cache
// runs and tests that must recompute layouts every time.
type NullCache struct{}

// NewNullCache creates a disabled cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the entry.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
