// Package cache provides layout result caching.
//
// A layout for an unchanged scene is fully determined by its inputs, so the
// engine can key committed layouts by a content hash of the scene and the
// configuration and reuse them across runs. Three backends are provided:
// a file cache for CLI usage, a Redis cache for serve mode, and a null cache
// for disabling caching entirely.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	// TTLLayout is how long a committed layout stays cached. Layouts are
	// cheap to recompute, so a modest TTL keeps the cache from growing
	// without bound.
	TTLLayout = 24 * time.Hour

	// TTLForever disables expiration.
	TTLForever = 0
)

// Cache is the storage backend interface.
//
// Get returns (data, found, error): a miss is not an error, and an error
// means the backend itself failed.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys from layout inputs.
type Keyer interface {
	// LayoutKey generates a key for a committed layout, from the scene
	// content hash and the options that influence placement.
	LayoutKey(sceneHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts captures the configuration inputs that change layout output.
// Two runs with equal scene hashes and equal opts produce identical layouts,
// so they may share a cache entry.
type LayoutKeyOpts struct {
	Strategy        string  `json:"strategy"`
	BorderMargin    float64 `json:"border_margin"`
	CollisionMargin float64 `json:"collision_margin"`
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(sceneHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sceneHash, opts)
}
