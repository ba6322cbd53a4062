// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about layout passes, placement store
// mutations, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, sceneID, elementCount)
//	// ... place labels ...
//	observability.Layout().OnLayoutComplete(ctx, sceneID, placed, unresolved, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout passes.
type LayoutHooks interface {
	// OnLayoutStart records the beginning of a layout pass.
	OnLayoutStart(ctx context.Context, sceneID string, elementCount int)

	// OnLayoutComplete records a finished layout pass.
	OnLayoutComplete(ctx context.Context, sceneID string, placed, unresolved int, duration time.Duration)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from placement store mutations.
type StoreHooks interface {
	// OnLabelSet records a label record write.
	OnLabelSet(ctx context.Context, id, mode string)

	// OnLabelRemoved records a label record deletion.
	OnLabelRemoved(ctx context.Context, id string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a LayoutHooks implementation that does nothing.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int)                        {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, int, int, time.Duration) {}

// NoopStoreHooks is a StoreHooks implementation that does nothing.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLabelSet(context.Context, string, string) {}
func (NoopStoreHooks) OnLabelRemoved(context.Context, string)     {}

// NoopCacheHooks is a CacheHooks implementation that does nothing.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Registry
// =============================================================================

var (
	mu          sync.RWMutex
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
)

// SetLayoutHooks registers layout hooks. Nil is ignored.
func SetLayoutHooks(h LayoutHooks) {
	if h == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	layoutHooks = h
}

// SetStoreHooks registers store hooks. Nil is ignored.
func SetStoreHooks(h StoreHooks) {
	if h == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	storeHooks = h
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	cacheHooks = h
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	mu.RLock()
	defer mu.RUnlock()
	return layoutHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	mu.RLock()
	defer mu.RUnlock()
	return storeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	storeHooks = NoopStoreHooks{}
	cacheHooks = NoopCacheHooks{}
}
