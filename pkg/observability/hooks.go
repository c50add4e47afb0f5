// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about alignment commands, validation runs and
// journal storage.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so library packages stay
// free of logging and metrics backends.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetNormalsHooks(&myNormalsHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Normals().OnPlanStart(ctx, "auto", len(sel))
//	// ... walk, plan, capture ...
//	observability.Normals().OnPlanComplete(ctx, "auto", meshes, assignments, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Normals Hooks
// =============================================================================

// NormalsHooks receives events from the normal alignment engine.
type NormalsHooks interface {
	// Planning covers the walk, plan and capture of every mesh.
	OnPlanStart(ctx context.Context, variant string, components int)
	OnPlanComplete(ctx context.Context, variant string, meshes, assignments int, duration time.Duration, err error)

	// OnApply records a forward application (do or redo) of an entry.
	OnApply(ctx context.Context, variant, entryID string, err error)

	// OnRevert records an undo of an entry.
	OnRevert(ctx context.Context, variant, entryID string, err error)
}

// =============================================================================
// Validation Hooks
// =============================================================================

// ValidationHooks receives events from the validation runner.
type ValidationHooks interface {
	OnValidatorStart(ctx context.Context, validator, target string)
	OnValidatorComplete(ctx context.Context, validator, target string, errors, warnings int, duration time.Duration, err error)
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

// NoopNormalsHooks is a no-op implementation of NormalsHooks.
type NoopNormalsHooks struct{}

func (NoopNormalsHooks) OnPlanStart(context.Context, string, int) {}
func (NoopNormalsHooks) OnPlanComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopNormalsHooks) OnApply(context.Context, string, string, error)  {}
func (NoopNormalsHooks) OnRevert(context.Context, string, string, error) {}

// NoopValidationHooks is a no-op implementation of ValidationHooks.
type NoopValidationHooks struct{}

func (NoopValidationHooks) OnValidatorStart(context.Context, string, string) {}
func (NoopValidationHooks) OnValidatorComplete(context.Context, string, string, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	normalsHooks    NormalsHooks    = NoopNormalsHooks{}
	validationHooks ValidationHooks = NoopValidationHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetNormalsHooks registers custom normals hooks.
// This should be called once at application startup before any command runs.
func SetNormalsHooks(h NormalsHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		normalsHooks = h
	}
}

// SetValidationHooks registers custom validation hooks.
func SetValidationHooks(h ValidationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		validationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Normals returns the registered normals hooks.
func Normals() NormalsHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return normalsHooks
}

// Validation returns the registered validation hooks.
func Validation() ValidationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return validationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	normalsHooks = NoopNormalsHooks{}
	validationHooks = NoopValidationHooks{}
	cacheHooks = NoopCacheHooks{}
}
