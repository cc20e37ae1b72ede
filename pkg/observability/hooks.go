// Package observability provides instrumentation hooks for the compute
// pipeline, the caches, and the HTTP server.
//
// The core libraries emit events through a process-wide registry of hook
// interfaces that default to no-ops; main registers a backend (Prometheus,
// OpenTelemetry, a test recorder) at startup and the libraries stay free of
// any backend dependency.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetComputeHooks(&myComputeHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Compute().OnComputeStart(ctx, family, grid.NumPixels())
//	// ... iterate orbits ...
//	observability.Compute().OnComputeComplete(ctx, family, grid.NumPixels(), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Compute Hooks
// =============================================================================

// ComputeHooks receives events from the rendering pipeline.
type ComputeHooks interface {
	// Plane computation events
	OnComputeStart(ctx context.Context, family string, pixels int)
	OnComputeComplete(ctx context.Context, family string, pixels int, duration time.Duration, err error)

	// Coloring events
	OnColorStart(ctx context.Context, algorithm string, pixels int)
	OnColorComplete(ctx context.Context, algorithm string, duration time.Duration, err error)

	// Sink events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
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
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP server.
type ServerHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed before a response was written.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopComputeHooks is a no-op implementation of ComputeHooks.
type NoopComputeHooks struct{}

func (NoopComputeHooks) OnComputeStart(context.Context, string, int) {}
func (NoopComputeHooks) OnComputeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopComputeHooks) OnColorStart(context.Context, string, int)                        {}
func (NoopComputeHooks) OnColorComplete(context.Context, string, time.Duration, error)    {}
func (NoopComputeHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopComputeHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopServerHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	computeHooks ComputeHooks = NoopComputeHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	serverHooks  ServerHooks  = NoopServerHooks{}
	hooksMu      sync.RWMutex
)

// SetComputeHooks registers custom compute hooks. Call once at startup,
// before any pipeline operations.
func SetComputeHooks(h ComputeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		computeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom server hooks.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Compute returns the registered compute hooks.
func Compute() ComputeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return computeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults. Tests use it to
// unregister recorders.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	computeHooks = NoopComputeHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
