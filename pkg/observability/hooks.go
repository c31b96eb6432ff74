// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in bagtree report events through the registered hooks instead of
// depending on a metrics or tracing backend. The defaults do nothing; a
// binary registers its own implementations once at startup.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDecompositionHooks(&myHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Decomposition().OnDecomposeStart(ctx, vertices, edges, ordering)
//	// ... compute ...
//	observability.Decomposition().OnDecomposeComplete(ctx, width, nodes, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// DecompositionHooks receives events from the decomposition pipeline.
type DecompositionHooks interface {
	OnDecomposeStart(ctx context.Context, vertices, edges int, ordering string)
	OnDecomposeComplete(ctx context.Context, width, nodes int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, status int, duration time.Duration)
}

// NoopDecompositionHooks is a no-op implementation of DecompositionHooks.
type NoopDecompositionHooks struct{}

func (NoopDecompositionHooks) OnDecomposeStart(context.Context, int, int, string) {}
func (NoopDecompositionHooks) OnDecomposeComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopDecompositionHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopDecompositionHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

var (
	decompositionHooks DecompositionHooks = NoopDecompositionHooks{}
	cacheHooks         CacheHooks         = NoopCacheHooks{}
	serverHooks        ServerHooks        = NoopServerHooks{}
	hooksMu            sync.RWMutex
)

// SetDecompositionHooks registers custom decomposition hooks.
// nil leaves the current hooks in place.
func SetDecompositionHooks(h DecompositionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		decompositionHooks = h
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

// SetServerHooks registers custom HTTP server hooks.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Decomposition returns the registered decomposition hooks.
func Decomposition() DecompositionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return decompositionHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered HTTP server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	decompositionHooks = NoopDecompositionHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
