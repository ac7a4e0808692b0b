// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; nothing is recorded
// unless the application registers an implementation at startup. The
// defaults are no-ops, so instrumentation never becomes a hard dependency
// of the core packages.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLoadHooks(&myLoadHooks{})
//	    observability.SetWalkHooks(&myWalkHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Load().OnDescriptorStart(ctx, root)
//	// ... read and parse ...
//	observability.Load().OnDescriptorComplete(ctx, root, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Load Hooks
// =============================================================================

// LoadHooks receives events from package loads.
type LoadHooks interface {
	// Descriptor events
	OnDescriptorStart(ctx context.Context, root string)
	OnDescriptorComplete(ctx context.Context, root string, duration time.Duration, err error)

	// Source assembly events
	OnSourcesStart(ctx context.Context, root string)
	OnSourcesComplete(ctx context.Context, root string, sourceCount int, duration time.Duration, err error)
}

// =============================================================================
// Walk Hooks
// =============================================================================

// WalkHooks receives events from dependency walks.
type WalkHooks interface {
	// OnWalkStart records the start of a walk over the requested names.
	OnWalkStart(ctx context.Context, names []string)

	// OnWalkComplete records the outcome of a walk.
	OnWalkComplete(ctx context.Context, names []string, packages, missing int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLoadHooks is a no-op implementation of LoadHooks.
type NoopLoadHooks struct{}

func (NoopLoadHooks) OnDescriptorStart(context.Context, string)                            {}
func (NoopLoadHooks) OnDescriptorComplete(context.Context, string, time.Duration, error)   {}
func (NoopLoadHooks) OnSourcesStart(context.Context, string)                               {}
func (NoopLoadHooks) OnSourcesComplete(context.Context, string, int, time.Duration, error) {}

// NoopWalkHooks is a no-op implementation of WalkHooks.
type NoopWalkHooks struct{}

func (NoopWalkHooks) OnWalkStart(context.Context, []string) {}
func (NoopWalkHooks) OnWalkComplete(context.Context, []string, int, int, time.Duration, error) {
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	loadHooks LoadHooks = NoopLoadHooks{}
	walkHooks WalkHooks = NoopWalkHooks{}
	httpHooks HTTPHooks = NoopHTTPHooks{}
	hooksMu   sync.RWMutex
)

// SetLoadHooks registers custom load hooks.
// This should be called once at application startup before any loads.
func SetLoadHooks(h LoadHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		loadHooks = h
	}
}

// SetWalkHooks registers custom walk hooks.
// This should be called once at application startup before any walks.
func SetWalkHooks(h WalkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		walkHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Load returns the registered load hooks.
func Load() LoadHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return loadHooks
}

// Walk returns the registered walk hooks.
func Walk() WalkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return walkHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	loadHooks = NoopLoadHooks{}
	walkHooks = NoopWalkHooks{}
	httpHooks = NoopHTTPHooks{}
}
