// Package observability provides hooks for metrics and tracing of the
// diagram pipeline.
//
// The core packages (layout, render, fontmetrics) emit events through the
// hooks registered here without depending on a particular metrics backend.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The core performs no I/O and has no cancellation semantics, so hook methods
// take no context.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    h := observability.NewPrometheusHooks(prometheus.NewRegistry())
//	    observability.SetLayoutHooks(h)
//	    observability.SetCacheHooks(h)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... solve ...
//	observability.Layout().OnSolveComplete(nodes, solved, failed, time.Since(start))
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the measure, solve and render stages.
type LayoutHooks interface {
	// OnMeasure records one text measurement. err is non-nil if the
	// measurement failed.
	OnMeasure(font string, duration time.Duration, err error)

	// OnSolveComplete records one solver run over a diagram of nodes nodes,
	// of which solved received geometry and failed were reported.
	OnSolveComplete(nodes, solved, failed int, duration time.Duration)

	// OnRenderComplete records one render pass.
	OnRenderComplete(primitives, warnings int, duration time.Duration)
}

// =============================================================================
// Output Hooks
// =============================================================================

// OutputHooks receives events from the output sinks.
type OutputHooks interface {
	// OnWrite records one serialized document of size bytes.
	OnWrite(format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from in-memory caches.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(cache string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(cache string)

	// OnCacheEvict records an entry evicted to make room.
	OnCacheEvict(cache string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnMeasure(string, time.Duration, error)       {}
func (NoopLayoutHooks) OnSolveComplete(int, int, int, time.Duration) {}
func (NoopLayoutHooks) OnRenderComplete(int, int, time.Duration)     {}

// NoopOutputHooks is a no-op implementation of OutputHooks.
type NoopOutputHooks struct{}

func (NoopOutputHooks) OnWrite(string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(string)   {}
func (NoopCacheHooks) OnCacheMiss(string)  {}
func (NoopCacheHooks) OnCacheEvict(string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	outputHooks OutputHooks = NoopOutputHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout operations.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetOutputHooks registers custom output hooks.
func SetOutputHooks(h OutputHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		outputHooks = h
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

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Output returns the registered output hooks.
func Output() OutputHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return outputHooks
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
	layoutHooks = NoopLayoutHooks{}
	outputHooks = NoopOutputHooks{}
	cacheHooks = NoopCacheHooks{}
}
