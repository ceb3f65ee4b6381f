// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about tree scans, rule evaluation and served requests.
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
//	    observability.SetAnalysisHooks(&myAnalysisHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Analysis().OnWalkStart(ctx, root)
//	// ... analyze files ...
//	observability.Analysis().OnBuildComplete(ctx, root, level, edgeCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from graph building.
type AnalysisHooks interface {
	// OnWalkStart is called once per build before the tree walk begins.
	OnWalkStart(ctx context.Context, root string)

	// OnFileAnalyzed is called by a worker after one file has been processed.
	// It may be called concurrently.
	OnFileAnalyzed(ctx context.Context, path string, edgeCount int, err error)

	// OnBuildComplete is called after every file has been attempted.
	OnBuildComplete(ctx context.Context, root, level string, edgeCount int, duration time.Duration, err error)
}

// =============================================================================
// Validation Hooks
// =============================================================================

// ValidationHooks receives events from rule evaluation.
type ValidationHooks interface {
	OnValidateStart(ctx context.Context, rule string)
	OnValidateComplete(ctx context.Context, rule string, violations int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the report server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnWalkStart(context.Context, string)                   {}
func (NoopAnalysisHooks) OnFileAnalyzed(context.Context, string, int, error) {}
func (NoopAnalysisHooks) OnBuildComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopValidationHooks is a no-op implementation of ValidationHooks.
type NoopValidationHooks struct{}

func (NoopValidationHooks) OnValidateStart(context.Context, string)                              {}
func (NoopValidationHooks) OnValidateComplete(context.Context, string, int, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                         {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analysisHooks   AnalysisHooks   = NoopAnalysisHooks{}
	validationHooks ValidationHooks = NoopValidationHooks{}
	httpHooks       HTTPHooks       = NoopHTTPHooks{}
	hooksMu         sync.RWMutex
)

// SetAnalysisHooks registers custom analysis hooks.
// This should be called once at application startup before any graph is built.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Validation returns the registered validation hooks.
func Validation() ValidationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return validationHooks
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
	analysisHooks = NoopAnalysisHooks{}
	validationHooks = NoopValidationHooks{}
	httpHooks = NoopHTTPHooks{}
}
