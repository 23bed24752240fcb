// Package specmap resolves publisher standards catalogs into canonical
// registries: every document gets one stable key, repeated observations are
// reconciled by lifecycle and version precedence, obsolete documents point
// at their current successors, and each catalog is written as one file.
package specmap

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentstation/specmap/internal/sources/registry"
	"github.com/agentstation/specmap/pkg/sources"
)

// Specmap runs catalog resolution against a set of sources.
type Specmap interface {
	// Sync fetches, resolves and persists the selected catalogs
	Sync(ctx context.Context, opts ...SyncOption) (*Result, error)

	// Sources returns the configured catalog sources
	Sources() *sources.Sources

	// OnCatalogResolved registers a callback for each resolved catalog
	OnCatalogResolved(CatalogResolvedHook)

	// OnCatalogFailed registers a callback for each failed catalog
	OnCatalogFailed(CatalogFailedHook)
}

// specmap is the internal implementation of the Specmap interface
type specmap struct {
	mu      sync.Mutex // serializes Sync runs sharing one output directory
	config  *config
	sources *sources.Sources
	hooks   *hooks
}

// New creates a new Specmap instance with the given options. Without
// WithSources every known publisher is fetched from its default location.
func New(opts ...Option) (Specmap, error) {
	sm := &specmap{
		config: defaultConfig(),
		hooks:  newHooks(),
	}

	if err := sm.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	sm.sources = sm.config.sources
	if sm.sources == nil {
		srcs, err := registry.Build(registry.Config{})
		if err != nil {
			return nil, fmt.Errorf("building sources: %w", err)
		}
		sm.sources = srcs
	}

	return sm, nil
}

// Sources returns the configured catalog sources.
func (s *specmap) Sources() *sources.Sources {
	return s.sources
}

// OnCatalogResolved registers a callback for each resolved catalog.
func (s *specmap) OnCatalogResolved(fn CatalogResolvedHook) {
	s.hooks.OnCatalogResolved(fn)
}

// OnCatalogFailed registers a callback for each failed catalog.
func (s *specmap) OnCatalogFailed(fn CatalogFailedHook) {
	s.hooks.OnCatalogFailed(fn)
}
