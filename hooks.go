package specmap

import (
	"sync"

	"github.com/agentstation/specmap/pkg/publishers"
)

// Hook function types for catalog events
type (
	// CatalogResolvedHook is called when a catalog resolves successfully
	CatalogResolvedHook func(result *CatalogResult)

	// CatalogFailedHook is called when a catalog pipeline fails
	CatalogFailedHook func(id publishers.ID, err error)
)

// hooks manages event callbacks for sync runs
type hooks struct {
	mu         sync.RWMutex
	onResolved []CatalogResolvedHook
	onFailed   []CatalogFailedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnCatalogResolved registers a callback for resolved catalogs
func (h *hooks) OnCatalogResolved(fn CatalogResolvedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onResolved = append(h.onResolved, fn)
}

// OnCatalogFailed registers a callback for failed catalogs
func (h *hooks) OnCatalogFailed(fn CatalogFailedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onFailed = append(h.onFailed, fn)
}

// trigger fires the matching hooks for each catalog in order
func (h *hooks) trigger(results []*CatalogResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, res := range results {
		if res.Err != nil {
			for _, fn := range h.onFailed {
				fn(res.Publisher, res.Err)
			}
			continue
		}
		for _, fn := range h.onResolved {
			fn(res)
		}
	}
}
