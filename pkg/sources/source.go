// Package sources defines the contract between the resolution engine and
// the collaborators that fetch publisher catalogs. A Source issues the
// HTTP requests, parses the publisher's HTML table, CSV export or JSON API
// and returns raw items in catalog order with absolute URLs.
//
// Example usage:
//
//	srcs := sources.NewSources()
//	srcs.Set(iso.New(client))
//
//	items, err := src.Fetch(ctx)
//	if err != nil {
//	    return err
//	}
package sources

import (
	"context"
	"slices"
	"sync"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/publishers"
)

// Source fetches one publisher catalog.
type Source interface {
	// ID returns the publisher this source serves
	ID() publishers.ID

	// URL returns the catalog location
	URL() string

	// Fetch retrieves the catalog as raw items in catalog order
	Fetch(ctx context.Context) ([]catalog.RawItem, error)
}

// Sources is a thread-safe container for managing multiple data sources.
type Sources struct {
	mu      sync.RWMutex
	sources map[publishers.ID]Source
}

// NewSources creates a new Sources instance.
func NewSources(srcs ...Source) *Sources {
	s := &Sources{
		sources: make(map[publishers.ID]Source),
	}
	for _, src := range srcs {
		s.Set(src)
	}
	return s
}

// Get returns a source by ID.
func (s *Sources) Get(id publishers.ID) (Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, found := s.sources[id]
	return src, found
}

// Set registers a source under its ID.
func (s *Sources) Set(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[src.ID()] = src
}

// Delete deletes a source by ID.
func (s *Sources) Delete(id publishers.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
}

// Len returns the number of sources.
func (s *Sources) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sources)
}

// IDs returns the registered IDs in a stable order.
func (s *Sources) IDs() []publishers.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]publishers.ID, 0, len(s.sources))
	for id := range s.sources {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// List returns the registered sources ordered by ID.
func (s *Sources) List() []Source {
	ids := s.IDs()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Source, 0, len(ids))
	for _, id := range ids {
		if src, ok := s.sources[id]; ok {
			out = append(out, src)
		}
	}
	return out
}

// Static is a Source serving a fixed item list. It backs tests and
// catalogs loaded from local files.
type Static struct {
	Publisher publishers.ID
	Location  string
	Items     []catalog.RawItem
	Err       error
}

// ID implements Source.
func (s *Static) ID() publishers.ID {
	return s.Publisher
}

// URL implements Source.
func (s *Static) URL() string {
	return s.Location
}

// Fetch implements Source.
func (s *Static) Fetch(ctx context.Context) ([]catalog.RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return slices.Clone(s.Items), nil
}
