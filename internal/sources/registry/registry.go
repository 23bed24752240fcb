// Package registry builds catalog sources for publisher IDs.
// This package is separate from the sources contract to avoid circular dependencies.
package registry

import (
	"fmt"

	"github.com/agentstation/specmap/internal/sources/etsi"
	"github.com/agentstation/specmap/internal/sources/iso"
	"github.com/agentstation/specmap/internal/sources/scte"
	"github.com/agentstation/specmap/internal/transport"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
	"github.com/agentstation/specmap/pkg/sources"
)

// registry maps publisher IDs to their source constructors
var registry = map[publishers.ID]func(*transport.Client, string) sources.Source{
	publishers.ISO:  func(c *transport.Client, url string) sources.Source { return iso.New(c, url) },
	publishers.ETSI: func(c *transport.Client, url string) sources.Source { return etsi.New(c, url) },
	publishers.SCTE: func(c *transport.Client, url string) sources.Source { return scte.New(c, url) },
}

// Get creates a source for the given publisher. An empty url selects the
// publisher's default catalog location.
func Get(id publishers.ID, client *transport.Client, url string) (sources.Source, error) {
	newSource, ok := registry[id]
	if !ok {
		return nil, &errors.ValidationError{
			Field:   "publisher",
			Value:   id,
			Message: fmt.Sprintf("unsupported publisher: %s", id),
		}
	}
	if client == nil {
		client = transport.New()
	}
	return newSource(client, url), nil
}

// Has checks if a publisher ID has a source implementation.
func Has(id publishers.ID) bool {
	_, ok := registry[id]
	return ok
}

// Config selects the sources to build.
type Config struct {
	// IDs are the publishers to include; empty means all.
	IDs []publishers.ID

	// URLs override catalog locations per publisher.
	URLs map[publishers.ID]string

	// Client returns the transport client for a publisher; nil uses a default client.
	Client func(publishers.ID) *transport.Client
}

// Build creates the configured set of sources.
func Build(cfg Config) (*sources.Sources, error) {
	ids := cfg.IDs
	if len(ids) == 0 {
		ids = publishers.IDs()
	}

	srcs := sources.NewSources()
	for _, id := range ids {
		var client *transport.Client
		if cfg.Client != nil {
			client = cfg.Client(id)
		}
		src, err := Get(id, client, cfg.URLs[id])
		if err != nil {
			return nil, err
		}
		srcs.Set(src)
	}
	return srcs, nil
}
