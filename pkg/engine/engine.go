// Package engine runs one publisher catalog through the resolution
// pipeline: parse every raw item, derive its identity, reconcile repeated
// keys, link obsolete entries to their successors and assemble the ordered
// registry. A catalog is either resolved completely or not at all.
package engine

import (
	"context"
	"time"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/identity"
	"github.com/agentstation/specmap/pkg/logging"
	"github.com/agentstation/specmap/pkg/publishers"
	"github.com/agentstation/specmap/pkg/reconciler"
	"github.com/agentstation/specmap/pkg/registry"
	"github.com/agentstation/specmap/pkg/titles"
	"github.com/agentstation/specmap/pkg/xref"
)

// Result is a resolved catalog.
type Result struct {
	Publisher publishers.ID
	Registry  *registry.Registry
	Entries   []*catalog.Entry
	Stats     reconciler.Stats
	Edges     []xref.Edge
	Items     int
	Duration  time.Duration
}

// Description is the parsed form of one raw item.
type Description struct {
	Descriptor titles.Descriptor
	Identity   identity.Identity
	Status     catalog.Status
	Entry      *catalog.Entry
}

// Describe parses one raw item into a candidate entry.
func Describe(pub *publishers.Publisher, item catalog.RawItem) (*Description, error) {
	d, err := pub.Parser.Parse(item.Identifier())
	if err != nil {
		return nil, err
	}

	status, err := pub.Vocabulary.Status(item.Status, d)
	if err != nil {
		return nil, err
	}

	id := pub.Identity.Build(d)
	e := &catalog.Entry{
		Key:       id.Key,
		BaseID:    id.BaseID,
		Addon:     d.Addon,
		SortIndex: item.SortIndex,
		URL:       item.URL,
		Title:     item.DisplayTitle(),
		Status:    status.String(),
		Lifecycle: status.Lifecycle,
		ISONumber: d.ISONumber,
		Version:   d.Version,
		Aliases:   id.Aliases,
	}
	if pub.RawDate {
		e.RawDate = d.Version.Date
	}

	return &Description{Descriptor: d, Identity: id, Status: status, Entry: e}, nil
}

// Resolve runs the pipeline over items, which must be in catalog order.
// Items without a sort index are numbered by position.
func Resolve(ctx context.Context, pub *publishers.Publisher, items []catalog.RawItem) (*Result, error) {
	if pub == nil {
		return nil, &errors.ValidationError{Field: "publisher", Message: "cannot be nil"}
	}

	start := time.Now()
	logger := logging.FromContext(ctx).With().Str("publisher", pub.ID.String()).Logger()

	rec, err := reconciler.New(pub.ReconcilerOptions()...)
	if err != nil {
		return nil, err
	}

	for i, item := range items {
		if item.SortIndex == 0 {
			item.SortIndex = i + 1
		}
		desc, err := Describe(pub, item)
		if err != nil {
			return nil, err
		}
		if _, err := rec.Add(ctx, desc.Entry); err != nil {
			return nil, err
		}
	}

	if rec.Len() == 0 {
		return nil, &errors.EmptyRegistryError{Publisher: pub.ID.String(), Items: len(items)}
	}

	entries := rec.Entries()
	edges, err := xref.Link(ctx, pub.ID.String(), entries)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Assemble(ctx, pub.Name, entries)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Publisher: pub.ID,
		Registry:  reg,
		Entries:   entries,
		Stats:     rec.Stats(),
		Edges:     edges,
		Items:     len(items),
		Duration:  time.Since(start),
	}

	logger.Info().
		Int("items", result.Items).
		Int("entries", reg.EntryCount()).
		Int("aliases", reg.AliasCount()).
		Int("obsolescence_edges", len(edges)).
		Int("skipped", result.Stats.Skipped()).
		Dur("duration", result.Duration).
		Msg("Resolved catalog")

	return result, nil
}
