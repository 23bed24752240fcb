// Package xref links entries that are no longer current to their successor.
//
// The match is deliberately approximate: the successor of a superseded,
// retired or draft entry is the single current, non-addon entry sharing its
// base id. Following individual document detail pages would be more precise
// but catalog listings are the only input.
package xref

import (
	"cmp"
	"context"
	"slices"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/logging"
)

// Edge is one obsolescence link.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Link sets ObsoletedBy on every non-current entry that has exactly one
// current, non-addon entry with the same base id. It returns the edges it
// created in key order, or an *errors.AmbiguityError when an entry has more
// than one candidate. Entries are only mutated when no ambiguity exists.
func Link(ctx context.Context, publisher string, entries []*catalog.Entry) ([]Edge, error) {
	successors := make(map[string][]string)
	for _, e := range entries {
		if e.IsCurrent() && !e.Addon {
			successors[e.BaseID] = append(successors[e.BaseID], e.Key)
		}
	}

	obsolete := make([]*catalog.Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsCurrent() {
			obsolete = append(obsolete, e)
		}
	}
	slices.SortFunc(obsolete, func(a, b *catalog.Entry) int {
		return cmp.Compare(a.Key, b.Key)
	})

	logger := logging.FromContext(ctx)
	links := make(map[*catalog.Entry]string, len(obsolete))
	var edges []Edge
	for _, e := range obsolete {
		candidates := successors[e.BaseID]
		switch len(candidates) {
		case 0:
			logger.Trace().
				Str("publisher", publisher).
				Str("key", e.Key).
				Msg("No successor for obsolete entry")
		case 1:
			links[e] = candidates[0]
			edges = append(edges, Edge{From: e.Key, To: candidates[0]})
		default:
			sorted := slices.Clone(candidates)
			slices.Sort(sorted)
			return nil, &errors.AmbiguityError{
				Publisher:  publisher,
				Key:        e.Key,
				BaseID:     e.BaseID,
				Candidates: sorted,
			}
		}
	}

	for e, to := range links {
		e.ObsoletedBy = to
	}

	logger.Debug().
		Str("publisher", publisher).
		Int("obsolete", len(obsolete)).
		Int("linked", len(edges)).
		Msg("Linked obsolete entries")

	return edges, nil
}
