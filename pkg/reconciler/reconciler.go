// Package reconciler merges repeated observations of the same canonical key
// into a single entry using lifecycle or version precedence.
//
// A Reconciler is the per-catalog state of one run: the registry being
// built and the set of URLs claimed by accepted entries. It holds no global
// state, so independent catalogs may be reconciled concurrently, but one
// Reconciler must be fed a single catalog's entries in catalog order.
package reconciler

import (
	"cmp"
	"context"
	"slices"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/logging"
)

// Reconciler accumulates entries keyed by canonical key.
type Reconciler struct {
	publisher string
	strategy  Strategy
	dedupURLs bool

	entries map[string]*catalog.Entry
	claims  map[string]string // url -> key
	stats   Stats
}

// New creates a new Reconciler with options.
func New(opts ...Option) (*Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Reconciler{
		publisher: options.publisher,
		strategy:  options.strategy,
		dedupURLs: options.dedupURLs,
		entries:   make(map[string]*catalog.Entry),
		claims:    make(map[string]string),
	}, nil
}

// Strategy returns the precedence strategy in use.
func (r *Reconciler) Strategy() Strategy {
	return r.strategy
}

// Add reconciles one observation. Skips are returned as outcomes, not
// errors; a *errors.ConflictError is returned when two current
// observations share a key and the catalog must be abandoned.
func (r *Reconciler) Add(ctx context.Context, incoming *catalog.Entry) (Outcome, error) {
	if incoming == nil || incoming.Key == "" {
		return Outcome{}, &errors.ValidationError{
			Field:   "key",
			Message: "entry must have a canonical key",
		}
	}

	logger := logging.FromContext(ctx).With().
		Str("publisher", r.publisher).
		Str("key", incoming.Key).
		Int("sort_index", incoming.SortIndex).
		Logger()

	if r.dedupURLs && incoming.URL != "" {
		if owner, ok := r.claims[incoming.URL]; ok && owner != incoming.Key {
			out := Outcome{
				Decision:  DecisionSkipDuplicateURL,
				Key:       incoming.Key,
				Reason:    "URL already claimed",
				ClaimedBy: owner,
			}
			r.stats.record(out.Decision)
			logger.Info().
				Str("url", incoming.URL).
				Str("claimed_by", owner).
				Msg("Skipping entry with duplicate URL")
			return out, nil
		}
	}

	existing, ok := r.entries[incoming.Key]
	if !ok {
		r.accept(incoming, nil)
		r.stats.record(DecisionInsert)
		logger.Trace().Str("status", incoming.Status).Msg("Inserted entry")
		return Outcome{Decision: DecisionInsert, Key: incoming.Key}, nil
	}

	verdict := r.strategy.Resolve(existing, incoming)
	out := Outcome{Decision: verdict.Decision, Key: incoming.Key, Reason: verdict.Reason}

	switch verdict.Decision {
	case DecisionReplace:
		r.accept(incoming, existing)
		logger.Debug().
			Int("replaced_sort_index", existing.SortIndex).
			Str("reason", verdict.Reason).
			Msg("Replaced entry")
	case DecisionKeep:
		logger.Debug().
			Int("kept_sort_index", existing.SortIndex).
			Str("reason", verdict.Reason).
			Msg("Kept existing entry")
	default:
		err := errors.NewConflictError(r.publisher, incoming.Key, existing.SortIndex, incoming.SortIndex)
		err.Reason = verdict.Reason
		return out, err
	}

	r.stats.record(verdict.Decision)
	return out, nil
}

// accept stores incoming as the entry for its key and moves URL claims.
func (r *Reconciler) accept(incoming, replaced *catalog.Entry) {
	if replaced != nil && replaced.URL != "" && r.claims[replaced.URL] == replaced.Key {
		delete(r.claims, replaced.URL)
	}
	r.entries[incoming.Key] = incoming
	if incoming.URL != "" {
		r.claims[incoming.URL] = incoming.Key
	}
}

// Get returns the entry for a key.
func (r *Reconciler) Get(key string) (*catalog.Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Len returns the number of entries.
func (r *Reconciler) Len() int {
	return len(r.entries)
}

// Entries returns the reconciled entries ordered by catalog position.
func (r *Reconciler) Entries() []*catalog.Entry {
	entries := make([]*catalog.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b *catalog.Entry) int {
		return cmp.Or(cmp.Compare(a.SortIndex, b.SortIndex), cmp.Compare(a.Key, b.Key))
	})
	return entries
}

// Stats returns outcome counts so far.
func (r *Reconciler) Stats() Stats {
	return r.stats
}
