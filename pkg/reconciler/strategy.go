package reconciler

import (
	"strings"

	"github.com/agentstation/specmap/pkg/catalog"
)

// StrategyType represents the type of reconciliation strategy.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

// Name returns the name of the strategy type.
func (s StrategyType) Name() string {
	words := strings.Split(s.String(), "-")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

const (
	// StrategyTypeLifecycle ranks observations by lifecycle state only.
	StrategyTypeLifecycle StrategyType = "lifecycle"
	// StrategyTypeVersion ranks observations by version, then lifecycle.
	StrategyTypeVersion StrategyType = "version"
)

// Decision is what the reconciler does with an observation.
type Decision int

const (
	// DecisionInsert adds the first observation of a key.
	DecisionInsert Decision = iota
	// DecisionReplace overwrites the existing entry wholesale.
	DecisionReplace
	// DecisionKeep discards the incoming observation.
	DecisionKeep
	// DecisionSkipDuplicateURL discards an observation whose URL another key already claimed.
	DecisionSkipDuplicateURL
	// DecisionConflict reports two equally current observations of one key.
	DecisionConflict
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case DecisionInsert:
		return "insert"
	case DecisionReplace:
		return "replace"
	case DecisionKeep:
		return "keep"
	case DecisionSkipDuplicateURL:
		return "skip-duplicate-url"
	case DecisionConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Verdict is a strategy's ruling on a repeated key.
type Verdict struct {
	Decision Decision
	Reason   string
}

// Strategy decides between two observations of the same canonical key.
type Strategy interface {
	// Type returns the strategy type
	Type() StrategyType

	// Description returns a human-readable description
	Description() string

	// Resolve rules on an incoming observation of a key that already has an
	// entry. It returns DecisionReplace, DecisionKeep or DecisionConflict.
	Resolve(existing, incoming *catalog.Entry) Verdict
}

// baseStrategy provides common strategy functionality.
type baseStrategy struct {
	typ         StrategyType
	description string
}

// Type returns the strategy type.
func (s *baseStrategy) Type() StrategyType {
	return s.typ
}

// Description returns a human-readable description.
func (s *baseStrategy) Description() string {
	return s.description
}

// LifecycleStrategy lets any later observation displace a non-current entry,
// discards non-current observations of a current entry, and refuses to pick
// between two current ones.
type LifecycleStrategy struct {
	baseStrategy
}

// NewLifecycleStrategy creates a lifecycle precedence strategy.
func NewLifecycleStrategy() Strategy {
	return &LifecycleStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeLifecycle,
			description: "Current entries outrank superseded, retired and draft entries; two current entries conflict",
		},
	}
}

// Resolve implements Strategy.
func (s *LifecycleStrategy) Resolve(existing, incoming *catalog.Entry) Verdict {
	switch {
	case !existing.IsCurrent() && existing.Equal(incoming):
		return Verdict{Decision: DecisionKeep, Reason: "duplicate observation"}
	case !existing.IsCurrent():
		return Verdict{Decision: DecisionReplace, Reason: "existing entry is " + existing.Lifecycle.String()}
	case !incoming.IsCurrent():
		return Verdict{Decision: DecisionKeep, Reason: "incoming entry is " + incoming.Lifecycle.String()}
	default:
		return Verdict{Decision: DecisionConflict, Reason: "both entries are current"}
	}
}

// VersionStrategy ranks observations by version. A higher version replaces
// the existing entry unless it is a draft and the existing entry is
// approved; a lower version is discarded; equal versions fall back to
// lifecycle precedence.
type VersionStrategy struct {
	baseStrategy
	fallback Strategy
}

// NewVersionStrategy creates a version precedence strategy.
func NewVersionStrategy() Strategy {
	return &VersionStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeVersion,
			description: "Higher versions win except drafts over approved entries; equal versions use lifecycle precedence",
		},
		fallback: NewLifecycleStrategy(),
	}
}

// Resolve implements Strategy.
func (s *VersionStrategy) Resolve(existing, incoming *catalog.Entry) Verdict {
	switch c := incoming.Version.Compare(existing.Version); {
	case c > 0 && incoming.IsUnderDevelopment() && existing.IsCurrent():
		return Verdict{Decision: DecisionKeep, Reason: "draft " + incoming.Version.String() + " may not replace approved " + existing.Version.String()}
	case c > 0:
		return Verdict{Decision: DecisionReplace, Reason: "higher version " + incoming.Version.String()}
	case c < 0:
		return Verdict{Decision: DecisionKeep, Reason: "lower version " + incoming.Version.String()}
	default:
		return s.fallback.Resolve(existing, incoming)
	}
}
