// Package publishers describes the standards organizations specmap knows
// how to resolve: the key prefix, title grammar, alias scheme and status
// vocabulary of each, and which precedence rules apply to its catalog.
package publishers

import (
	"regexp"
	"slices"
	"strings"

	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/identity"
	"github.com/agentstation/specmap/pkg/reconciler"
	"github.com/agentstation/specmap/pkg/titles"
)

// ID identifies a publisher catalog.
type ID string

// String returns the string representation of a publisher ID.
func (id ID) String() string {
	return string(id)
}

// Known publishers.
const (
	ISO  ID = "iso"
	ETSI ID = "etsi"
	SCTE ID = "scte"
)

// IDs returns all known publisher IDs in a stable order.
func IDs() []ID {
	return []ID{ISO, ETSI, SCTE}
}

// IsValid returns true if the ID is one of the defined constants.
func (id ID) IsValid() bool {
	return slices.Contains(IDs(), id)
}

// ParseID parses a publisher ID case-insensitively.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if !id.IsValid() {
		return "", &errors.ValidationError{
			Field:   "publisher",
			Value:   s,
			Message: "unknown publisher, expected one of " + strings.Join(Strings(), ", "),
		}
	}
	return id, nil
}

// Strings returns all known publisher IDs as strings.
func Strings() []string {
	ids := IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Publisher is the resolution policy of one catalog.
type Publisher struct {
	ID   ID
	Name string // Display name written into every record

	Parser     titles.Parser
	Identity   identity.Builder
	Vocabulary *Vocabulary

	// Versioned catalogs rank observations by version before lifecycle.
	Versioned bool

	// DedupURLs skips entries whose download URL another key already claimed.
	DedupURLs bool

	// RawDate copies the title's date token into each record.
	RawDate bool
}

// Strategy returns the precedence strategy for the catalog.
func (p *Publisher) Strategy() reconciler.Strategy {
	if p.Versioned {
		return reconciler.NewVersionStrategy()
	}
	return reconciler.NewLifecycleStrategy()
}

// ReconcilerOptions returns the options for a reconciler of this catalog.
func (p *Publisher) ReconcilerOptions() []reconciler.Option {
	return []reconciler.Option{
		reconciler.WithPublisher(p.ID.String()),
		reconciler.WithStrategy(p.Strategy()),
		reconciler.WithURLDedup(p.DedupURLs),
	}
}

// Get returns the publisher for id.
func Get(id ID) (*Publisher, error) {
	switch id {
	case ISO:
		return newISO(), nil
	case ETSI:
		return newETSI(), nil
	case SCTE:
		return newSCTE(), nil
	default:
		return nil, errors.NewNotFoundError("publisher", id.String())
	}
}

// All returns every known publisher.
func All() []*Publisher {
	out := make([]*Publisher, 0, len(IDs()))
	for _, id := range IDs() {
		p, _ := Get(id)
		out = append(out, p)
	}
	return out
}

func newISO() *Publisher {
	return &Publisher{
		ID:   ISO,
		Name: "ISO",
		Parser: &titles.NumberedParser{
			Publisher:   ISO.String(),
			Prefix:      regexp.MustCompile(`^ISO(?:/[A-Z]+)*\s+`),
			NumberLabel: "ISO",
		},
		Identity: identity.Builder{Prefix: "iso", Aliases: identity.AliasNone},
		Vocabulary: NewVocabulary(ISO.String()).
			Current("Published").
			UnderDevelopment("Under development").
			Retired("Withdrawn", "Deleted").
			Superseded("Revised", "Superseded"),
	}
}

func newETSI() *Publisher {
	return &Publisher{
		ID:   ETSI,
		Name: "ETSI",
		Parser: &titles.DatedParser{
			Publisher: ETSI.String(),
			Prefix:    regexp.MustCompile(`^ETSI\s+`),
		},
		Identity: identity.Builder{Prefix: "etsi", Aliases: identity.AliasNone},
		Vocabulary: NewVocabulary(ETSI.String()).
			Current("Published").
			UnderDevelopment("On Approval").
			Retired("Withdrawn").
			Superseded("Historical"),
		Versioned: true,
		RawDate:   true,
	}
}

func newSCTE() *Publisher {
	return &Publisher{
		ID:   SCTE,
		Name: "SCTE",
		Parser: &titles.DatedParser{
			Publisher:   SCTE.String(),
			Prefix:      regexp.MustCompile(`^(?:ANSI/)?SCTE\s+`),
			NumericBase: true,
		},
		Identity: identity.Builder{Prefix: "scte", Aliases: identity.AliasZeroPad},
		Vocabulary: NewVocabulary(SCTE.String()).
			Current("Published", "Active").
			UnderDevelopment("Draft", "In Ballot").
			Retired("Withdrawn", "Rescinded").
			Superseded("Superseded"),
		Versioned: true,
		DedupURLs: true,
		RawDate:   true,
	}
}
