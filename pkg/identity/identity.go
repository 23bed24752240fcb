// Package identity derives canonical registry keys and alias keys from
// parsed title descriptors.
package identity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/specmap/pkg/titles"
)

// AliasScheme selects how alternate spellings of a key are derived.
type AliasScheme string

const (
	// AliasNone derives no aliases.
	AliasNone AliasScheme = "none"
	// AliasZeroPad registers the zero-padded (or unpadded) spelling of a
	// single- or two-digit final base id segment.
	AliasZeroPad AliasScheme = "zero-pad"
)

// String returns the scheme name.
func (a AliasScheme) String() string {
	return string(a)
}

// Identity is the derived identity of one document.
type Identity struct {
	BaseID  string
	Key     string
	Aliases []string
}

// Builder derives identities for one publisher.
type Builder struct {
	// Prefix starts every key, e.g. "iso".
	Prefix string

	// Aliases is the alias scheme; the zero value derives none.
	Aliases AliasScheme
}

// Build derives the canonical key and aliases of a descriptor.
// Non-addons key on prefix+baseID; addons embed their canonical suffix.
func (b Builder) Build(d titles.Descriptor) Identity {
	id := Identity{
		BaseID: d.BaseID,
		Key:    b.key(d.BaseID, d),
	}

	if b.Aliases == AliasZeroPad {
		if alt, ok := ZeroPadAlternate(d.BaseID); ok {
			id.Aliases = []string{b.key(alt, d)}
		}
	}

	return id
}

// key assembles a key for the given base id.
func (b Builder) key(baseID string, d titles.Descriptor) string {
	key := b.Prefix + baseID
	if d.Addon {
		if suffix := titles.CanonicalSuffix(d.Suffix); suffix != "" {
			key += "-" + suffix
		}
	}
	return strings.Join(strings.Fields(cases.Lower(language.Und).String(key)), "")
}

// ZeroPadAlternate returns the other historical spelling of a dash-delimited
// base id: a one-digit final segment is zero-padded ("24-2" -> "24-02") and
// a two-digit zero-led one is unpadded ("24-02" -> "24-2"). Base ids with a
// single segment have no alternate.
func ZeroPadAlternate(baseID string) (string, bool) {
	i := strings.LastIndex(baseID, "-")
	if i <= 0 {
		return "", false
	}
	head, last := baseID[:i], baseID[i+1:]

	switch {
	case len(last) == 1 && isDigit(last[0]):
		return head + "-0" + last, true
	case len(last) == 2 && last[0] == '0' && isDigit(last[1]):
		return head + "-" + last[1:], true
	default:
		return "", false
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
