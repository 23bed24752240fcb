package titles

import (
	"regexp"
	"strings"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
)

var (
	// baseIDPattern is the leading run of digits and dashes.
	baseIDPattern = regexp.MustCompile(`\d+(?:-\d+)*`)

	// yearPattern is the year of a colon-delimited "id:year" token.
	yearPattern = regexp.MustCompile(`^:(\d{4})\b`)
)

// NumberedParser parses references made of an organizational prefix, a
// numeric base id and an optional ":year", where addons append a
// "/Amd n:year" style decoration.
type NumberedParser struct {
	// Publisher names the catalog in errors.
	Publisher string

	// Prefix matches the organizational prefix to strip, e.g. "ISO/IEC ".
	Prefix *regexp.Regexp

	// NumberLabel starts the fully qualified number, e.g. "ISO".
	NumberLabel string
}

// Parse implements Parser.
func (p *NumberedParser) Parse(input string) (Descriptor, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Descriptor{}, errors.NewParseError(p.Publisher, input, "empty reference")
	}

	stripped := raw
	if p.Prefix != nil {
		if loc := p.Prefix.FindStringIndex(raw); loc != nil && loc[0] == 0 {
			stripped = raw[loc[1]:]
		}
	}

	loc := baseIDPattern.FindStringIndex(stripped)
	if loc == nil {
		return Descriptor{}, errors.NewParseError(p.Publisher, input, "no numeric document id")
	}

	d := Descriptor{
		BaseID: stripped[loc[0]:loc[1]],
		Addon:  strings.Contains(stripped, "/"),
	}

	rest := stripped[loc[1]:]
	if m := yearPattern.FindStringSubmatch(rest); m != nil {
		d.Version = catalog.Version{Date: m[1]}
		if !d.Addon && p.NumberLabel != "" {
			d.ISONumber = p.NumberLabel + " " + d.BaseID + ":" + m[1]
		}
	}

	if d.Addon {
		d.Suffix = strings.TrimLeft(rest, ":/ ")
		if CanonicalSuffix(d.Suffix) == "" {
			return Descriptor{}, errors.NewParseError(p.Publisher, input, "addon without a decoration after the base id")
		}
	}

	return d, nil
}
