package titles

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
)

var (
	// datedPattern separates a base name, an optional "V"/"ed." version tag
	// and a bare or parenthesized year or year-month.
	datedPattern = regexp.MustCompile(
		`^(?P<base>.+?)(?:\s+(?:V|ed\.\s*)(?P<version>\d+(?:\.\d+)*))?(?:\s+\(?(?P<date>\d{4}(?:-\d{2})?)\)?)?$`)

	// baseNamePattern restricts base names to identifier characters.
	baseNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ./-]*$`)

	digitPattern = regexp.MustCompile(`\d`)

	// numericBasePattern is the document id of publishers that number their
	// deliverables without a letter series ("35", "24-02").
	numericBasePattern = regexp.MustCompile(`^\d+(?:-\d+)*`)

	// numericRestPattern is everything allowed after a numeric id: an addon
	// decoration, a version tag and a year with an optional revision mark.
	numericRestPattern = regexp.MustCompile(
		`^(?:/(?P<tail>[A-Za-z0-9][A-Za-z0-9.-]*))?(?:\s+(?:V|ed\.\s*)(?P<version>\d+(?:\.\d+)*))?(?:\s+\(?(?P<date>\d{4}(?:-\d{2})?)(?P<rev>r\d+|[a-z])?\)?)?$`)
)

// DatedParser parses deliverables identified by a base name followed by a
// version tag and a date, e.g. "TS 102 034 V2.1.1 (2016-03)" or "24-02 2016".
// A "/" in the base name marks an addon of the document before it.
type DatedParser struct {
	// Publisher names the catalog in errors.
	Publisher string

	// Prefix matches the organizational prefix to strip, e.g. "ETSI ".
	Prefix *regexp.Regexp

	// NumericBase requires the document id to be digits and dashes only.
	// Text after the id must then be a version tag or a year, optionally
	// revised ("2019r1", "2019a").
	NumericBase bool
}

// Parse implements Parser.
func (p *DatedParser) Parse(input string) (Descriptor, error) {
	raw := strings.Join(strings.Fields(input), " ")
	if raw == "" {
		return Descriptor{}, errors.NewParseError(p.Publisher, input, "empty reference")
	}

	if p.Prefix != nil {
		if loc := p.Prefix.FindStringIndex(raw); loc != nil && loc[0] == 0 {
			raw = raw[loc[1]:]
		}
	}

	if p.NumericBase {
		return p.parseNumeric(input, raw)
	}

	m := datedPattern.FindStringSubmatch(raw)
	if m == nil {
		return Descriptor{}, errors.NewParseError(p.Publisher, input, "does not match the dated grammar")
	}
	base := m[datedPattern.SubexpIndex("base")]
	number := m[datedPattern.SubexpIndex("version")]
	date := m[datedPattern.SubexpIndex("date")]

	if !baseNamePattern.MatchString(base) {
		return Descriptor{}, errors.NewParseError(p.Publisher, input, "unexpected characters in document name")
	}
	if !digitPattern.MatchString(base) {
		return Descriptor{}, errors.NewParseError(p.Publisher, input, "no numeric document id")
	}

	d := Descriptor{
		Version: catalog.Version{
			Number: catalog.NormalizeVersion(number),
			Date:   date,
		},
	}

	head, tail, addon := strings.Cut(base, "/")
	d.BaseID = compact(head)
	if d.BaseID == "" || !digitPattern.MatchString(d.BaseID) {
		return Descriptor{}, errors.NewParseError(p.Publisher, input, "no numeric document id")
	}

	if addon {
		if err := p.markAddon(&d, input, tail, number, date); err != nil {
			return Descriptor{}, err
		}
	}

	return d, nil
}

func (p *DatedParser) parseNumeric(input, raw string) (Descriptor, error) {
	base := numericBasePattern.FindString(raw)
	if base == "" {
		return Descriptor{}, errors.NewParseError(p.Publisher, input, "no numeric document id")
	}

	m := numericRestPattern.FindStringSubmatch(raw[len(base):])
	if m == nil {
		return Descriptor{}, errors.NewParseError(p.Publisher, input, "unexpected text after document id "+base)
	}
	tail := m[numericRestPattern.SubexpIndex("tail")]
	number := m[numericRestPattern.SubexpIndex("version")]
	date := m[numericRestPattern.SubexpIndex("date")]
	rev := m[numericRestPattern.SubexpIndex("rev")]

	d := Descriptor{
		BaseID: base,
		Version: catalog.Version{
			Number:   catalog.NormalizeVersion(number),
			Date:     date,
			Revision: revision(rev),
		},
	}

	if strings.HasPrefix(raw[len(base):], "/") {
		if err := p.markAddon(&d, input, tail, number, date+rev); err != nil {
			return Descriptor{}, err
		}
	}

	return d, nil
}

// markAddon marks d as an addon and builds its suffix from the decoration
// and version pieces.
func (p *DatedParser) markAddon(d *Descriptor, input, tail, number, date string) error {
	d.Addon = true
	var pieces []string
	for _, piece := range []string{tail, number, date} {
		if piece = strings.TrimSpace(piece); piece != "" {
			pieces = append(pieces, piece)
		}
	}
	d.Suffix = strings.Join(pieces, ":")
	if CanonicalSuffix(tail) == "" {
		return errors.NewParseError(p.Publisher, input, "addon without a decoration after the base id")
	}
	return nil
}

// revision maps "r2" to 2 and a letter mark to its position ("a" is 1).
func revision(mark string) int {
	switch {
	case mark == "":
		return 0
	case mark[0] == 'r':
		n, _ := strconv.Atoi(mark[1:])
		return n
	default:
		return int(mark[0]-'a') + 1
	}
}
