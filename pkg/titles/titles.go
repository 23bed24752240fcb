// Package titles turns free-text catalog titles and standard numbers into
// structured descriptors. Each publisher family has one known grammar:
// NumberedParser covers "ORG/STD 1234-5:2016/Amd 1:2018" style references,
// DatedParser covers "TS 102 034 V2.1.1 (2016-03)" style deliverables.
//
// Parsing is pure. An input that does not match the grammar returns a
// *errors.ParseError; callers treat it as fatal for the catalog because an
// unrecognized format usually means the upstream source changed shape.
package titles

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/specmap/pkg/catalog"
)

// Descriptor is the structured form of a document title.
type Descriptor struct {
	// BaseID is the document family token, e.g. "21000-22".
	BaseID string `json:"base_id" yaml:"base_id"`

	// Addon marks an amendment or corrigendum of a specific base version.
	Addon bool `json:"addon,omitempty" yaml:"addon,omitempty"`

	// Suffix is the raw decoration following the base id (addons only).
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`

	Version   catalog.Version `json:"version" yaml:"version"`
	ISONumber string          `json:"iso_number,omitempty" yaml:"iso_number,omitempty"`
}

// Dated reports whether the title carried a year or date token.
func (d Descriptor) Dated() bool {
	return d.Version.Date != ""
}

// Parser converts a raw title or standard number into a Descriptor.
type Parser interface {
	Parse(input string) (Descriptor, error)
}

// CanonicalSuffix normalizes an addon decoration for embedding in a key:
// lower-cased, spaces removed, ':' and '/' mapped to '-'.
func CanonicalSuffix(suffix string) string {
	s := cases.Lower(language.Und).String(suffix)
	s = strings.Join(strings.Fields(s), "")
	return strings.NewReplacer(":", "-", "/", "-").Replace(s)
}

// compact lower-cases s and removes all whitespace.
func compact(s string) string {
	return strings.Join(strings.Fields(cases.Lower(language.Und).String(s)), "")
}
