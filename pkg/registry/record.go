package registry

import (
	"github.com/agentstation/specmap/pkg/catalog"
)

// Record is the flat object a registry file maps each key to. Empty fields
// are omitted; an alias record carries only AliasOf.
type Record struct {
	Href         string `json:"href,omitempty" yaml:"href,omitempty"`
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	Status       string `json:"status,omitempty" yaml:"status,omitempty"`
	Publisher    string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	ISONumber    string `json:"isoNumber,omitempty" yaml:"isoNumber,omitempty"`
	IsRetired    bool   `json:"isRetired,omitempty" yaml:"isRetired,omitempty"`
	IsSuperseded bool   `json:"isSuperseded,omitempty" yaml:"isSuperseded,omitempty"`
	ObsoletedBy  string `json:"obsoletedBy,omitempty" yaml:"obsoletedBy,omitempty"`
	RawDate      string `json:"rawDate,omitempty" yaml:"rawDate,omitempty"`
	AliasOf      string `json:"aliasOf,omitempty" yaml:"aliasOf,omitempty"`
}

// IsAlias reports whether the record is a redirect.
func (r Record) IsAlias() bool {
	return r.AliasOf != ""
}

// NewRecord converts a reconciled entry into its serialized form.
func NewRecord(publisher string, e *catalog.Entry) Record {
	return Record{
		Href:         e.URL,
		Title:        e.Title,
		Status:       e.Status,
		Publisher:    publisher,
		ISONumber:    e.ISONumber,
		IsRetired:    e.IsRetired(),
		IsSuperseded: e.IsSuperseded(),
		ObsoletedBy:  e.ObsoletedBy,
		RawDate:      e.RawDate,
	}
}

// Alias returns the redirect record for key.
func Alias(key string) Record {
	return Record{AliasOf: key}
}
