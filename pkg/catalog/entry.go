package catalog

import "slices"

// Entry is one reconciled registry record.
type Entry struct {
	// Identity
	Key    string `json:"key" yaml:"key"`         // Canonical key, unique within a registry
	BaseID string `json:"base_id" yaml:"base_id"` // Document family token shared with addons and revisions
	Addon  bool   `json:"addon,omitempty" yaml:"addon,omitempty"`

	// Catalog position of the observation that won reconciliation
	SortIndex int `json:"sort_index" yaml:"sort_index"`

	// Display metadata
	URL       string    `json:"url" yaml:"url"`
	Title     string    `json:"title" yaml:"title"`
	Status    string    `json:"status" yaml:"status"`
	Lifecycle Lifecycle `json:"lifecycle" yaml:"lifecycle"`
	ISONumber string    `json:"iso_number,omitempty" yaml:"iso_number,omitempty"`
	RawDate   string    `json:"raw_date,omitempty" yaml:"raw_date,omitempty"`

	// Precedence only; never serialized into a registry file
	Version Version `json:"-" yaml:"-"`

	// Redirect keys and obsolescence edge
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	ObsoletedBy string   `json:"obsoleted_by,omitempty" yaml:"obsoleted_by,omitempty"`
}

// IsCurrent reports whether the entry is published.
func (e *Entry) IsCurrent() bool {
	return e.Lifecycle.IsCurrent()
}

// IsSuperseded reports whether the entry was replaced by a revision.
func (e *Entry) IsSuperseded() bool {
	return e.Lifecycle == Superseded
}

// IsRetired reports whether the entry was withdrawn.
func (e *Entry) IsRetired() bool {
	return e.Lifecycle == Retired
}

// IsUnderDevelopment reports whether the entry is a draft.
func (e *Entry) IsUnderDevelopment() bool {
	return e.Lifecycle == UnderDevelopment
}

// Equal reports whether two entries describe the same observation,
// ignoring the catalog position and the post-pass obsolescence edge.
func (e *Entry) Equal(other *Entry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Key == other.Key &&
		e.BaseID == other.BaseID &&
		e.Addon == other.Addon &&
		e.URL == other.URL &&
		e.Title == other.Title &&
		e.Status == other.Status &&
		e.Lifecycle == other.Lifecycle &&
		e.ISONumber == other.ISONumber &&
		e.RawDate == other.RawDate &&
		e.Version == other.Version &&
		slices.Equal(e.Aliases, other.Aliases)
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Aliases = slices.Clone(e.Aliases)
	return &c
}
