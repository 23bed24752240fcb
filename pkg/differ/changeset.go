package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/specmap/pkg/registry"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a field gained a value.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a field value changed.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates a field lost its value.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific record field.
type FieldChange struct {
	Path     string     // Serialized field name (e.g., "status")
	OldValue string     // Previous value
	NewValue string     // New value
	Type     ChangeType // Type of change
}

// RecordUpdate represents an update to an existing key.
type RecordUpdate struct {
	Key      string
	Existing registry.Record
	New      registry.Record
	Changes  []FieldChange
}

// Changeset represents the changes between two registries.
type Changeset struct {
	Publisher string
	Added     []registry.Item
	Updated   []RecordUpdate
	Removed   []registry.Item
	Summary   ChangesetSummary
}

// ChangesetSummary provides counts of the changes.
type ChangesetSummary struct {
	Added        int `json:"added" yaml:"added"`
	Updated      int `json:"updated" yaml:"updated"`
	Removed      int `json:"removed" yaml:"removed"`
	TotalChanges int `json:"total_changes" yaml:"total_changes"`
	// Entries whose obsoletedBy changed, a signal that a new edition landed
	Superseded int `json:"superseded" yaml:"superseded"`
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return !c.HasChanges()
}

func calculateSummary(c *Changeset) ChangesetSummary {
	s := ChangesetSummary{
		Added:   len(c.Added),
		Updated: len(c.Updated),
		Removed: len(c.Removed),
	}
	s.TotalChanges = s.Added + s.Updated + s.Removed
	for _, u := range c.Updated {
		for _, fc := range u.Changes {
			if fc.Path == "obsoletedBy" {
				s.Superseded++
				break
			}
		}
	}
	return s
}

// String returns a one-line summary.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "no changes"
	}
	return fmt.Sprintf("%d added, %d updated, %d removed", c.Summary.Added, c.Summary.Updated, c.Summary.Removed)
}

// Print writes a human-readable listing of the changes.
func (c *Changeset) Print(w io.Writer) {
	if c.IsEmpty() {
		_, _ = fmt.Fprintln(w, "No changes detected")
		return
	}

	header := "Changes"
	if c.Publisher != "" {
		header = c.Publisher + " changes"
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", header, c.String())

	for _, it := range c.Added {
		_, _ = fmt.Fprintf(w, "  + %s%s\n", it.Key, describe(it.Record))
	}
	for _, u := range c.Updated {
		parts := make([]string, 0, len(u.Changes))
		for _, fc := range u.Changes {
			parts = append(parts, fmt.Sprintf("%s: %q -> %q", fc.Path, fc.OldValue, fc.NewValue))
		}
		_, _ = fmt.Fprintf(w, "  ~ %s (%s)\n", u.Key, strings.Join(parts, ", "))
	}
	for _, it := range c.Removed {
		_, _ = fmt.Fprintf(w, "  - %s%s\n", it.Key, describe(it.Record))
	}
}

func describe(r registry.Record) string {
	if r.IsAlias() {
		return " -> " + r.AliasOf
	}
	if r.Title != "" {
		return " " + r.Title
	}
	return ""
}
