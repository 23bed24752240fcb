// Package differ compares a previously written registry with a newly
// resolved one and renders the difference.
package differ

import (
	"reflect"
	"sort"
	"strings"

	"github.com/agentstation/specmap/pkg/registry"
)

// Differ handles change detection between registries.
type Differ interface {
	// Registries compares two registries keyed by canonical key and alias.
	Registries(existing, updated *registry.Registry) *Changeset

	// Patch renders a line diff between two encoded registry files.
	Patch(existing, updated string) string
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields map[string]bool
	contextLines int
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: make(map[string]bool),
		contextLines: 2,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Registries compares two registries and returns the changes. A nil
// registry is treated as empty.
func (diff *differ) Registries(existing, updated *registry.Registry) *Changeset {
	changeset := &Changeset{
		Added:   []registry.Item{},
		Updated: []RecordUpdate{},
		Removed: []registry.Item{},
	}
	if updated != nil {
		changeset.Publisher = updated.Publisher
	}

	existingItems := items(existing)
	newItems := items(updated)

	existingMap := make(map[string]registry.Record, len(existingItems))
	for _, it := range existingItems {
		existingMap[it.Key] = it.Record
	}
	newMap := make(map[string]registry.Record, len(newItems))
	for _, it := range newItems {
		newMap[it.Key] = it.Record
	}

	// Find added and updated keys
	for _, it := range newItems {
		if old, exists := existingMap[it.Key]; exists {
			if changes := diff.record(old, it.Record); len(changes) > 0 {
				changeset.Updated = append(changeset.Updated, RecordUpdate{
					Key:      it.Key,
					Existing: old,
					New:      it.Record,
					Changes:  changes,
				})
			}
		} else {
			changeset.Added = append(changeset.Added, it)
		}
	}

	// Find removed keys
	for _, it := range existingItems {
		if _, exists := newMap[it.Key]; !exists {
			changeset.Removed = append(changeset.Removed, it)
		}
	}

	sortChangeset(changeset)
	changeset.Summary = calculateSummary(changeset)

	return changeset
}

// record compares two records field by field using their JSON names.
func (diff *differ) record(existing, updated registry.Record) []FieldChange {
	var changes []FieldChange

	ev := reflect.ValueOf(existing)
	nv := reflect.ValueOf(updated)
	t := ev.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if diff.ignoreFields[name] {
			continue
		}
		oldValue := formatValue(ev.Field(i))
		newValue := formatValue(nv.Field(i))
		if oldValue == newValue {
			continue
		}

		changeType := ChangeTypeUpdate
		switch {
		case oldValue == "":
			changeType = ChangeTypeAdd
		case newValue == "":
			changeType = ChangeTypeRemove
		}
		changes = append(changes, FieldChange{
			Path:     name,
			OldValue: oldValue,
			NewValue: newValue,
			Type:     changeType,
		})
	}
	return changes
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return "true"
		}
		return ""
	default:
		return v.String()
	}
}

func items(r *registry.Registry) []registry.Item {
	if r == nil {
		return nil
	}
	return r.Items()
}

func sortChangeset(c *Changeset) {
	sort.Slice(c.Added, func(i, j int) bool { return c.Added[i].Key < c.Added[j].Key })
	sort.Slice(c.Removed, func(i, j int) bool { return c.Removed[i].Key < c.Removed[j].Key })
	sort.Slice(c.Updated, func(i, j int) bool { return c.Updated[i].Key < c.Updated[j].Key })
}
