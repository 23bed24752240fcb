// Package registry assembles reconciled entries into the final ordered
// mapping from canonical key (and alias) to Record, and encodes it with
// stable ordering for JSON and YAML files.
package registry

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/logging"
)

// Item is one key of a registry with its record.
type Item struct {
	Key    string
	Record Record
}

// Registry is an ordered key -> Record mapping. Entries appear in catalog
// order, each followed by its alias redirects.
type Registry struct {
	Publisher string

	items []Item
	index map[string]int
}

// New returns an empty registry.
func New(publisher string) *Registry {
	return &Registry{
		Publisher: publisher,
		index:     make(map[string]int),
	}
}

// Assemble orders entries by sort index and interleaves alias redirects.
// Aliases that collide with a canonical key or an earlier alias are dropped
// with a warning. An obsolescence edge pointing at a missing or non-current
// entry is a validation error.
func Assemble(ctx context.Context, publisher string, entries []*catalog.Entry) (*Registry, error) {
	logger := logging.FromContext(ctx)

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b *catalog.Entry) int {
		return cmp.Or(cmp.Compare(a.SortIndex, b.SortIndex), cmp.Compare(a.Key, b.Key))
	})

	byKey := make(map[string]*catalog.Entry, len(sorted))
	for _, e := range sorted {
		if _, dup := byKey[e.Key]; dup {
			return nil, &errors.ValidationError{
				Field:   "key",
				Value:   e.Key,
				Message: fmt.Sprintf("%s: duplicate canonical key %s", publisher, e.Key),
			}
		}
		byKey[e.Key] = e
	}

	for _, e := range sorted {
		if e.ObsoletedBy == "" {
			continue
		}
		target, ok := byKey[e.ObsoletedBy]
		if !ok || !target.IsCurrent() {
			return nil, &errors.ValidationError{
				Field:   "obsoletedBy",
				Value:   e.ObsoletedBy,
				Message: fmt.Sprintf("%s: %s is obsoleted by %s which is not a current entry", publisher, e.Key, e.ObsoletedBy),
			}
		}
	}

	reg := New(publisher)
	aliasOwners := make(map[string]string)
	for _, e := range sorted {
		reg.add(e.Key, NewRecord(publisher, e))
		for _, alias := range e.Aliases {
			if _, isKey := byKey[alias]; isKey {
				logger.Warn().
					Str("publisher", publisher).
					Str("alias", alias).
					Str("key", e.Key).
					Msg("Dropping alias that collides with a canonical key")
				continue
			}
			if owner, taken := aliasOwners[alias]; taken {
				logger.Warn().
					Str("publisher", publisher).
					Str("alias", alias).
					Str("key", e.Key).
					Str("owner", owner).
					Msg("Dropping alias already registered for another entry")
				continue
			}
			aliasOwners[alias] = e.Key
			reg.add(alias, Alias(e.Key))
		}
	}

	return reg, nil
}

// add appends or overwrites a key.
func (r *Registry) add(key string, rec Record) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.items[i].Record = rec
		return
	}
	r.index[key] = len(r.items)
	r.items = append(r.items, Item{Key: key, Record: rec})
}

// Len returns the number of keys, aliases included.
func (r *Registry) Len() int {
	return len(r.items)
}

// EntryCount returns the number of canonical entries.
func (r *Registry) EntryCount() int {
	n := 0
	for _, it := range r.items {
		if !it.Record.IsAlias() {
			n++
		}
	}
	return n
}

// AliasCount returns the number of alias redirects.
func (r *Registry) AliasCount() int {
	return r.Len() - r.EntryCount()
}

// Items returns all keys in serialization order.
func (r *Registry) Items() []Item {
	return slices.Clone(r.items)
}

// Keys returns all keys in serialization order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.items))
	for i, it := range r.items {
		keys[i] = it.Key
	}
	return keys
}

// Lookup returns the record stored under key without following aliases.
func (r *Registry) Lookup(key string) (Record, bool) {
	i, ok := r.index[key]
	if !ok {
		return Record{}, false
	}
	return r.items[i].Record, true
}

// Resolve returns the canonical key and record for key, following one
// alias redirect.
func (r *Registry) Resolve(key string) (string, Record, error) {
	rec, ok := r.Lookup(key)
	if !ok {
		return "", Record{}, errors.NewNotFoundError("document", key)
	}
	if !rec.IsAlias() {
		return key, rec, nil
	}
	target, ok := r.Lookup(rec.AliasOf)
	if !ok || target.IsAlias() {
		return "", Record{}, errors.NewNotFoundError("document", rec.AliasOf)
	}
	return rec.AliasOf, target, nil
}

// MarshalJSON encodes the registry as an object whose keys keep
// serialization order.
func (r *Registry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, it := range r.items {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(it.Key)
		if err != nil {
			return nil, err
		}
		rec, err := json.Marshal(it.Record)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(rec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a registry object, preserving key order.
func (r *Registry) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return &errors.ValidationError{Field: "registry", Message: "expected a JSON object"}
	}

	r.items = nil
	r.index = make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return &errors.ValidationError{Field: "registry", Message: "expected a string key"}
		}
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		r.add(key, rec)
	}
	_, err = dec.Token()
	return err
}

// MarshalYAML encodes the registry as an ordered mapping.
func (r *Registry) MarshalYAML() (any, error) {
	out := make(yaml.MapSlice, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, yaml.MapItem{Key: it.Key, Value: it.Record})
	}
	return out, nil
}

// UnmarshalYAML decodes an ordered YAML mapping.
func (r *Registry) UnmarshalYAML(unmarshal func(any) error) error {
	var order yaml.MapSlice
	if err := unmarshal(&order); err != nil {
		return err
	}
	records := make(map[string]Record, len(order))
	if err := unmarshal(&records); err != nil {
		return err
	}

	r.items = nil
	r.index = make(map[string]int)
	for _, item := range order {
		key := fmt.Sprint(item.Key)
		r.add(key, records[key])
	}
	return nil
}
