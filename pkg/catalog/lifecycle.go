package catalog

import (
	"fmt"
	"strings"
)

// Lifecycle is the mutually exclusive lifecycle state of a document.
// Published is the only current state; the other three rank equally below it.
type Lifecycle int

const (
	// Published documents are current.
	Published Lifecycle = iota
	// Superseded documents were replaced by a revision.
	Superseded
	// Retired documents were withdrawn without necessarily having a successor.
	Retired
	// UnderDevelopment documents are drafts awaiting approval.
	UnderDevelopment
)

// lifecycleNames maps lifecycles to their canonical status labels.
var lifecycleNames = map[Lifecycle]string{
	Published:        "Published",
	Superseded:       "Superseded",
	Retired:          "Retired",
	UnderDevelopment: "Under development",
}

// String returns the canonical status label of the lifecycle.
func (l Lifecycle) String() string {
	if name, ok := lifecycleNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Lifecycle(%d)", int(l))
}

// IsCurrent reports whether the lifecycle is the current (published) state.
func (l Lifecycle) IsCurrent() bool {
	return l == Published
}

// Rank orders lifecycles for precedence: current outranks everything else
// and all non-current states share one rank.
func (l Lifecycle) Rank() int {
	if l.IsCurrent() {
		return 1
	}
	return 0
}

// Valid reports whether l is one of the defined lifecycles.
func (l Lifecycle) Valid() bool {
	_, ok := lifecycleNames[l]
	return ok
}

// ParseLifecycle parses a canonical lifecycle label, case-insensitively.
func ParseLifecycle(s string) (Lifecycle, error) {
	for l, name := range lifecycleNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return l, nil
		}
	}
	return Published, fmt.Errorf("unknown lifecycle %q", s)
}

// Status is a publisher-specific status label paired with its lifecycle.
type Status struct {
	Label     string
	Lifecycle Lifecycle
}

// String returns the status label, falling back to the lifecycle name.
func (s Status) String() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Lifecycle.String()
}

// MarshalText encodes the lifecycle as its canonical label.
func (l Lifecycle) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid lifecycle %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes a canonical lifecycle label.
func (l *Lifecycle) UnmarshalText(text []byte) error {
	parsed, err := ParseLifecycle(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
