package publishers

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/titles"
)

// Vocabulary maps a publisher's status labels onto lifecycles. Labels are
// matched case-insensitively with whitespace collapsed.
type Vocabulary struct {
	publisher string
	labels    map[string]catalog.Status
	defaults  map[catalog.Lifecycle]string
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary(publisher string) *Vocabulary {
	return &Vocabulary{
		publisher: publisher,
		labels:    make(map[string]catalog.Status),
		defaults:  make(map[catalog.Lifecycle]string),
	}
}

// Current registers labels of published documents.
func (v *Vocabulary) Current(labels ...string) *Vocabulary {
	return v.add(catalog.Published, labels)
}

// UnderDevelopment registers labels of drafts.
func (v *Vocabulary) UnderDevelopment(labels ...string) *Vocabulary {
	return v.add(catalog.UnderDevelopment, labels)
}

// Retired registers labels of withdrawn documents.
func (v *Vocabulary) Retired(labels ...string) *Vocabulary {
	return v.add(catalog.Retired, labels)
}

// Superseded registers labels of replaced documents.
func (v *Vocabulary) Superseded(labels ...string) *Vocabulary {
	return v.add(catalog.Superseded, labels)
}

// add registers labels; the first label of a lifecycle is its default.
func (v *Vocabulary) add(l catalog.Lifecycle, labels []string) *Vocabulary {
	for _, label := range labels {
		v.labels[fold(label)] = catalog.Status{Label: label, Lifecycle: l}
		if _, ok := v.defaults[l]; !ok {
			v.defaults[l] = label
		}
	}
	return v
}

// Labels returns the registered labels of a lifecycle.
func (v *Vocabulary) Labels(l catalog.Lifecycle) []string {
	var out []string
	for _, s := range v.labels {
		if s.Lifecycle == l {
			out = append(out, s.Label)
		}
	}
	return out
}

// Status resolves a catalog label. An empty label falls back on the title:
// dated titles are published, undated ones are still in development.
func (v *Vocabulary) Status(label string, d titles.Descriptor) (catalog.Status, error) {
	if strings.TrimSpace(label) == "" {
		l := catalog.UnderDevelopment
		if d.Dated() {
			l = catalog.Published
		}
		return v.Default(l), nil
	}

	s, ok := v.labels[fold(label)]
	if !ok {
		return catalog.Status{}, &errors.ParseError{
			Publisher: v.publisher,
			Input:     label,
			Field:     "status",
			Message:   "unknown status label",
		}
	}
	return s, nil
}

// Default returns the preferred label of a lifecycle.
func (v *Vocabulary) Default(l catalog.Lifecycle) catalog.Status {
	label, ok := v.defaults[l]
	if !ok {
		label = l.String()
	}
	return catalog.Status{Label: label, Lifecycle: l}
}

func fold(label string) string {
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}
