package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/specmap/internal/report"
	"github.com/agentstation/specmap/pkg/differ"
	"github.com/agentstation/specmap/pkg/engine"
	"github.com/agentstation/specmap/pkg/publishers"
)

// Result represents the complete result of a sync run.
type Result struct {
	RunID     string
	Started   time.Time
	Duration  time.Duration
	DryRun    bool   // Whether this was a dry run
	OutputDir string // Where files were written
	Catalogs  []*CatalogResult
}

// CatalogResult is the outcome of one publisher pipeline.
type CatalogResult struct {
	Publisher publishers.ID
	Resolved  *engine.Result    // nil when the pipeline failed
	File      string            // Written file, empty on dry run or failure
	Uploaded  string            // Object key, when publishing is configured
	Previous  string            // Baseline file the changeset was computed from
	Changeset *differ.Changeset // nil when no baseline exists
	Patch     string            // Textual diff, when requested
	Err       error
}

// Failed reports whether the pipeline failed.
func (c *CatalogResult) Failed() bool {
	return c.Err != nil
}

// Entries returns the canonical entry count.
func (c *CatalogResult) Entries() int {
	if c.Resolved == nil {
		return 0
	}
	return c.Resolved.Registry.EntryCount()
}

// Aliases returns the alias redirect count.
func (c *CatalogResult) Aliases() int {
	if c.Resolved == nil {
		return 0
	}
	return c.Resolved.Registry.AliasCount()
}

// Catalog returns the result for a publisher.
func (r *Result) Catalog(id publishers.ID) (*CatalogResult, bool) {
	for _, c := range r.Catalogs {
		if c.Publisher == id {
			return c, true
		}
	}
	return nil, false
}

// Failed returns the failed catalogs.
func (r *Result) Failed() []*CatalogResult {
	var out []*CatalogResult
	for _, c := range r.Catalogs {
		if c.Failed() {
			out = append(out, c)
		}
	}
	return out
}

// Files returns every file written, in catalog order.
func (r *Result) Files() []string {
	var files []string
	for _, c := range r.Catalogs {
		if c.File != "" {
			files = append(files, c.File)
		}
	}
	return files
}

// HasChanges returns true if any catalog differs from its baseline.
func (r *Result) HasChanges() bool {
	for _, c := range r.Catalogs {
		if c.Changeset != nil && c.Changeset.HasChanges() {
			return true
		}
	}
	return false
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	var parts []string
	if r.DryRun {
		parts = append(parts, "(Dry run)")
	}
	ok := len(r.Catalogs) - len(r.Failed())
	parts = append(parts, fmt.Sprintf("%d of %d catalogs resolved", ok, len(r.Catalogs)))

	entries := 0
	for _, c := range r.Catalogs {
		entries += c.Entries()
	}
	parts = append(parts, fmt.Sprintf("%d entries", entries))
	if failed := r.Failed(); len(failed) > 0 {
		ids := make([]string, len(failed))
		for i, c := range failed {
			ids[i] = c.Publisher.String()
		}
		parts = append(parts, "failed: "+strings.Join(ids, ", "))
	}
	return strings.Join(parts, ", ")
}

// Report converts the result for the Markdown report.
func (r *Result) Report() report.Summary {
	s := report.Summary{
		RunID:    r.RunID,
		Started:  r.Started,
		Duration: r.Duration,
		DryRun:   r.DryRun,
	}
	for _, c := range r.Catalogs {
		rc := report.Catalog{
			Publisher: c.Publisher.String(),
			Entries:   c.Entries(),
			Aliases:   c.Aliases(),
			File:      c.File,
			Err:       c.Err,
			Changes:   c.Changeset,
		}
		if c.Resolved != nil {
			rc.Stats = c.Resolved.Stats
		}
		s.Catalogs = append(s.Catalogs, rc)
	}
	return s
}
