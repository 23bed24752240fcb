package update

import (
	"fmt"
	"io"
	"strconv"

	"github.com/agentstation/specmap/internal/cmd/output"
	"github.com/agentstation/specmap/pkg/sync"
)

// catalogSummary is the structured form of one catalog result.
type catalogSummary struct {
	Publisher string `json:"publisher" yaml:"publisher"`
	Entries   int    `json:"entries" yaml:"entries"`
	Aliases   int    `json:"aliases" yaml:"aliases"`
	Added     int    `json:"added" yaml:"added"`
	Updated   int    `json:"updated" yaml:"updated"`
	Removed   int    `json:"removed" yaml:"removed"`
	File      string `json:"file,omitempty" yaml:"file,omitempty"`
	Uploaded  string `json:"uploaded,omitempty" yaml:"uploaded,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// runSummary is the structured form of a sync result.
type runSummary struct {
	RunID    string           `json:"run_id" yaml:"run_id"`
	DryRun   bool             `json:"dry_run" yaml:"dry_run"`
	Duration string           `json:"duration" yaml:"duration"`
	Catalogs []catalogSummary `json:"catalogs" yaml:"catalogs"`
}

func summarize(result *sync.Result) runSummary {
	s := runSummary{
		RunID:    result.RunID,
		DryRun:   result.DryRun,
		Duration: result.Duration.String(),
	}
	for _, c := range result.Catalogs {
		cs := catalogSummary{
			Publisher: c.Publisher.String(),
			Entries:   c.Entries(),
			Aliases:   c.Aliases(),
			File:      c.File,
			Uploaded:  c.Uploaded,
		}
		if c.Changeset != nil {
			cs.Added = c.Changeset.Summary.Added
			cs.Updated = c.Changeset.Summary.Updated
			cs.Removed = c.Changeset.Summary.Removed
		}
		if c.Err != nil {
			cs.Error = c.Err.Error()
		}
		s.Catalogs = append(s.Catalogs, cs)
	}
	return s
}

// printResults writes the per-catalog results in the display format.
func printResults(w io.Writer, format string, result *sync.Result) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	if f == "" {
		f = output.DetectFormat("")
	}

	s := summarize(result)
	data := output.Data{
		Headers:         []string{"Publisher", "Entries", "Aliases", "Added", "Updated", "Removed", "File", "Error"},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight, output.AlignRight, output.AlignLeft, output.AlignLeft},
	}
	for _, c := range s.Catalogs {
		data.Rows = append(data.Rows, []string{
			c.Publisher,
			strconv.Itoa(c.Entries),
			strconv.Itoa(c.Aliases),
			strconv.Itoa(c.Added),
			strconv.Itoa(c.Updated),
			strconv.Itoa(c.Removed),
			c.File,
			c.Error,
		})
	}
	return output.Write(w, f, data, s)
}

// printPatches writes each catalog's diff against its previous registry.
func printPatches(w io.Writer, result *sync.Result) {
	for _, c := range result.Catalogs {
		if c.Failed() {
			continue
		}
		if c.Patch == "" {
			fmt.Fprintf(w, "\n%s: no changes\n", c.Publisher)
			continue
		}
		fmt.Fprintf(w, "\n--- %s\n+++ %s\n%s", c.Previous, c.Publisher, c.Patch)
	}
}
