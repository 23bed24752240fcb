// Package report renders a Markdown summary of a sync run.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/specmap/pkg/constants"
	"github.com/agentstation/specmap/pkg/differ"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/reconciler"
)

// Summary describes one run.
type Summary struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	DryRun   bool
	Catalogs []Catalog
}

// Catalog is the outcome of one publisher pipeline.
type Catalog struct {
	Publisher string
	Entries   int
	Aliases   int
	Stats     reconciler.Stats
	File      string
	Err       error
	Changes   *differ.Changeset
}

// Failed reports whether the catalog pipeline failed.
func (c Catalog) Failed() bool {
	return c.Err != nil
}

// Failures counts failed catalogs.
func (s Summary) Failures() int {
	n := 0
	for _, c := range s.Catalogs {
		if c.Failed() {
			n++
		}
	}
	return n
}

// Render writes the report to w.
func Render(w io.Writer, s Summary) error {
	doc := md.NewMarkdown(w)

	doc.H1("specmap run report").LF()
	doc.PlainTextf("Run %s started %s and took %s.",
		md.Code(s.RunID), s.Started.Format(constants.TimeFormatHuman), s.Duration.Round(time.Millisecond)).LF()
	if s.DryRun {
		doc.PlainText(md.Bold("Dry run:") + " no files were written.").LF()
	}
	doc.LF()

	rows := make([][]string, 0, len(s.Catalogs))
	for _, c := range s.Catalogs {
		status := "ok"
		if c.Failed() {
			status = "failed"
		}
		rows = append(rows, []string{
			c.Publisher,
			status,
			strconv.Itoa(c.Entries),
			strconv.Itoa(c.Aliases),
			strconv.Itoa(c.Stats.Kept),
			strconv.Itoa(c.Stats.DuplicateURLs),
			changes(c.Changes),
			c.File,
		})
	}
	doc.H2("Catalogs").LF()
	doc.Table(md.TableSet{
		Header: []string{"Publisher", "Status", "Entries", "Aliases", "Precedence skips", "Duplicate URLs", "Changes", "File"},
		Rows:   rows,
	}).LF()

	if s.Failures() > 0 {
		doc.H2("Failures").LF()
		items := make([]string, 0, s.Failures())
		for _, c := range s.Catalogs {
			if c.Failed() {
				items = append(items, fmt.Sprintf("%s: %s", md.Bold(c.Publisher), c.Err))
			}
		}
		doc.BulletList(items...).LF()
	}

	for _, c := range s.Catalogs {
		if c.Changes == nil || c.Changes.IsEmpty() {
			continue
		}
		doc.H2(c.Publisher + " changes").LF()
		doc.BulletList(changeItems(c.Changes)...).LF()
	}

	return doc.Build()
}

// WriteFile renders the report to path.
func WriteFile(path string, s Summary) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := Render(f, s); err != nil {
		_ = f.Close()
		return errors.WrapResource("render", "report", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func changes(c *differ.Changeset) string {
	if c == nil {
		return "n/a"
	}
	return fmt.Sprintf("+%d ~%d -%d", c.Summary.Added, c.Summary.Updated, c.Summary.Removed)
}

func changeItems(c *differ.Changeset) []string {
	items := make([]string, 0, c.Summary.TotalChanges)
	for _, it := range c.Added {
		items = append(items, "added "+md.Code(it.Key))
	}
	for _, u := range c.Updated {
		fields := ""
		for i, fc := range u.Changes {
			if i > 0 {
				fields += ", "
			}
			fields += fc.Path
		}
		items = append(items, fmt.Sprintf("updated %s (%s)", md.Code(u.Key), fields))
	}
	for _, it := range c.Removed {
		items = append(items, "removed "+md.Code(it.Key))
	}
	return items
}
