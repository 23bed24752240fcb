// Package sync provides options and results for a catalog sync run.
package sync

import (
	"fmt"
	"slices"
	"time"

	"github.com/agentstation/specmap/pkg/constants"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
	"github.com/agentstation/specmap/pkg/save"
)

// Options controls the overall sync orchestration in Specmap.Sync().
type Options struct {
	// Orchestration control
	DryRun      bool          // Resolve without touching the output directory
	Timeout     time.Duration // Timeout for the entire sync operation
	Concurrency int           // Catalog pipelines run at once
	RunID       string        // Correlates logs, report and metrics; generated when empty

	// Publisher selection (empty means every configured source)
	Publishers []publishers.ID

	// Output control
	OutputDir   string      // Cleaned and rewritten on every non-dry run
	Format      save.Format // Registry file encoding
	Patch       bool        // Render a textual diff against the previous file
	ReportFile  string      // Markdown run report, skipped when empty
	MetricsFile string      // Prometheus textfile, skipped when empty
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		DryRun:      false,
		Timeout:     constants.SyncTimeout,
		Concurrency: constants.MaxConcurrentCatalogs,
		Publishers:  nil,
		OutputDir:   constants.DefaultOutputDir,
		Format:      save.FormatJSON,
	}
}

// New returns the defaults with opts applied.
func New(opts ...Option) *Options {
	return Defaults().Apply(opts...)
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks the options against the publishers that have a source.
func (s *Options) Validate(available []publishers.ID) error {
	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}

	if s.Concurrency < 1 {
		return &errors.ValidationError{
			Field:   "Concurrency",
			Value:   s.Concurrency,
			Message: "concurrency must be at least 1",
		}
	}

	if !s.Format.IsValid() {
		return &errors.ValidationError{
			Field:   "Format",
			Value:   s.Format,
			Message: "format must be json or yaml",
		}
	}

	if !s.DryRun && s.OutputDir == "" {
		return &errors.ValidationError{
			Field:   "OutputDir",
			Message: "output directory is required unless dry run is set",
		}
	}

	for _, id := range s.Publishers {
		if !slices.Contains(available, id) {
			return &errors.ValidationError{
				Field:   "Publishers",
				Value:   id,
				Message: fmt.Sprintf("no source configured for publisher '%s'", id),
			}
		}
	}

	return nil
}

// Selected returns the publishers to run, in the order given, or every
// available publisher when none were selected.
func (s *Options) Selected(available []publishers.ID) []publishers.ID {
	if len(s.Publishers) == 0 {
		return slices.Clone(available)
	}
	out := make([]publishers.ID, 0, len(s.Publishers))
	for _, id := range s.Publishers {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithTimeout configures the sync timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithConcurrency bounds how many catalogs run at once.
func WithConcurrency(n int) Option {
	return func(opts *Options) {
		opts.Concurrency = n
	}
}

// WithRunID sets the run identifier.
func WithRunID(id string) Option {
	return func(opts *Options) {
		opts.RunID = id
	}
}

// WithPublishers restricts the run to the given publishers.
func WithPublishers(ids ...publishers.ID) Option {
	return func(opts *Options) {
		opts.Publishers = ids
	}
}

// WithOutputDir configures the output directory.
func WithOutputDir(dir string) Option {
	return func(opts *Options) {
		opts.OutputDir = dir
	}
}

// WithFormat configures the registry file format.
func WithFormat(f save.Format) Option {
	return func(opts *Options) {
		opts.Format = f
	}
}

// WithPatch renders a textual diff for each catalog.
func WithPatch(enabled bool) Option {
	return func(opts *Options) {
		opts.Patch = enabled
	}
}

// WithReportFile writes a Markdown report after the run.
func WithReportFile(path string) Option {
	return func(opts *Options) {
		opts.ReportFile = path
	}
}

// WithMetricsFile writes Prometheus metrics after the run.
func WithMetricsFile(path string) Option {
	return func(opts *Options) {
		opts.MetricsFile = path
	}
}
