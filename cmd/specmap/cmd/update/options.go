package update

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/specmap/pkg/constants"
)

// Flags holds the update command flags.
type Flags struct {
	Publishers  []string
	OutputDir   string
	Format      string
	Concurrency int
	Timeout     time.Duration
	DryRun      bool
	Diff        bool
	Report      string
	MetricsFile string
}

// addUpdateFlags registers the update flags and binds the persistent
// settings to their configuration keys.
func addUpdateFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().StringSliceVarP(&flags.Publishers, "publishers", "p", nil, "publishers to update (default: all configured)")
	cmd.Flags().StringVarP(&flags.OutputDir, "output-dir", "d", constants.DefaultOutputDir, "directory the registries are written to")
	cmd.Flags().StringVar(&flags.Format, "format", constants.DefaultFormat, "registry file format: json, yaml")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", constants.MaxConcurrentCatalogs, "catalogs resolved at once")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", constants.SyncTimeout, "timeout for the whole run")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "resolve and compare without writing")
	cmd.Flags().BoolVar(&flags.Diff, "diff", false, "print a diff against the previous registries")
	cmd.Flags().StringVar(&flags.Report, "report", "", "write a Markdown run report to this file")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	for key, name := range map[string]string{
		"output_dir":   "output-dir",
		"format":       "format",
		"concurrency":  "concurrency",
		"timeout":      "timeout",
		"report_file":  "report",
		"dry_run":      "dry-run",
		"metrics_file": "metrics-file",
	} {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(name))
	}

	return flags
}
