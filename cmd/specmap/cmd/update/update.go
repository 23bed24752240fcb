package update

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"

	"github.com/agentstation/specmap/internal/cmd/application"
	"github.com/agentstation/specmap/internal/config"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
	"github.com/agentstation/specmap/pkg/save"
	"github.com/agentstation/specmap/pkg/sync"
)

// ExecuteUpdate runs one sync and prints its results. The returned error
// joins every failed catalog.
func ExecuteUpdate(ctx context.Context, app application.Application, flags *Flags, stdout, stderr io.Writer) error {
	logger := app.Logger()

	opts, err := BuildSyncOptions(flags)
	if err != nil {
		return err
	}

	sm, err := app.Specmap()
	if err != nil {
		return errors.WrapResource("get", "specmap", "", err)
	}

	logger.Debug().
		Strs("publishers", flags.Publishers).
		Bool("dry_run", flags.DryRun).
		Msg("Starting update")

	result, syncErr := sm.Sync(ctx, opts...)
	if result == nil {
		return syncErr
	}

	if err := printResults(stdout, app.OutputFormat(), result); err != nil {
		return err
	}
	if flags.Diff {
		printPatches(stdout, result)
	}
	fmt.Fprintln(stderr, result.Summary())

	return syncErr
}

// BuildSyncOptions converts flags and configuration into sync options.
// Values come from viper so the config file and environment supply
// defaults for flags that were not set.
func BuildSyncOptions(flags *Flags) ([]sync.Option, error) {
	name, err := config.Format()
	if err != nil {
		return nil, err
	}
	format, err := save.ParseFormat(name)
	if err != nil {
		return nil, err
	}

	ids := make([]publishers.ID, 0, len(flags.Publishers))
	for _, p := range flags.Publishers {
		id, err := publishers.ParseID(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	opts := []sync.Option{
		sync.WithDryRun(flags.DryRun || viper.GetBool("dry_run")),
		sync.WithPatch(flags.Diff),
		sync.WithFormat(format),
		sync.WithOutputDir(stringOr(viper.GetString("output_dir"), flags.OutputDir)),
		sync.WithReportFile(stringOr(viper.GetString("report_file"), flags.Report)),
		sync.WithMetricsFile(stringOr(viper.GetString("metrics_file"), flags.MetricsFile)),
	}
	if len(ids) > 0 {
		opts = append(opts, sync.WithPublishers(ids...))
	}
	if n := viper.GetInt("concurrency"); n > 0 {
		opts = append(opts, sync.WithConcurrency(n))
	} else if flags.Concurrency != 0 {
		opts = append(opts, sync.WithConcurrency(flags.Concurrency))
	}
	if d := viper.GetDuration("timeout"); d > 0 {
		opts = append(opts, sync.WithTimeout(d))
	} else if flags.Timeout != 0 {
		opts = append(opts, sync.WithTimeout(flags.Timeout))
	}

	return opts, nil
}

func stringOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
