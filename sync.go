package specmap

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/specmap/internal/report"
	"github.com/agentstation/specmap/pkg/constants"
	"github.com/agentstation/specmap/pkg/differ"
	"github.com/agentstation/specmap/pkg/engine"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/logging"
	"github.com/agentstation/specmap/pkg/publishers"
	"github.com/agentstation/specmap/pkg/registry"
	"github.com/agentstation/specmap/pkg/save"
	"github.com/agentstation/specmap/pkg/sync"
)

// SyncOption configures a sync run.
type SyncOption = sync.Option

// Result is the outcome of a sync run.
type Result = sync.Result

// CatalogResult is the outcome of one catalog within a run.
type CatalogResult = sync.CatalogResult

// Sync fetches and resolves every selected catalog concurrently, then
// rewrites the output directory with the catalogs that resolved. Files of
// publishers outside a restricted selection are kept. A failed
// catalog writes nothing and never aborts the others; all failures are
// joined into the returned error alongside a complete Result.
func (s *specmap) Sync(ctx context.Context, opts ...SyncOption) (*Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Parse and validate options
	options := sync.New(opts...)
	if err := options.Validate(s.sources.IDs()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Step 2: Attach the run id to every log line
	if options.RunID == "" {
		options.RunID = uuid.NewString()
	}
	ctx = logging.WithRunID(ctx, options.RunID)
	logger := logging.FromContext(ctx)

	// Step 3: Setup context with timeout
	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
	} else {
		cancel = func() {} // No-op cancel if no timeout
	}
	defer cancel()

	result := &Result{
		RunID:     options.RunID,
		Started:   time.Now(),
		DryRun:    options.DryRun,
		OutputDir: options.OutputDir,
	}
	ids := options.Selected(s.sources.IDs())
	for _, id := range ids {
		result.Catalogs = append(result.Catalogs, &CatalogResult{Publisher: id})
	}

	// Step 4: Load baselines before the output directory is cleaned
	baselines := make([]*registry.Registry, len(ids))
	if options.OutputDir != "" {
		for i, c := range result.Catalogs {
			prev, path, err := save.Previous(options.OutputDir, c.Publisher.String())
			switch {
			case err == nil:
				baselines[i] = prev
				c.Previous = path
			case errors.IsNotFound(err):
				logger.Debug().Str("publisher", c.Publisher.String()).Msg("No previous registry, skipping changeset")
			default:
				logger.Warn().Err(err).Str("file", path).Msg("Could not load previous registry")
			}
		}
	}

	// Step 5: Run each catalog pipeline; failures stay in their slot
	g := new(errgroup.Group)
	g.SetLimit(options.Concurrency)
	for _, c := range result.Catalogs {
		g.Go(func() error {
			c.Resolved, c.Err = s.resolve(ctx, c.Publisher)
			return nil
		})
	}
	_ = g.Wait()

	// Step 6: Compare against baselines
	d := differ.New()
	for i, c := range result.Catalogs {
		if c.Failed() || baselines[i] == nil {
			continue
		}
		c.Changeset = d.Registries(baselines[i], c.Resolved.Registry)
		logger.Info().
			Str("publisher", c.Publisher.String()).
			Int("added", c.Changeset.Summary.Added).
			Int("updated", c.Changeset.Summary.Updated).
			Int("removed", c.Changeset.Summary.Removed).
			Msg("Changes detected")
		if options.Patch {
			c.Patch = patch(d, baselines[i], c.Resolved.Registry, options.Format)
		}
	}

	// Step 7: Apply changes if not dry run
	if options.DryRun {
		logger.Info().Bool("dry_run", true).Msg("Dry run completed - no files written")
	} else if len(result.Failed()) < len(result.Catalogs) {
		if err := s.prepare(options, result.Catalogs); err != nil {
			return nil, err
		}
		s.write(ctx, result.Catalogs, options)
		s.upload(ctx, result.Catalogs)
	}

	result.Duration = time.Since(result.Started)

	// Step 8: Record the run
	s.record(ctx, result, options)
	s.hooks.trigger(result.Catalogs)

	var errs []error
	for _, c := range result.Catalogs {
		if c.Failed() {
			errs = append(errs, c.Err)
		}
	}

	logger.Info().
		Int("catalogs", len(result.Catalogs)).
		Int("failed", len(errs)).
		Dur("duration", result.Duration).
		Msg("Sync completed")

	return result, errors.Join(errs...)
}

// ============================================================================
// Helper Methods for Sync
// ============================================================================

// resolve fetches one catalog and runs it through the engine.
func (s *specmap) resolve(ctx context.Context, id publishers.ID) (*engine.Result, error) {
	logger := logging.FromContext(ctx)

	src, ok := s.sources.Get(id)
	if !ok {
		return nil, errors.WrapCatalog(id.String(), "fetch", errors.NewNotFoundError("source", id.String()))
	}
	pub, err := publishers.Get(id)
	if err != nil {
		return nil, errors.WrapCatalog(id.String(), "resolve", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, constants.CatalogFetchTimeout)
	items, err := src.Fetch(fetchCtx)
	cancel()
	if err != nil {
		logger.Error().Err(err).Str("publisher", id.String()).Str("url", src.URL()).Msg("Catalog fetch failed")
		return nil, errors.WrapCatalog(id.String(), "fetch", err)
	}

	res, err := engine.Resolve(ctx, pub, items)
	if err != nil {
		logger.Error().Err(err).Str("publisher", id.String()).Msg("Catalog resolution failed")
		return nil, errors.WrapCatalog(id.String(), "resolve", err)
	}
	return res, nil
}

// write persists every resolved catalog.
func (s *specmap) write(ctx context.Context, catalogs []*CatalogResult, options *sync.Options) {
	logger := logging.FromContext(ctx)

	for _, c := range catalogs {
		if c.Failed() {
			continue
		}
		path, err := save.Write(options.OutputDir, c.Publisher.String(), c.Resolved.Registry, save.WithFormat(options.Format))
		if err != nil {
			c.Err = errors.WrapCatalog(c.Publisher.String(), "save", err)
			continue
		}
		c.File = path
		logger.Info().
			Str("publisher", c.Publisher.String()).
			Str("file", path).
			Int("entries", c.Entries()).
			Msg("Wrote registry")
	}
}

// prepare empties the output directory for a full run. A run restricted to
// some publishers only removes the files of those catalogs.
func (s *specmap) prepare(options *sync.Options, catalogs []*CatalogResult) error {
	if len(options.Publishers) == 0 {
		return save.Clean(options.OutputDir)
	}
	names := make([]string, 0, len(catalogs))
	for _, c := range catalogs {
		names = append(names, c.Publisher.String())
	}
	return save.Remove(options.OutputDir, names...)
}

// upload publishes written files when an uploader is configured.
func (s *specmap) upload(ctx context.Context, catalogs []*CatalogResult) {
	if s.config.uploader == nil {
		return
	}
	for _, c := range catalogs {
		if c.File == "" {
			continue
		}
		keys, err := s.config.uploader.Upload(ctx, []string{c.File})
		if err != nil {
			c.Err = errors.WrapCatalog(c.Publisher.String(), "publish", err)
			continue
		}
		if len(keys) > 0 {
			c.Uploaded = keys[0]
		}
	}
}

// record writes metrics and the report. Failures here are logged, not returned.
func (s *specmap) record(ctx context.Context, result *Result, options *sync.Options) {
	logger := logging.FromContext(ctx)

	if m := s.config.metrics; m != nil {
		for _, c := range result.Catalogs {
			if c.Resolved != nil {
				m.ObserveResult(c.Resolved)
			}
			if c.Failed() {
				stage := "unknown"
				var catErr *errors.CatalogError
				if errors.As(c.Err, &catErr) {
					stage = catErr.Stage
				}
				m.IncrementFailure(c.Publisher.String(), stage)
			}
		}
		if options.MetricsFile != "" {
			if err := m.WriteTextfile(options.MetricsFile); err != nil {
				logger.Warn().Err(err).Msg("Could not write metrics file")
			}
		}
	}

	if options.ReportFile != "" {
		if err := report.WriteFile(options.ReportFile, result.Report()); err != nil {
			logger.Warn().Err(err).Msg("Could not write report")
		}
	}
}

// patch encodes both registries and diffs the text.
func patch(d differ.Differ, previous, current *registry.Registry, f save.Format) string {
	oldData, err := save.Encode(previous, f)
	if err != nil {
		return ""
	}
	newData, err := save.Encode(current, f)
	if err != nil {
		return ""
	}
	return d.Patch(string(oldData), string(newData))
}
