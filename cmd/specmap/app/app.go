// Package app provides the application context and dependency management
// for the specmap CLI. Configuration, logging, metrics and the specmap
// instance are created here and handed to commands through the
// application.Application interface.
package app

import (
	"context"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/specmap"
	"github.com/agentstation/specmap/internal/cmd/application"
	"github.com/agentstation/specmap/internal/config"
	"github.com/agentstation/specmap/internal/metrics"
	"github.com/agentstation/specmap/internal/publish"
	"github.com/agentstation/specmap/internal/sources/registry"
	"github.com/agentstation/specmap/internal/transport"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
)

// App represents the specmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Metrics shared by every specmap instance the app creates
	metrics *metrics.Metrics

	// Specmap instance (lazy-initialized, singleton)
	mu      sync.RWMutex
	specmap specmap.Specmap
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		metrics: metrics.New(),
	}

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	// Initialize logger
	logger := NewLogger(config)
	app.logger = &logger

	// Apply any custom options
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Metrics returns the metrics the app records runs in.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// OutputFormat returns the display format chosen with -o.
func (a *App) OutputFormat() string {
	return a.config.Output
}

// Specmap returns the default specmap instance, creating it lazily from
// configuration. With options a new, uncached instance is returned; the
// options are applied after the configured ones.
func (a *App) Specmap(opts ...specmap.Option) (specmap.Specmap, error) {
	if len(opts) > 0 {
		base, err := a.buildSpecmapOptions()
		if err != nil {
			return nil, err
		}
		sm, err := specmap.New(append(base, opts...)...)
		if err != nil {
			return nil, errors.WrapResource("create", "specmap", "with custom options", err)
		}
		return sm, nil
	}

	a.mu.RLock()
	if a.specmap != nil {
		sm := a.specmap
		a.mu.RUnlock()
		return sm, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.specmap != nil {
		return a.specmap, nil
	}

	base, err := a.buildSpecmapOptions()
	if err != nil {
		return nil, err
	}
	sm, err := specmap.New(base...)
	if err != nil {
		return nil, errors.WrapResource("create", "specmap", "", err)
	}

	a.specmap = sm
	return sm, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	a.specmap = nil
	a.mu.Unlock()
	return nil
}

// buildSpecmapOptions constructs specmap options from the configuration.
func (a *App) buildSpecmapOptions() ([]specmap.Option, error) {
	ids, err := config.Publishers()
	if err != nil {
		return nil, err
	}

	srcs, err := registry.Build(registry.Config{
		IDs:  ids,
		URLs: config.URLs(ids),
		Client: config.ClientFactory(func(id publishers.ID, at transport.Attempt) {
			a.metrics.IncrementAttempt(id.String(), at.StatusCode)
		}),
	})
	if err != nil {
		return nil, errors.WrapResource("create", "sources", "", err)
	}

	opts := []specmap.Option{
		specmap.WithSources(srcs),
		specmap.WithMetrics(a.metrics),
	}

	if s3 := config.S3Settings(); s3.Enabled() {
		uploader, err := publish.New(context.Background(), publish.Config{
			Bucket:          s3.Bucket,
			Prefix:          s3.Prefix,
			Region:          s3.Region,
			Endpoint:        s3.Endpoint,
			PathStyle:       s3.PathStyle,
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, specmap.WithUploader(uploader))
	}

	return opts, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSpecmap sets a custom specmap instance (useful for testing).
func WithSpecmap(sm specmap.Specmap) Option {
	return func(a *App) error {
		a.specmap = sm
		return nil
	}
}
