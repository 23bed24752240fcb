package specmap

import (
	"context"

	"github.com/agentstation/specmap/internal/metrics"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/sources"
)

// Uploader publishes written registry files.
type Uploader interface {
	Upload(ctx context.Context, files []string) ([]string, error)
}

// config holds the instance-level settings.
type config struct {
	sources  *sources.Sources
	metrics  *metrics.Metrics
	uploader Uploader
}

func defaultConfig() *config {
	return &config{}
}

// Option is a function that configures a Specmap instance
type Option func(*config) error

// options applies the given options to the instance configuration.
func (s *specmap) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s.config); err != nil {
			return err
		}
	}
	return nil
}

// WithSources sets the catalog sources.
func WithSources(srcs *sources.Sources) Option {
	return func(c *config) error {
		if srcs == nil {
			return &errors.ValidationError{Field: "sources", Message: "cannot be nil"}
		}
		c.sources = srcs
		return nil
	}
}

// WithMetrics records every run in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) error {
		c.metrics = m
		return nil
	}
}

// WithUploader publishes each written file after a successful save.
func WithUploader(u Uploader) Option {
	return func(c *config) error {
		c.uploader = u
		return nil
	}
}
