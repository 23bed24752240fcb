package reconciler

import (
	"github.com/agentstation/specmap/pkg/errors"
)

// options configures a reconciler.
type options struct {
	publisher string
	strategy  Strategy
	dedupURLs bool
}

func defaultOptions() *options {
	return &options{
		strategy: NewLifecycleStrategy(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithPublisher names the catalog in logs and errors.
func WithPublisher(publisher string) Option {
	return func(o *options) error {
		o.publisher = publisher
		return nil
	}
}

// WithStrategy sets the precedence strategy.
func WithStrategy(strategy Strategy) Option {
	return func(o *options) error {
		if strategy == nil {
			return &errors.ValidationError{
				Field:   "strategy",
				Message: "cannot be nil",
			}
		}
		o.strategy = strategy
		return nil
	}
}

// WithURLDedup skips observations whose URL was already claimed by an
// accepted entry under a different key.
func WithURLDedup(enabled bool) Option {
	return func(o *options) error {
		o.dedupURLs = enabled
		return nil
	}
}
