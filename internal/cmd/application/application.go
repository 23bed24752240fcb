// Package application defines what CLI commands need from the application
// layer. The App in cmd/specmap/app implements it; tests use Mock.
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/specmap"
)

// Application provides the application interface that commands need.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Specmap returns the specmap instance. Without options it returns the
	// cached default instance built from configuration; with options it
	// creates a new, uncached instance.
	Specmap(opts ...specmap.Option) (specmap.Specmap, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured display format (table, json, yaml, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
