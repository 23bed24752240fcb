// Package constants provides shared constants used throughout the specmap codebase.
// This includes timeouts, retry limits, file permissions, and output defaults
// that should be consistent across the fetch, resolve, and save stages.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single catalog request
	DefaultHTTPTimeout = 30 * time.Second

	// CatalogFetchTimeout bounds the full fetch of one publisher catalog, retries included
	CatalogFetchTimeout = 2 * time.Minute

	// SyncTimeout is the timeout for a complete sync run across all publishers
	SyncTimeout = 10 * time.Minute

	// ShutdownTimeout is how long the CLI waits for cleanup after a failure
	ShutdownTimeout = 5 * time.Second

	// RetryBackoff is the base backoff duration for retries
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for retries
	MaxRetryBackoff = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the maximum number of retry attempts for a failed request
	MaxRetries = 3

	// MaxConcurrentCatalogs is the default number of publisher pipelines run at once
	MaxConcurrentCatalogs = 4

	// MaxResponseBytes caps the size of a catalog response body (64 MiB)
	MaxResponseBytes = 64 << 20
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for cached catalog responses
	CacheTTL = 15 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 5 * time.Minute
)

// Output defaults
const (
	// DefaultOutputDir is where registry files are written when nothing is configured
	DefaultOutputDir = "refs"

	// DefaultFormat is the default registry file format
	DefaultFormat = "json"

	// JSONIndent is the indentation used for written registry files
	JSONIndent = "  "

	// DefaultUserAgent identifies specmap to publisher sites
	DefaultUserAgent = "specmap (+https://github.com/agentstation/specmap)"
)

// Format constants
const (
	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)
