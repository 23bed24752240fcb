// Package errors provides custom error types for the specmap system.
// The resolution engine fails loudly: every fatal condition of a catalog run
// has a dedicated type so callers can check it programmatically with
// errors.Is / errors.As while the message still names the offending input.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Join is an alias for the standard library errors.Join.
var Join = errors.Join

// As is an alias for the standard library errors.As.
var As = errors.As

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// Common sentinel errors for the specmap system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse indicates a title or number that does not match its publisher grammar
	ErrParse = errors.New("unrecognized title format")

	// ErrConflict indicates two equally current entries claimed one canonical key
	ErrConflict = errors.New("reconciliation conflict")

	// ErrAmbiguous indicates more than one current successor candidate
	ErrAmbiguous = errors.New("ambiguous cross-reference")

	// ErrEmptyRegistry indicates a catalog that produced no entries
	ErrEmptyRegistry = errors.New("empty registry")

	// ErrPublisherUnavailable indicates that a publisher site is temporarily unavailable
	ErrPublisherUnavailable = errors.New("publisher unavailable")

	// ErrRateLimited indicates that the publisher rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")
)

// ParseError reports a raw title or standard number that the publisher's
// grammar does not recognize. It is fatal for the catalog being parsed.
type ParseError struct {
	Publisher string
	Input     string
	Field     string // "title", "number", "status"; empty means title
	Message   string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	field := e.Field
	if field == "" {
		field = "title"
	}
	if e.Publisher != "" {
		return fmt.Sprintf("%s: cannot parse %s %q: %s", e.Publisher, field, e.Input, e.Message)
	}
	return fmt.Sprintf("cannot parse %s %q: %s", field, e.Input, e.Message)
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError for a title.
func NewParseError(publisher, input, message string) *ParseError {
	return &ParseError{Publisher: publisher, Input: input, Message: message}
}

// ConflictError reports two "current" observations of the same canonical key.
type ConflictError struct {
	Publisher     string
	Key           string
	ExistingIndex int
	IncomingIndex int
	Reason        string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	msg := fmt.Sprintf("%s: conflicting entries for key %s (catalog positions %d and %d)",
		e.Publisher, e.Key, e.ExistingIndex, e.IncomingIndex)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is implements errors.Is support
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflictError creates a new ConflictError
func NewConflictError(publisher, key string, existingIndex, incomingIndex int) *ConflictError {
	return &ConflictError{
		Publisher:     publisher,
		Key:           key,
		ExistingIndex: existingIndex,
		IncomingIndex: incomingIndex,
	}
}

// AmbiguityError reports an obsolete entry with several plausible successors.
type AmbiguityError struct {
	Publisher  string
	Key        string
	BaseID     string
	Candidates []string
}

// Error implements the error interface
func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("%s: %s (base id %s) has %d current successor candidates: %s",
		e.Publisher, e.Key, e.BaseID, len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// Is implements errors.Is support
func (e *AmbiguityError) Is(target error) bool {
	return target == ErrAmbiguous
}

// EmptyRegistryError reports a catalog that yielded zero entries.
type EmptyRegistryError struct {
	Publisher string
	Items     int
}

// Error implements the error interface
func (e *EmptyRegistryError) Error() string {
	return fmt.Sprintf("%s: catalog produced no entries from %d items, the source structure may have changed", e.Publisher, e.Items)
}

// Is implements errors.Is support
func (e *EmptyRegistryError) Is(target error) bool {
	return target == ErrEmptyRegistry
}

// CatalogError wraps the fatal failure of one publisher's pipeline.
type CatalogError struct {
	Publisher string
	Stage     string // "fetch", "resolve", "save", "publish"
	Err       error
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog %s failed during %s: %v", e.Publisher, e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error response from a publisher site
type APIError struct {
	Publisher  string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed (status %d): %s", e.Publisher, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request to %s failed: %s", e.Publisher, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrPublisherUnavailable
	}
	return false
}

// Retryable reports whether the request that produced this error may succeed later.
func (e *APIError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "load", "encode", "upload"
	Resource  string // "registry", "request", "report"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsParse checks if an error is a title grammar failure
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsConflict checks if an error is a reconciliation conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsAmbiguous checks if an error is a cross-reference ambiguity
func IsAmbiguous(err error) bool {
	return errors.Is(err, ErrAmbiguous)
}

// IsEmptyRegistry checks if an error is an empty registry failure
func IsEmptyRegistry(err error) bool {
	return errors.Is(err, ErrEmptyRegistry)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsPublisherUnavailable checks if an error indicates publisher unavailability
func IsPublisherUnavailable(err error) bool {
	return errors.Is(err, ErrPublisherUnavailable)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapCatalog wraps an error as a CatalogError
func WrapCatalog(publisher, stage string, err error) error {
	if err == nil {
		return nil
	}
	return &CatalogError{Publisher: publisher, Stage: stage, Err: err}
}
