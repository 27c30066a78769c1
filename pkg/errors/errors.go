// Package errors provides custom error types for the axioparse system.
// These errors enable programmatic error checking with errors.Is and
// errors.As, and carry enough context (labels, identifiers, columns)
// to report a failed pass without re-running it.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As re-export the standard library helpers so callers need one import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the axioparse system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCredentialsRequired indicates that reference service credentials are missing
	ErrCredentialsRequired = errors.New("credentials required")

	// ErrServiceUnavailable indicates that the reference service is temporarily unavailable
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrRateLimited indicates that the reference service rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrNoCandidates indicates that neither the primary nor the fallback search found an identifier
	ErrNoCandidates = errors.New("no candidates after fallback")

	// ErrFetchExhausted indicates that a record fetch failed on every attempt
	ErrFetchExhausted = errors.New("fetch exhausted retries")

	// ErrBatchResolution indicates that at least one label in a resolution pass failed
	ErrBatchResolution = errors.New("batch resolution failed")

	// ErrUnmergeable indicates that two calls in a duplicate run cannot be combined
	ErrUnmergeable = errors.New("unmergeable cell")
)

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

// APIError represents an error returned by the reference service
type APIError struct {
	Service    string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Service, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Service, e.Message)
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
		return target == ErrServiceUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(service string, statusCode int, message string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    message,
	}
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

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "xml", "csv", "tsv"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "close"
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

// NoCandidatesError reports a label for which neither the primary search
// nor any fallback query produced an identifier.
type NoCandidatesError struct {
	Label string
	Terms []string // every term that was searched, in order
}

// Error implements the error interface
func (e *NoCandidatesError) Error() string {
	if len(e.Terms) > 0 {
		return fmt.Sprintf("no candidates for %q after fallback (searched %d terms)", e.Label, len(e.Terms))
	}
	return fmt.Sprintf("no candidates for %q after fallback", e.Label)
}

// Is implements errors.Is support
func (e *NoCandidatesError) Is(target error) bool {
	return target == ErrNoCandidates
}

// FetchExhaustedError reports a record fetch that failed on every attempt.
// Entity is the logical thing the identifier was fetched for, usually the
// original organism label.
type FetchExhaustedError struct {
	ID       string
	Entity   string
	Attempts int
	Err      error
}

// Error implements the error interface
func (e *FetchExhaustedError) Error() string {
	return fmt.Sprintf("fetch of %s for %q failed after %d attempts: %v", e.ID, e.Entity, e.Attempts, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FetchExhaustedError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FetchExhaustedError) Is(target error) bool {
	return target == ErrFetchExhausted
}

// ResolutionFailure is one failed label inside a BatchResolutionError.
type ResolutionFailure struct {
	Label  string `json:"label" yaml:"label"`
	Reason string `json:"reason" yaml:"reason"`
	Err    error  `json:"-" yaml:"-"`
}

// BatchResolutionError is the only error a resolution pass surfaces.
// It lists every failed label; no partial result accompanies it.
type BatchResolutionError struct {
	Failures []ResolutionFailure
}

// Error implements the error interface
func (e *BatchResolutionError) Error() string {
	return fmt.Sprintf("failed to find taxonomy for %d labels: %s",
		len(e.Failures), strings.Join(e.Labels(), "; "))
}

// Labels returns the failed labels in the order they were processed.
func (e *BatchResolutionError) Labels() []string {
	labels := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		labels[i] = f.Label
	}
	return labels
}

// Unwrap exposes the per-label causes to errors.Is and errors.As.
func (e *BatchResolutionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Is implements errors.Is support
func (e *BatchResolutionError) Is(target error) bool {
	return target == ErrBatchResolution
}

// UnmergeableCellError reports two calls in one duplicate run that the
// combine operator cannot reconcile.
type UnmergeableCellError struct {
	Key    string
	Sample string
	Run    int // index of the offending run in the input
	Left   string
	Right  string
}

// Error implements the error interface
func (e *UnmergeableCellError) Error() string {
	return fmt.Sprintf("rows not condensed for %q (run %d) in column %s: cannot combine %q with %q",
		e.Key, e.Run, e.Sample, e.Left, e.Right)
}

// Is implements errors.Is support
func (e *UnmergeableCellError) Is(target error) bool {
	return target == ErrUnmergeable
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

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsServiceUnavailable checks if an error indicates reference service unavailability
func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}

// IsBatchResolution checks if an error is an aggregate resolution failure
func IsBatchResolution(err error) bool {
	return errors.Is(err, ErrBatchResolution)
}

// IsUnmergeable checks if an error is an unmergeable cell error
func IsUnmergeable(err error) bool {
	return errors.Is(err, ErrUnmergeable)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(service string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// UnmatchedKeys builds a ValidationError naming every key in keys, sorted.
func UnmatchedKeys(field string, keys []string) *ValidationError {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	return &ValidationError{
		Field:   field,
		Value:   sorted,
		Message: fmt.Sprintf("the following values could not be matched: %s", strings.Join(sorted, ", ")),
	}
}
