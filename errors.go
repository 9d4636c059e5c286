package formularity

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across packages. They are usually returned wrapped
// in an *Error carrying the category and the offending path.
var (
	// ErrDualValidators is returned when both a schema and a manual
	// validation handler are configured for the same store.
	ErrDualValidators = errors.New("both validationSchema and manualValidationHandler configured")

	// ErrNilValidator is returned when a nil validator is registered.
	ErrNilValidator = errors.New("nil validator")

	// ErrInvalidPath is returned when a field path is empty or unparsable.
	ErrInvalidPath = errors.New("invalid field path")

	// ErrNotArray is returned when an array helper targets a non-array value.
	ErrNotArray = errors.New("value at path is not an array")

	// ErrIndexOutOfRange is returned by array helpers for bad indices.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrSubmitInFlight is returned when a submission is already running.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrNoStore is returned when a controller is built without a store.
	ErrNoStore = errors.New("no form store")
)

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorConfiguration indicates a setup mistake by the caller. These fail
	// fast at construction or first use and are never silently degraded.
	ErrorConfiguration ErrorCategory = "configuration"

	// ErrorTransient indicates a temporary failure of an external validator
	// (remote lookup, rate limit). The operation can be retried.
	ErrorTransient ErrorCategory = "transient"

	// ErrorSubmission indicates the caller's submit callback failed.
	ErrorSubmission ErrorCategory = "submission"
)

// CategorizedError is an error that reports how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool
}

// Error is a categorized error with the field path it concerns, if any.
type Error struct {
	Msg   string
	Cat   ErrorCategory
	Path  string // field path, empty for form-level errors
	Cause error  // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	msg := e.Msg
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path %q)", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("formularity: %s: %v", msg, e.Cause)
	}
	return "formularity: " + msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// NewConfigError creates a configuration error for the given path.
func NewConfigError(msg, path string, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorConfiguration,
		Path:  path,
		Cause: cause,
	}
}

// NewTransientError creates a transient error. Validators return these to
// ask for a retry.
func NewTransientError(msg string, cause error) *Error {
	return &Error{
		Msg:   msg,
		Cat:   ErrorTransient,
		Cause: cause,
	}
}

// NewSubmissionError wraps an error raised by a submit callback.
func NewSubmissionError(cause error) *Error {
	return &Error{
		Msg:   "submit callback failed",
		Cat:   ErrorSubmission,
		Cause: cause,
	}
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return categoryOf(err) == ErrorConfiguration
}

// IsTransient reports whether err is a transient error.
func IsTransient(err error) bool {
	return categoryOf(err) == ErrorTransient
}

// IsSubmission reports whether err wraps a submit callback failure.
func IsSubmission(err error) bool {
	return categoryOf(err) == ErrorSubmission
}

func categoryOf(err error) ErrorCategory {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category()
	}
	return ""
}
