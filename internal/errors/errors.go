package errors

import (
	"errors"
	"fmt"
)

// Error is the structured error type for docdex.
// It carries a stable code, a category, and the underlying cause.
type Error struct {
	// Code is the unique error code (e.g., "ERR_301_PROVIDER_STATUS").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Provider, etc.).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Retryable reports whether retrying the operation could succeed.
// Configuration and validation failures are permanent until the user
// intervenes; provider and IO failures may be transient.
func (e *Error) Retryable() bool {
	return e.Category == CategoryProvider || e.Category == CategoryIO
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with Error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message.
// The category is derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Configuration creates an error for missing or invalid embedding
// provider settings. Not retryable by the caller.
func Configuration(message string) *Error {
	return New(ErrCodeProviderNotConfigured, message, nil)
}

// ProviderStatus creates an error for a non-success response from the
// embedding provider, carrying the upstream status and body.
func ProviderStatus(status int, body string) *Error {
	e := New(ErrCodeProviderStatus, fmt.Sprintf("embedding provider returned status %d", status), nil)
	e.WithDetail("status", fmt.Sprintf("%d", status))
	e.WithDetail("body", body)
	return e
}

// ProviderResponse creates an error for a structurally invalid provider
// response (wrong count, null embedding, unparsable body).
func ProviderResponse(message string, cause error) *Error {
	return New(ErrCodeProviderResponse, message, cause)
}

// UnsupportedFormat creates an error for a document whose content type
// cannot be parsed into text. Distinct from zero extractable text,
// which is a normal empty-chunk outcome.
func UnsupportedFormat(ext string) *Error {
	e := New(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported document format: %s", ext), nil)
	e.WithDetail("extension", ext)
	return e
}

// IsConfiguration reports whether err is a provider configuration error.
func IsConfiguration(err error) bool {
	return hasCategory(err, CategoryConfig)
}

// IsProvider reports whether err is an embedding provider error.
func IsProvider(err error) bool {
	return hasCategory(err, CategoryProvider)
}

// IsUnsupportedFormat reports whether err is an unsupported-format error.
func IsUnsupportedFormat(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == ErrCodeUnsupportedFormat
	}
	return false
}

// GetCode extracts the error code from an Error.
// Returns empty string if err is not an Error.
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func hasCategory(err error, cat Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == cat
	}
	return false
}
