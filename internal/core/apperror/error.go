// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All errors crossing a component boundary should use AppError for consistent handling.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal  = "INTERNAL_ERROR"
	CodeTransport = "TRANSPORT_ERROR"
	CodeDecode    = "DECODE_ERROR"

	// Validation errors (400)
	CodeValidation            = "VALIDATION_ERROR"
	CodeUnsupportedFilterKind = "UNSUPPORTED_FILTER_KIND"
)

// AppError is the standard error type for the module.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (status codes, urls, filter keys)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code for the gateway response
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewTransport creates an error for a failed exchange with the search backend:
// either a non-success HTTP status or a network failure (status 0).
func NewTransport(method, url string, status int) *AppError {
	msg := "search backend request failed"
	if status > 0 {
		msg = fmt.Sprintf("search backend responded with status %d", status)
	}
	return &AppError{
		Code:       CodeTransport,
		Message:    msg,
		HTTPStatus: http.StatusBadGateway,
		Details: map[string]any{
			"method": method,
			"url":    url,
			"status": status,
		},
	}
}

// NewDecode creates an error for a backend body that is not valid JSON for the expected shape.
func NewDecode(what string, err error) *AppError {
	return &AppError{
		Code:       CodeDecode,
		Message:    fmt.Sprintf("malformed %s payload", what),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewUnsupportedFilterKind describes a native filter state that has no operator mapping.
// It is reported through logs only; the offending condition is dropped.
func NewUnsupportedFilterKind(key, kind string) *AppError {
	return &AppError{
		Code:       CodeUnsupportedFilterKind,
		Message:    fmt.Sprintf("unsupported filter kind %q", kind),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"key": key, "kind": kind},
	}
}

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether the error chain carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsTransport checks if error is CodeTransport
func IsTransport(err error) bool {
	return HasCode(err, CodeTransport)
}

// IsDecode checks if error is CodeDecode
func IsDecode(err error) bool {
	return HasCode(err, CodeDecode)
}

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool {
	return HasCode(err, CodeValidation)
}
