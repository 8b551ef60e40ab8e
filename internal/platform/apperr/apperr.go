// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for Bookshelf.

It provides a rich error type that bridges the gap between domain validation
failures, storage errors and the user-facing surfaces (HTTP responses, terminal
notifications).

Architecture:

  - AppError: A struct containing a machine-readable Code and a user-friendly message.
  - Matching: Two AppErrors are equal under [errors.Is] when their codes match,
    so callers compare against sentinels regardless of the message text.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the core should be an [AppError] to ensure consistent
reporting through every driver.
*/
package apperr

import (
	"errors"
	"net/http"
)

// AppError is the canonical error type for the Bookshelf engine.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., storage paths).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "DUPLICATE_BOOK").
	Code string `json:"code"`
	// Message is a human-readable description safe to show to the user.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an [*AppError] with the same Code.
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	if !ok || other == nil {
		return false
	}
	return e.Code == other.Code
}

// WithMessage returns a copy of e carrying a different client-safe message.
func (e *AppError) WithMessage(msg string) *AppError {
	clone := *e
	clone.Message = msg
	return &clone
}

// WithDetails returns a copy of e carrying the given field-level details.
func (e *AppError) WithDetails(details ...FieldError) *AppError {
	clone := *e
	clone.Details = append([]FieldError(nil), details...)
	return &clone
}

// New creates an [AppError] with an explicit code and status.
//
// Example:
//
//	apperr.New("DUPLICATE_BOOK", http.StatusConflict, "This book already exists")
func New(code string, status int, msg string) *AppError {
	return &AppError{
		Code:       code,
		Message:    msg,
		HTTPStatus: status,
	}
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Book") // Returns "Book not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
