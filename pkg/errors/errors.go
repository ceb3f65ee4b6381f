// Package errors provides structured error types for modcheck.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration failures, reported before analysis
//   - NOT_SOURCE_FILE, OUTSIDE_ROOT: expected outcomes that callers absorb
//   - UNRESOLVED_IMPORT, FILE_READ: per-import and per-file failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidMapping, "missing ':' in %q", s)
//	if errors.Is(err, errors.ErrCodeInvalidMapping) {
//	    // Handle setup error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileRead, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Setup errors
	ErrCodeInvalidRoot    Code = "INVALID_ROOT"
	ErrCodeInvalidMapping Code = "INVALID_MAPPING"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidRule    Code = "INVALID_RULE"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Classification outcomes
	ErrCodeNotSourceFile Code = "NOT_SOURCE_FILE"
	ErrCodeOutsideRoot   Code = "OUTSIDE_ROOT"
	ErrCodeInvalidModule Code = "INVALID_MODULE"

	// Per-import and per-file errors
	ErrCodeUnresolvedImport Code = "UNRESOLVED_IMPORT"
	ErrCodeFileRead         Code = "FILE_READ"
	ErrCodeWalk             Code = "WALK_ERROR"

	// Aggregates
	ErrCodeInvalidImports Code = "INVALID_IMPORTS"
	ErrCodeInvalidFiles   Code = "INVALID_FILES"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
