// Package errors provides structured error types for normalign.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the normal engine, validation and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - MESH_*, *_PLAN, *_COMPONENT_KIND: Normal engine failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMeshQuery, "vertex %d out of range", v)
//	if errors.Is(err, errors.ErrCodeMeshQuery) {
//	    // Abort the command, nothing was written
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeMeshQuery, origErr, "resolve mesh %q", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeInvalidMeshName  Code = "INVALID_MESH_NAME"
	ErrCodeInvalidSelection Code = "INVALID_SELECTION"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Normal engine errors
	ErrCodeUnsupportedComponent Code = "UNSUPPORTED_COMPONENT_KIND"
	ErrCodeMeshQuery            Code = "MESH_QUERY_FAILURE"
	ErrCodeInconsistentPlan     Code = "INCONSISTENT_PLAN"
	ErrCodeInvalidState         Code = "INVALID_STATE"

	// Validation runner errors
	ErrCodeValidator Code = "VALIDATOR_ERROR"
	ErrCodeCanceled  Code = "CANCELED"

	// Storage errors
	ErrCodeStorage Code = "STORAGE_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// MeshQuery wraps a failed mesh access. A nil cause yields nil so callers can
// wrap unconditionally.
func MeshQuery(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	if Is(cause, ErrCodeMeshQuery) {
		return cause
	}
	return Wrap(ErrCodeMeshQuery, cause, format, args...)
}
