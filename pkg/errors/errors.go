// Package errors provides structured error types for diagtool.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the layout core and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes map onto the failure classes of the pipeline:
//   - INIT_FAILED: an external resource (font engine, font face) could not be set up
//   - MEASUREMENT_FAILED: a text-metrics lookup failed for a glyph or kerning pair
//   - UNSATISFIABLE / CYCLE_DETECTED: the layout solver could not resolve a node
//   - INVALID_*: input validation failures
//   - UNKNOWN: anything not otherwise classified
//
// Topology rejections are deliberately not errors: linking to a missing node
// is reported as a boolean at the call site.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidScene, "unknown node kind %q", kind)
//	if errors.Is(err, errors.ErrCodeInvalidScene) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Init("fontmetrics.Calculator", parseErr)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// External resource setup
	ErrCodeInit Code = "INIT_FAILED"

	// Text measurement
	ErrCodeMeasurement Code = "MEASUREMENT_FAILED"

	// Layout
	ErrCodeUnsatisfiable Code = "UNSATISFIABLE"
	ErrCodeCycle         Code = "CYCLE_DETECTED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidScene  Code = "INVALID_SCENE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
	ErrCodeUnknown  Code = "UNKNOWN"
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

// Init reports that component could not be initialized because of cause.
// The message reads "failed to initialize <component>".
func Init(component string, cause error) *Error {
	return Wrap(ErrCodeInit, cause, "failed to initialize %s", component)
}

// Unknown wraps an unclassified failure.
func Unknown(cause error) *Error {
	return Wrap(ErrCodeUnknown, cause, "unknown error")
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code() == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
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

// coder is implemented by typed errors elsewhere in the module (for example
// layout.ConstraintError) that carry a code without being an *Error.
type coder interface {
	error
	Code() Code
}
