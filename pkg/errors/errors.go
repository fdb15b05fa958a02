// Package errors provides structured error types for cablesection.
//
// Every failure raised by the layout engine, the 3D extruder and the
// surrounding services carries a machine-readable [Code] so the CLI and the
// HTTP API can report it consistently.
//
// # Error Codes
//
// Codes fall into a few families:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: reference-table lookups that matched nothing
//   - geometry and mesh failures (DEGENERATE_GEOMETRY, EMPTY_MESH_RESULT, ...)
//   - INTERNAL_ERROR and RENDER_BACKEND_FAILURE for everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfigNotFound, "no layup for %d cores", n)
//	if errors.Is(err, errors.ErrCodeConfigNotFound) {
//	    // Handle missing layup
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderBackend, origErr, "encode png")
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Reference lookups
	ErrCodeNotFound                   Code = "NOT_FOUND"
	ErrCodeConfigNotFound             Code = "CONFIG_NOT_FOUND"
	ErrCodeConductorDimensionNotFound Code = "CONDUCTOR_DIMENSION_NOT_FOUND"

	// Color resolution
	ErrCodeColorCountMismatch    Code = "COLOR_COUNT_MISMATCH"
	ErrCodeUnknownColorCode      Code = "UNKNOWN_COLOR_CODE"
	ErrCodeUnsupportedColorCount Code = "UNSUPPORTED_COLOR_COUNT"

	// Layer model
	ErrCodeIndexOutOfRange    Code = "INDEX_OUT_OF_RANGE"
	ErrCodeMissingArmourShape Code = "MISSING_ARMOUR_SHAPE"

	// Geometry and meshes
	ErrCodeDegenerateGeometry Code = "DEGENERATE_GEOMETRY"
	ErrCodeEmptyMesh          Code = "EMPTY_MESH_RESULT"
	ErrCodeMeshUnion          Code = "MESH_UNION_FAILURE"

	// Backends
	ErrCodeRenderBackend Code = "RENDER_BACKEND_FAILURE"
	ErrCodeTimeout       Code = "TIMEOUT"

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

// Detail returns the messages along the error chain without codes, e.g.
// "layer 7 (armour): armour layer has no \"Armour Type Shape\" attribute".
func Detail(err error) string {
	var parts []string
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			parts = append(parts, err.Error())
			break
		}
		if e.Message != "" {
			parts = append(parts, e.Message)
		}
		err = e.Cause
	}
	return strings.Join(parts, ": ")
}

// IsGeometry reports whether err is a failure of the geometric pipeline
// rather than of its input or of a backend.
func IsGeometry(err error) bool {
	switch GetCode(err) {
	case ErrCodeDegenerateGeometry, ErrCodeEmptyMesh, ErrCodeMeshUnion:
		return true
	}
	return false
}

// IsLookup reports whether err came from a reference-table or color lookup.
func IsLookup(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeConfigNotFound, ErrCodeConductorDimensionNotFound,
		ErrCodeUnknownColorCode, ErrCodeColorCountMismatch, ErrCodeUnsupportedColorCount:
		return true
	}
	return false
}
