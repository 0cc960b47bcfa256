// Package errors provides the coded error kinds reported by pic.
//
// Every failure that can stop a diagram from rendering carries one of the
// codes below, so callers (the site builder, the CLI, the preview server)
// can tell a missing renderer from a typo in a directive without parsing
// messages.
//
// # Error Codes
//
//   - Directive errors: UNKNOWN_LANGUAGE, MISSING_OPTION, INVALID_OPTION,
//     CONFLICTING_SOURCE, EMPTY_CONTENT, FILE_NOT_FOUND
//   - Renderer errors: CANNOT_RUN, RENDERER_STDERR, RENDERER_EXIT, TIMEOUT
//   - Everything else: INVALID_CONFIG, INTERNAL_ERROR
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownLanguage, "unknown language %q in directive", lang)
//	if errors.Is(err, errors.ErrCodeUnknownLanguage) {
//	    // Report against the directive line
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "reading %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure kinds a diagram can hit.
const (
	// Directive and option errors
	ErrCodeUnknownLanguage   Code = "UNKNOWN_LANGUAGE"
	ErrCodeMissingOption     Code = "MISSING_OPTION"
	ErrCodeInvalidOption     Code = "INVALID_OPTION"
	ErrCodeConflictingSource Code = "CONFLICTING_SOURCE"
	ErrCodeEmptyContent      Code = "EMPTY_CONTENT"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"

	// External renderer errors
	ErrCodeCannotRun      Code = "CANNOT_RUN"
	ErrCodeRendererStderr Code = "RENDERER_STDERR"
	ErrCodeRendererExit   Code = "RENDERER_EXIT"
	ErrCodeTimeout        Code = "TIMEOUT"

	// Configuration and internal errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
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

// Is reports whether the outermost *Error in err's chain has the given code.
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

// UserMessage returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsDiagram reports whether err is confined to a single diagram.
// Such errors are reported and the surrounding build continues.
func IsDiagram(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownLanguage, ErrCodeMissingOption, ErrCodeInvalidOption,
		ErrCodeConflictingSource, ErrCodeEmptyContent, ErrCodeFileNotFound,
		ErrCodeCannotRun, ErrCodeRendererStderr, ErrCodeRendererExit, ErrCodeTimeout:
		return true
	}
	return false
}
