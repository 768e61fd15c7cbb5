// Package domainerrors carries coded errors across service boundaries.
//
// Stores return sentinel errors (pkg/platform/sentinel); services translate them
// into a coded Error so the transport layer can pick a status and message
// without inspecting internals. Codes are stable strings and appear verbatim in
// API responses.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	// Workflow taxonomy.
	CodeInvalidTransition   Code = "invalid_transition"
	CodeForbidden           Code = "forbidden"
	CodeIncompleteRoster    Code = "incomplete_roster"
	CodeNotFound            Code = "not_found"
	CodeConcurrencyConflict Code = "concurrency_conflict"
	CodeStorage             Code = "storage_error"

	// Boundary and generic codes.
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_error"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeInternal     Code = "internal_error"
)

// Error is a coded domain error. Details lists remediation items or unmet
// preconditions when a single message is not enough.
type Error struct {
	Code    Code
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// WithDetails creates a coded error carrying a list of details.
func WithDetails(code Code, msg string, details []string) error {
	cp := make([]string, len(details))
	copy(cp, details)
	return &Error{Code: code, Message: msg, Details: cp}
}

// HasCode reports whether err (or anything it wraps) is a domain error with code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost domain error, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// DetailsOf returns the details of the outermost domain error.
func DetailsOf(err error) []string {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}

// Is is kept for call sites that read better as a predicate on the code.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}
