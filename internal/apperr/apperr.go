// Package apperr defines the application error taxonomy. Every business
// failure that must reach the caller is wrapped in an *Error carrying the
// HTTP status and the caller-visible message; everything else is treated as
// internal at the API boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindNotAcceptable   Kind = "not_acceptable"
	KindConflict        Kind = "conflict"
	KindPayloadTooLarge Kind = "payload_too_large"
	KindIntegrity       Kind = "integrity_fault"
	KindInternal        Kind = "internal"
)

var statusByKind = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindNotAcceptable:   http.StatusNotAcceptable,
	KindConflict:        http.StatusConflict,
	KindPayloadTooLarge: http.StatusRequestEntityTooLarge,
	KindIntegrity:       http.StatusInternalServerError,
	KindInternal:        http.StatusInternalServerError,
}

// Error is an application error with a caller-visible message.
type Error struct {
	Kind    Kind
	Message string
	err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	if s, ok := statusByKind[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind wrapping a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), err: err}
}

// Validation creates a 400 error.
func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// Unauthenticated creates a 401 error.
func Unauthenticated(format string, args ...any) *Error {
	return New(KindUnauthenticated, format, args...)
}

// Forbidden creates a 403 error.
func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

// NotFound creates a 404 error.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// NotAcceptable creates a 406 error.
func NotAcceptable(format string, args ...any) *Error {
	return New(KindNotAcceptable, format, args...)
}

// Conflict creates a 409 error.
func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

// PayloadTooLarge creates a 413 error.
func PayloadTooLarge(format string, args ...any) *Error {
	return New(KindPayloadTooLarge, format, args...)
}

// Integrity creates a 500 error for uuid-uniqueness faults. Surfaced with a
// stable message, never silently collapsed.
func Integrity(format string, args ...any) *Error {
	return New(KindIntegrity, format, args...)
}

// AsError extracts an *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
