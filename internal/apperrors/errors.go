// Package apperrors defines the typed error taxonomy shared by every layer.
// Handlers translate codes to HTTP statuses; services and repositories only
// ever attach codes.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error class.
type Code string

const (
	// CodeNotFound — a referenced case, state or user does not exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeValidation — malformed input, e.g. a blank required comment.
	CodeValidation Code = "VALIDATION"
	// CodeInvalidTransition — target state rejected by the transition policy.
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	// CodeConflict — optimistic-concurrency check failed; the case changed
	// between read and write.
	CodeConflict Code = "CONFLICT"
	// CodePersistence — the store failed to commit; nothing was written.
	CodePersistence Code = "PERSISTENCE"
	// CodeInternal — invariant violation or unexpected failure.
	CodeInternal Code = "INTERNAL"
)

// Error carries a code and a human-readable detail.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NotFound reports a missing resource by kind and identifier.
func NotFound(resource string, id any) *Error {
	return Newf(CodeNotFound, "%s %v not found", resource, id)
}

// InvalidInput reports a validation failure on a named field.
func InvalidInput(field, message string) *Error {
	return Newf(CodeValidation, "%s: %s", field, message)
}

// CodeOf extracts the code from err, or CodeInternal for untyped errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// HTTPStatus maps an error to the status the HTTP surface reports.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeInvalidTransition:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
