// Package apperror defines the application's error taxonomy.
//
// SENTINEL ERRORS + ONE WRAPPER TYPE:
// Each failure category gets a sentinel (ErrNotFound, ErrValidation, ...).
// Constructors wrap a sentinel in an *AppError that carries the
// human-readable message. Callers check the category with errors.Is and
// extract the message with errors.As — the HTTP layer maps categories to
// status codes in exactly one place (handler/response.go).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// AppError pairs a sentinel category with a descriptive message.
type AppError struct {
	Err     error  // the sentinel above (the category)
	Message string // human-readable description
	Field   string // optional: the input field at fault
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel so errors.Is can walk the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that an entity with the given id does not exist.
// Ownership failures on mutating operations deliberately produce the SAME
// error — a caller probing someone else's project learns nothing beyond
// "no such project" (anti-enumeration).
func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

// NotFoundf is NotFound for lookups that aren't keyed by a single id
// (e.g. a user looked up by auth provider credentials).
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// ValidationFailed reports malformed or out-of-range input.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation surfaced by the store,
// e.g. a duplicate email on user creation.
func Conflict(resource, detail string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict: %s", resource, detail),
	}
}

// Forbidden reports that the caller lacks permission. HTTP handlers map
// this to 403. Most ownership failures use NotFound instead (see above);
// Forbidden is reserved for cases where the resource's existence is not a
// secret, like executing a snippet you can already read.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
