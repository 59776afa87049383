// Package apperr defines the error taxonomy shared by every layer.
// Repositories and services raise *Error values; the HTTP layer maps the
// kind to a status code and returns only the client-safe message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal   Kind = iota // unexpected failure, detail stays server-side
	KindValidation             // malformed or missing input
	KindConflict               // duplicate email
	KindAuth                   // bad credentials, missing/expired/invalid session
	KindForbidden              // banned account or insufficient privilege
	KindNotFound               // target user or receiver does not exist
)

type Error struct {
	Kind    Kind
	Message string // safe to surface to the client
	Err     error  // wrapped cause, logged but never surfaced
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error { return New(KindValidation, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }
func Auth(message string) *Error       { return New(KindAuth, message) }
func Forbidden(message string) *Error  { return New(KindForbidden, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }

func Internal(err error) *Error {
	return Wrap(KindInternal, "internal server error", err)
}

// KindOf extracts the kind from any error; wrapped unknown errors
// are treated as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error to the status code the REST facade returns for it.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ClientMessage returns the message safe to send to the caller. Internal
// errors collapse to a fixed string so storage detail never leaks.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}
