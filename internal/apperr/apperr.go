package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP layer.
type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindInvalidState Kind = "invalid_state"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// Error is returned by services for every expected failure. Data is echoed
// back to the caller in the response envelope.
type Error struct {
	Kind    Kind
	Message string
	Data    any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, message string, data any) *Error {
	return &Error{Kind: kind, Message: message, Data: data}
}

func BadRequest(message string, data any) *Error {
	return New(KindBadRequest, message, data)
}

func InvalidState(message string, data any) *Error {
	return New(KindInvalidState, message, data)
}

func NotFound(message string, data any) *Error {
	return New(KindNotFound, message, data)
}

func Conflict(message string, data any) *Error {
	return New(KindConflict, message, data)
}

// Internal wraps an infrastructure failure. The cause is kept for logging but
// never rendered to the client.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf reports the Kind of err, or KindInternal for anything that is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StatusOf maps err to an HTTP status code.
func StatusOf(err error) int {
	switch KindOf(err) {
	case KindBadRequest, KindInvalidState:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
