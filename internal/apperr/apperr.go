package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Kind classifies an operation failure. Handlers map kinds to HTTP statuses;
// services never return raw strings for expected conditions.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindNotFound        Kind = "not_found"
	KindPrecondition    Kind = "precondition"
	KindUnauthenticated Kind = "unauthenticated"
	KindNotImplemented  Kind = "not_implemented"
	KindInternal        Kind = "internal"
)

// Error is the failure type every service returns. Message is the short
// machine-oriented string, Detail the optional human-oriented one.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	cause   error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindPrecondition:
		return http.StatusUnprocessableEntity
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Preconditionf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func NotImplemented(message string) *Error {
	return &Error{Kind: KindNotImplemented, Message: message}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// WithDetail attaches a human-oriented message and returns the error.
func (e *Error) WithDetail(format string, args ...interface{}) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// From extracts an *Error from err, wrapping unknown errors as internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: KindInternal, Message: "internal error", cause: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// FromDB translates a gorm error into a structured error. With TranslateError
// enabled on the gorm config a unique-constraint violation raised inside a
// transaction surfaces as ErrDuplicatedKey, so the race between the existence
// pre-check and the insert collapses into the same conflict kind the pre-check
// produces. conflictMsg names the duplicate (empty falls back to a generic
// "already exists"); fallback is the generic
// "failed to <verb> <noun>" message for unexpected database failures.
func FromDB(err error, conflictMsg, fallback string) *Error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		if conflictMsg == "" {
			conflictMsg = "already exists"
		}
		return &Error{Kind: KindConflict, Message: conflictMsg, cause: err}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Message: fallback, cause: err}
	default:
		return &Error{Kind: KindInternal, Message: fallback, cause: err}
	}
}
