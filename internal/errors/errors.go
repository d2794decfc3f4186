package errors

import (
	"errors"
	"fmt"
)

var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")
var ErrNotFound = errors.New("record not found")
var ErrInvalidState = errors.New("operation not allowed in current state")
var ErrValidation = errors.New("invalid input")
var ErrUpstream = errors.New("upstream service error")

// Error carries an error kind plus a human-readable message safe to return to
// API clients. The wrapped sentinel decides the HTTP status.
type Error struct {
	kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.kind
}

func NotFound(format string, args ...any) error {
	return &Error{kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) error {
	return &Error{kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) error {
	return &Error{kind: ErrInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Upstream(format string, args ...any) error {
	return &Error{kind: ErrUpstream, Message: fmt.Sprintf(format, args...)}
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}
