package utils

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindForbidden    ErrorKind = "forbidden"
	KindConflict     ErrorKind = "conflict"
	KindInvalidState ErrorKind = "invalid_state"
	KindUnauthorized ErrorKind = "unauthorized"
	KindInternal     ErrorKind = "internal"
)

// AppError is the typed error every service returns to the adaptor layer.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(kind ErrorKind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ==================== CONSTRUCTORS ====================

func ErrValidation(format string, args ...any) error {
	return newAppError(KindValidation, format, args...)
}

func ErrNotFound(format string, args ...any) error {
	return newAppError(KindNotFound, format, args...)
}

func ErrForbidden(format string, args ...any) error {
	return newAppError(KindForbidden, format, args...)
}

func ErrConflict(format string, args ...any) error {
	return newAppError(KindConflict, format, args...)
}

func ErrInvalidState(format string, args ...any) error {
	return newAppError(KindInvalidState, format, args...)
}

func ErrUnauthorized(format string, args ...any) error {
	return newAppError(KindUnauthorized, format, args...)
}

// ErrInternal wraps an unexpected failure; Message is what the client sees.
func ErrInternal(message string, err error) error {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err, KindInternal for anything untyped.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
