package utils

import (
	"errors"
	"net/http"
)

// ErrorKind is the machine-checkable class of a failure. Every error that
// crosses the HTTP boundary carries one.
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "invalid_input"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindNotFound           ErrorKind = "not_found"
	KindGatewayUnavailable ErrorKind = "gateway_unavailable"
	KindGatewayRejected    ErrorKind = "gateway_rejected"
	KindConflict           ErrorKind = "conflict"
	KindInternal           ErrorKind = "internal"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// StatusFor maps an error kind to its HTTP status code.
func StatusFor(kind ErrorKind) int {
	switch kind {
	case KindInvalidInput, KindGatewayRejected, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// KindOf extracts the kind from an error chain, defaulting to internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
