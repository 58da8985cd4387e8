package api

import (
	"errors"
	"fmt"
)

// Kind classifies a remote call failure.
type Kind string

const (
	// KindUnavailable means no response reached the server (network error,
	// timeout, connection refused).
	KindUnavailable Kind = "unavailable"
	// KindServer means the server answered with a non-2xx status.
	KindServer Kind = "server"
	// KindMalformed means the server answered 2xx but the payload did not
	// have the expected shape.
	KindMalformed Kind = "malformed"
	// KindValidation means the request was rejected client-side before any
	// network activity.
	KindValidation Kind = "validation"
)

// Error is the typed failure returned by every remote call. Message is
// human-readable and safe to surface to the UI.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status code for KindServer errors, zero otherwise.
	Status int
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Validationf builds a client-side validation error.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, or "" when err is not an API error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}
