// Package domainerrors defines coded errors shared across services and
// transports. Services return these; the HTTP layer maps codes to status
// codes and a stable JSON envelope without inspecting error strings.
package domainerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure with a stable, client-visible name.
type Code string

const (
	// CodeInvalidRequest marks malformed or missing identifying input:
	// blank couple ids, out-of-range coordinates, empty batches.
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// CodeRegionNotFound marks input that resolved to no known region
	// after every resolution strategy was tried.
	CodeRegionNotFound Code = "REGION_NOT_FOUND"

	// CodeUnauthorized marks requests whose couple identity could not be
	// established from the bearer token.
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeInternal marks storage or downstream-communication failures.
	// Safe for the caller to retry unchanged.
	CodeInternal Code = "INTERNAL_ERROR"

	// CodeTimeout marks a bounded store call that did not complete in time.
	CodeTimeout Code = "TIMEOUT"
)

// Error carries a code plus a human-readable message, optionally wrapping a
// cause for logs. The message is safe to return to clients.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with a fixed message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. An internal
// failure whose cause is an expired context deadline is classified as
// CodeTimeout so bounded store calls surface as 504, not 500.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	if code == CodeInternal && errors.Is(err, context.DeadlineExceeded) {
		code = CodeTimeout
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal so unknown
// failures never leak as client-caused.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the client-safe message from err.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal server error"
}

// HTTPStatus maps a code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeRegionNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
