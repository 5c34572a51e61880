// Package clinicerr defines the error taxonomy shared by the domain
// services. Every request-level failure is one of the kinds below; the
// HTTP layer maps kinds to status codes and nothing is ever fatal to
// the process.
package clinicerr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Kind categorizes an error.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConflict      Kind = "conflict"
	KindNotFound      Kind = "not_found"
	KindInvalidState  Kind = "invalid_state"
	KindAuthorization Kind = "authorization"
)

// Error is a structured service error. Field names the offending input
// field when the error is tied to one.
type Error struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Validation reports malformed or rejected input on the given field.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Conflict reports a scheduling or uniqueness collision on the given field.
func Conflict(field, message string) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: message}
}

// NotFound reports a missing record.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// InvalidState reports a redundant transition on an already-terminal record.
func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// Authorization reports an insufficient caller role. No record details
// are included in the message.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// IsKind reports whether err is a clinic error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

// Status returns the HTTP status code for err. Unrecognized errors map
// to 500.
func Status(err error) int {
	var ce *Error
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError
	}
	switch ce.Kind {
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// HTTP translates a service error into an echo HTTP error with
// field-level detail where available.
func HTTP(err error) error {
	var ce *Error
	if !errors.As(err, &ce) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	body := map[string]string{"message": ce.Message}
	if ce.Field != "" {
		body[ce.Field] = ce.Message
	}
	return echo.NewHTTPError(Status(err), body)
}
