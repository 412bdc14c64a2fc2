package apperr

import (
	"fmt"
	"net/http"
)

// Error is a domain error carrying a machine-readable code, a human message
// and an HTTP-equivalent status. Details are optional structured context.
type Error struct {
	Code    string
	Message string
	Status  int
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying error, preserving the taxonomy kind.
func (e *Error) WithCause(err error) *Error {
	clone := *e
	clone.cause = err
	return &clone
}

// WithDetails attaches structured context to the error.
func (e *Error) WithDetails(details map[string]any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

func newError(code, message string, status int) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func BadRequest(message string) *Error {
	return newError("BAD_REQUEST", message, http.StatusBadRequest)
}

func Unauthorized(message string) *Error {
	return newError("UNAUTHORIZED", message, http.StatusUnauthorized)
}

func Forbidden(message string) *Error {
	return newError("FORBIDDEN", message, http.StatusForbidden)
}

func NotFound(message string) *Error {
	return newError("NOT_FOUND", message, http.StatusNotFound)
}

func Conflict(message string) *Error {
	return newError("CONFLICT", message, http.StatusConflict)
}

func Validation(message string) *Error {
	return newError("VALIDATION_ERROR", message, http.StatusUnprocessableEntity)
}

func Internal(message string) *Error {
	return newError("INTERNAL_ERROR", message, http.StatusInternalServerError)
}

func Database(message string) *Error {
	return newError("DATABASE_ERROR", message, http.StatusInternalServerError)
}

func ExternalService(message string) *Error {
	return newError("EXTERNAL_SERVICE_ERROR", message, http.StatusBadGateway)
}
