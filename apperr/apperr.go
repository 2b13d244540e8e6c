package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInternal         = "internal"
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
)

// Error represents a structured routing error.
type Error struct {
	Code    string
	Status  int
	Message string
	Cause   error
}

// New creates a new Error.
func New(code string, status int, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Status:  status,
		Message: message,
		Cause:   cause,
	}
}

// BadRequest creates a 400 error.
func BadRequest(message string, cause error) *Error {
	return New(CodeBadRequest, http.StatusBadRequest, message, cause)
}

// NotFound creates a 404 error.
func NotFound(message string, cause error) *Error {
	return New(CodeNotFound, http.StatusNotFound, message, cause)
}

// MethodNotAllowed creates a 405 error.
func MethodNotAllowed(message string, cause error) *Error {
	return New(CodeMethodNotAllowed, http.StatusMethodNotAllowed, message, cause)
}

// Unauthorized creates a 401 error.
func Unauthorized(message string, cause error) *Error {
	return New(CodeUnauthorized, http.StatusUnauthorized, message, cause)
}

// Forbidden creates a 403 error.
func Forbidden(message string, cause error) *Error {
	return New(CodeForbidden, http.StatusForbidden, message, cause)
}

// Internal creates a 500 error.
func Internal(message string, cause error) *Error {
	return New(CodeInternal, http.StatusInternalServerError, message, cause)
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

// Unwrap returns the root cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// As extracts an *Error if present.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	if appErr := As(err); appErr != nil && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
