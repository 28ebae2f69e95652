// Package errors provides structured errors with machine-readable codes and
// HTTP status mapping.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error for metrics and status mapping.
type ErrorType string

const (
	// TypeValidation indicates invalid input (HTTP 400)
	TypeValidation ErrorType = "validation"
	// TypeUnauthorized indicates a missing login (HTTP 401)
	TypeUnauthorized ErrorType = "unauthorized"
	// TypeForbidden indicates the actor may not touch the resource (HTTP 403)
	TypeForbidden ErrorType = "forbidden"
	// TypeNotFound indicates resource not found (HTTP 404)
	TypeNotFound ErrorType = "not_found"
	// TypeConflict indicates resource conflict (HTTP 409)
	TypeConflict ErrorType = "conflict"
	// TypeInternal indicates server-side error (HTTP 500)
	TypeInternal ErrorType = "internal"
)

// Codes sent to clients in the "code" field.
const (
	CodeBadParams = "bad_params"
	CodeNoAuth    = "no_auth"
	CodeForbidden = "forbidden"
	CodeNotFound  = "not_found"
	CodeConflict  = "conflict"
	CodeInternal  = "internal"
)

// Error represents a structured error with type, code, message, and context.
type Error struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the HTTP status code for this error type.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newError(t ErrorType, code, message string, cause error) *Error {
	return &Error{
		Type:    t,
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// BadParams creates a validation error (HTTP 400, code bad_params).
func BadParams(message string) *Error {
	return newError(TypeValidation, CodeBadParams, message, nil)
}

// NoAuth creates an authorization error (HTTP 401, code no_auth).
func NoAuth() *Error {
	return newError(TypeUnauthorized, CodeNoAuth, "This action requires authorization", nil)
}

// Forbidden creates a permission error (HTTP 403).
func Forbidden(message string) *Error {
	return newError(TypeForbidden, CodeForbidden, message, nil)
}

// NotFound creates a not-found error (HTTP 404).
func NotFound(message string) *Error {
	return newError(TypeNotFound, CodeNotFound, message, nil)
}

// Conflict creates a conflict error (HTTP 409).
func Conflict(message string) *Error {
	return newError(TypeConflict, CodeConflict, message, nil)
}

// Internal creates an internal error (HTTP 500).
func Internal(message string, cause error) *Error {
	return newError(TypeInternal, CodeInternal, message, cause)
}

// WithCode overrides the client-facing code (chainable).
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithField adds a context field to the error (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse is the JSON body sent to clients.
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Code:    e.Code,
		Message: e.Message,
	}
}

// AsStructuredError converts any error into a structured Error.
// If err is already an *Error, returns it unchanged.
// Otherwise wraps it as an internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}

	var structuredErr *Error
	if errors.As(err, &structuredErr) {
		return structuredErr
	}

	return Internal("internal server error", err)
}
