// Package errors provides structured error handling for the
// application, with a small code taxonomy mapped onto HTTP statuses.
package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents an error code.
type ErrorCode string

const (
	// Client errors (4xx)
	CodeBadRequest       ErrorCode = "BAD_REQUEST"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"

	// Server errors (5xx)
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// AppError is an application error carrying a code, a client-safe
// message and an optional cause. The cause is never serialized, so
// provider details cannot leak to API clients.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status for the error code.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest, CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WithCause attaches a cause error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates a new application error.
func New(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewBadRequestError creates a bad request error.
func NewBadRequestError(message string) *AppError {
	return New(CodeBadRequest, message, "")
}

// NewValidationError creates a validation error.
func NewValidationError(details string) *AppError {
	return New(CodeValidationFailed, "Validation failed", details)
}

// NewNotFoundError creates a not found error for a resource type.
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return New(CodeNotFound, message, "")
}

// NewInternalError creates an internal server error.
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return New(CodeInternal, message, "")
}

// NewExternalServiceError creates an external service error. The
// service name stays in the details for logs; the message is generic
// enough to return to clients.
func NewExternalServiceError(service string, cause error) *AppError {
	return New(
		CodeExternalServiceError,
		"Service temporarily unavailable, please try again",
		fmt.Sprintf("failed to communicate with %s", service),
	).WithCause(cause)
}

// Wrap wraps an error as an internal error if it is not already an
// AppError.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// Is checks whether an error carries a specific code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the code from an error, defaulting to internal.
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeInternal
}

// ErrorResponse is the wire shape for API errors.
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

// ErrorDetails carries the client-visible part of an error.
type ErrorDetails struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// ToErrorResponse converts an AppError to an API error response.
func ToErrorResponse(err *AppError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			Code:      err.Code,
			Message:   err.Message,
			RequestID: requestID,
			Timestamp: time.Now().Unix(),
		},
	}
}
