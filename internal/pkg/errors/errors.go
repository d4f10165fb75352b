// Package errors provides standardized API error types.
package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a standardized API error response.
//
// When Fields is set the error is rendered as the bare field-to-message
// object, e.g. {"email": "Email already exists"}, which is the shape the
// dashboard frontend reads. Otherwise it is rendered as {"error": {...}}.
type APIError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	StatusCode int               `json:"-"`
	Details    any               `json:"details,omitempty"`
	Fields     map[string]string `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// WithDetails returns a copy of the error with additional details.
func (e *APIError) WithDetails(details any) *APIError {
	return &APIError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Details:    details,
		Fields:     e.Fields,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *APIError) WithMessage(message string) *APIError {
	return &APIError{
		Code:       e.Code,
		Message:    message,
		StatusCode: e.StatusCode,
		Details:    e.Details,
		Fields:     e.Fields,
	}
}

// Standard error definitions
var (
	// ErrUnauthenticated is returned when the bearer token is missing,
	// malformed, or fails signature or expiry verification.
	ErrUnauthenticated = &APIError{
		Code:       "unauthenticated",
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	// ErrSessionNotFound is returned when a verified token has no session,
	// typically after logout.
	ErrSessionNotFound = &APIError{
		Code:       "session_not_found",
		Message:    "Session not found",
		StatusCode: http.StatusUnauthorized,
	}

	// ErrSessionMismatch is returned when the token is valid but the
	// request IP, user agent or validity flag does not match its session.
	ErrSessionMismatch = &APIError{
		Code:       "session_mismatch",
		Message:    "Session is not valid for this client",
		StatusCode: http.StatusForbidden,
	}

	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = &APIError{
		Code:       "not_found",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	// ErrBadRequest is returned when the request is malformed.
	ErrBadRequest = &APIError{
		Code:       "bad_request",
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	// ErrInternal is returned for unexpected server errors.
	ErrInternal = &APIError{
		Code:       "internal_error",
		Message:    "An internal error occurred",
		StatusCode: http.StatusInternalServerError,
	}

	// ErrPayloadTooLarge is returned when an upload exceeds the limit.
	ErrPayloadTooLarge = &APIError{
		Code:       "payload_too_large",
		Message:    "Upload exceeds the size limit",
		StatusCode: http.StatusRequestEntityTooLarge,
	}

	// ErrDuplicateEmail is returned by registration for a taken email.
	ErrDuplicateEmail = NewFieldError(http.StatusBadRequest, "email", "Email already exists")

	// ErrDuplicateIdentifier is returned when a client identifier is taken.
	ErrDuplicateIdentifier = NewFieldError(http.StatusBadRequest, "identifier", "Identifier already exists")

	// ErrEmailNotFound is returned by login for an unknown email.
	ErrEmailNotFound = NewFieldError(http.StatusNotFound, "emailnotfound", "Email not found")

	// ErrPasswordIncorrect is returned by login when the password does not verify.
	ErrPasswordIncorrect = NewFieldError(http.StatusBadRequest, "passwordincorrect", "Password incorrect")
)

// NewFieldError creates an error rendered as {field: message}.
func NewFieldError(status int, field, message string) *APIError {
	return &APIError{
		Code:       field,
		Message:    message,
		StatusCode: status,
		Fields:     map[string]string{field: message},
	}
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *APIError {
	return NewValidationErrors(map[string]string{field: message})
}

// NewValidationErrors creates a validation error with multiple field errors.
func NewValidationErrors(errors map[string]string) *APIError {
	return &APIError{
		Code:       "validation_error",
		Message:    "One or more fields failed validation",
		StatusCode: http.StatusBadRequest,
		Fields:     errors,
	}
}

// NewNotFoundError creates a not found error for a specific resource type.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "not_found",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

// IsAPIError checks if an error is an APIError.
func IsAPIError(err error) bool {
	_, ok := err.(*APIError)
	return ok
}

// AsAPIError converts an error to an APIError if possible.
// Returns ErrInternal if the error is not an APIError.
func AsAPIError(err error) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return ErrInternal
}
