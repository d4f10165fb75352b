// Package response provides JSON response helpers for API handlers.
package response

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
)

// ErrorBody wraps an APIError that has no field map.
type ErrorBody struct {
	Error *apierrors.APIError `json:"error"`
}

// JSON writes data as the bare response body with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes an error response. Field errors are written as the bare
// field map; anything that is not an APIError becomes a 500.
func Error(w http.ResponseWriter, err error) {
	apiErr := apierrors.AsAPIError(err)
	if apiErr.Fields != nil {
		JSON(w, apiErr.StatusCode, apiErr.Fields)
		return
	}
	JSON(w, apiErr.StatusCode, ErrorBody{Error: apiErr})
}

// OK writes a 200 OK response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, apierrors.ErrBadRequest.WithMessage(message))
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter) {
	Error(w, apierrors.ErrInternal)
}

// ValidationErrors writes a 400 validation error response with multiple field errors.
func ValidationErrors(w http.ResponseWriter, errors map[string]string) {
	Error(w, apierrors.NewValidationErrors(errors))
}
