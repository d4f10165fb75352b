// Package handler provides HTTP handlers for the piedpiper API.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
	"github.com/Bidon15/piedpiper/internal/pkg/response"
)

// newValidator reports field errors under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON fills dst from the request body and validates it. An empty
// body decodes as the zero value so missing fields surface as validation
// errors.
func decodeJSON(r *http.Request, v *validator.Validate, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apierrors.ErrBadRequest.WithMessage("Invalid request body")
	}
	return validateStruct(v, dst)
}

func validateStruct(v *validator.Validate, dst any) error {
	err := v.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.ErrBadRequest
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apierrors.NewValidationErrors(fields)
}

func fieldMessage(fe validator.FieldError) string {
	label := displayName(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " field is required"
	case "email":
		return label + " is invalid"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "eqfield":
		if fe.Field() == "password2" {
			return "Passwords must match"
		}
		return fmt.Sprintf("%s must match %s", label, fe.Param())
	}
	return label + " is invalid"
}

func displayName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}

// writeError answers with err and logs anything that is not an APIError,
// since those become an opaque 500.
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if !apierrors.IsAPIError(err) {
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	response.Error(w, err)
}
