package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/citasmx/citas-api/internal/api/shared"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/citasmx/citas-api/internal/service/auth"
	"github.com/citasmx/citas-api/internal/service/catalog"
	"github.com/citasmx/citas-api/internal/store"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
// Missing and soft-deleted rows are both 403 so callers cannot probe for
// ids; every invalid parameter is 406.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	case auth.IsUnauthenticated(err):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, catalog.ErrDeleted):
		return http.StatusForbidden

	case errors.Is(err, shared.ErrMalformedBody):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrInvalidCURP),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &validationErrs):
		return http.StatusNotAcceptable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message that never includes
// internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, auth.ErrForbidden):
		return "Insufficient permissions"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"
	case auth.IsUnauthenticated(err):
		return "Invalid credentials"

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, catalog.ErrDeleted):
		return "Resource not available"

	case errors.Is(err, shared.ErrMalformedBody):
		return "Invalid request format"

	// field names and messages of ValidationError are static text
	case errors.As(err, &validationErr):
		return "Invalid " + validationErr.Field + ": " + validationErr.Message
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)

	case errors.Is(err, domain.ErrInvalidDateRange):
		return "Invalid date range"
	case errors.Is(err, domain.ErrOutOfRange):
		return "Value out of range"
	case errors.Is(err, domain.ErrInvalidDate):
		return "Invalid date"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrInvalidCURP):
		return "Invalid CURP"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator failures into a short message
// naming the fields, without echoing the submitted values.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, "Invalid "+strings.ToLower(fe.Field())+": "+getValidationTagMessage(fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted error. fallback replaces the message of 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
