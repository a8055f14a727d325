package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/alfa-api/internal/api/shared"
	"github.com/phrazzld/alfa-api/internal/domain"
)

// MapErrorToStatusCode maps an error to its HTTP status through its domain
// error kind. Unclassified errors become 500.
func MapErrorToStatusCode(err error) int {
	switch domain.KindOf(err) {
	case domain.KindDuplicateEmail:
		return http.StatusConflict
	case domain.KindInvalidCredentials, domain.KindInvalidToken:
		return http.StatusUnauthorized
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err. It never
// includes the error's own text, except for validation details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch domain.KindOf(err) {
	case domain.KindDuplicateEmail:
		return "Email already registered"
	case domain.KindInvalidCredentials:
		return "Invalid credentials"
	case domain.KindInvalidToken:
		return "Invalid token"
	case domain.KindInvalidInput:
		return SanitizeValidationError(err)
	case domain.KindStoreUnavailable:
		return "Service temporarily unavailable"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validation failure into a short message
// naming the offending field.
func SanitizeValidationError(err error) string {
	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) {
		return fmt.Sprintf("Invalid %s: %s", fieldErr.Field, fieldErr.Message)
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		first := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", first.Field(), getValidationTagMessage(first.Tag()))
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. A non-empty
// customMessage replaces the default safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, customMessage string) {
	status := MapErrorToStatusCode(err)

	message := customMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, domain.KindOf(err), message, err, opts...)
}

// invalidRequest wraps a decode or struct validation failure so it maps to
// KindInvalidInput.
func invalidRequest(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
}
