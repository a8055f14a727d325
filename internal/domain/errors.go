package domain

import "errors"

// Error kinds surfaced to callers. Each maps to a distinct, stable code.
var (
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials conflates unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers malformed, forged, expired, and orphaned tokens alike.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidInput is returned when a request value fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable is a transient failure of the backing persistence.
	// The core never retries it.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ErrorKind is the stable, client-facing code for an error.
type ErrorKind string

// Stable error codes.
const (
	KindDuplicateEmail     ErrorKind = "duplicate_email"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindInvalidToken       ErrorKind = "invalid_token"
	KindInvalidInput       ErrorKind = "invalid_input"
	KindStoreUnavailable   ErrorKind = "store_unavailable"
	KindInternal           ErrorKind = "internal"
)

// KindOf classifies err into one of the stable error kinds.
// Errors outside the taxonomy are reported as KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return KindDuplicateEmail
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrInvalidToken):
		return KindInvalidToken
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	default:
		return KindInternal
	}
}

// ValidationError describes which field of an entity or request was rejected.
// It always wraps ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
