package store

import (
	"errors"
	"fmt"

	"github.com/phrazzld/alfa-api/internal/domain"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrUnavailable is returned when the backing store cannot be reached,
	// times out, or has been closed. It matches domain.ErrStoreUnavailable.
	ErrUnavailable = fmt.Errorf("%w: backend unreachable", domain.ErrStoreUnavailable)

	// ErrOutOfRange is returned when a value does not fit the backend's
	// column type. It matches domain.ErrInvalidInput.
	ErrOutOfRange = fmt.Errorf("%w: value out of range", domain.ErrInvalidInput)

	// ErrIdentityNotFound indicates that the requested identity does not exist.
	ErrIdentityNotFound = fmt.Errorf("%w: identity", ErrNotFound)

	// ErrEmailExists indicates that an identity with the given normalized
	// email already exists. It matches domain.ErrDuplicateEmail.
	ErrEmailExists = &duplicateEmailError{}
)

type duplicateEmailError struct{}

func (*duplicateEmailError) Error() string { return "entity already exists: email" }

func (*duplicateEmailError) Is(target error) bool {
	return target == ErrDuplicate || target == domain.ErrDuplicateEmail
}

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsUnavailableError reports whether err means the store could not serve the request.
func IsUnavailableError(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, domain.ErrStoreUnavailable)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "identity", "progress")
	Operation string // The operation that failed (e.g., "create", "append")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
