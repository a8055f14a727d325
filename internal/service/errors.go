package service

import (
	"errors"
	"fmt"
)

// ServiceError adds the failing operation to an underlying error while
// keeping it matchable with errors.Is.
type ServiceError struct {
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err for operation. A nil err yields nil.
func NewServiceError(operation string, err error) error {
	if err == nil {
		return nil
	}
	var existing *ServiceError
	if errors.As(err, &existing) {
		return err
	}
	return &ServiceError{Operation: operation, Err: err}
}
