package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service operations, checked with errors.Is.
// Errors from the domain and store packages pass through wrapped, so callers
// can also branch on domain.ErrValidation, domain.ErrAnswerShapeMismatch,
// store.ErrNotFound and the like.
var (
	// ErrCorruptAnswer is returned when a stored answer can no longer be read
	// as a value of its question's type.
	ErrCorruptAnswer = errors.New("stored answer does not fit its question")
)

// ServiceError is returned when a service operation fails. It names the
// operation and wraps the cause.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("answer service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("answer service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
