package service

import (
	"errors"
	"fmt"
)

// Service errors callers check with errors.Is. The API layer maps the
// bad-request group to 400 and the credential group to 401.
var (
	// ErrInvalidPagination is returned for a negative page or page size.
	ErrInvalidPagination = errors.New("invalid pagination parameters")

	// ErrInvalidSort is returned for an unsupported sort field.
	ErrInvalidSort = errors.New("invalid sort field")

	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already registered")

	// ErrInvalidCredentials covers unknown email, wrong password and
	// inactive accounts alike so login never reveals which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned when an authenticated identity
	// belongs to a deactivated account.
	ErrAccountDisabled = errors.New("account is disabled")
)

// ServiceError carries the operation that failed.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a ServiceError for the task service.
func NewTaskServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Service: "task", Operation: operation, Message: message, Err: err}
}

// NewAccountServiceError creates a ServiceError for the account service.
func NewAccountServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Service: "account", Operation: operation, Message: message, Err: err}
}

// IsBadRequest reports whether err stems from caller input the service rejected.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidPagination) ||
		errors.Is(err, ErrInvalidSort) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrEmailTaken)
}
