package errors

import "fmt"

// Error codes. Clients branch on these, never on message text.
const (
	ErrCodeUnauthenticated    = "UNAUTHENTICATED"
	ErrCodeInvalidArgument    = "INVALID_ARGUMENT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeFailedPrecondition = "FAILED_PRECONDITION"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeInternal           = "INTERNAL"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Stable reason code (e.g., "NOT_FOUND", "FAILED_PRECONDITION")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewUnauthenticatedError creates a new UNAUTHENTICATED error
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthenticated,
		Message: message,
		Status:  401,
	}
}

// NewInvalidArgumentError creates a new INVALID_ARGUMENT error
func NewInvalidArgumentError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf("invalid %s: %s", field, reason),
		Status:  400,
	}
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewFailedPreconditionError creates a new FAILED_PRECONDITION error
func NewFailedPreconditionError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeFailedPrecondition,
		Message: message,
		Status:  412,
	}
}

// NewAlreadyExistsError creates a new ALREADY_EXISTS error
func NewAlreadyExistsError(resource string, key string) *AppError {
	return &AppError{
		Code:    ErrCodeAlreadyExists,
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
		Status:  409,
	}
}

// NewInternalError creates a new INTERNAL error wrapping the cause
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}
