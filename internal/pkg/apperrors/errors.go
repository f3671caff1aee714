package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrNotFound         = errors.New("resource not found")
	ErrUniqueViolation  = errors.New("unique constraint violation")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("authentication required")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidRole      = errors.New("invalid role for this operation")
)

// Admission errors
var (
	ErrDuplicateBooking = errors.New("student is already booked for this exam")
	ErrExamInactive     = errors.New("exam is not active")
	ErrExamPassed       = errors.New("exam date has already passed")
	ErrExamFull         = errors.New("exam has no seats left")
)

// ErrTokenExpired is a more specific ErrTokenInvalid
var ErrTokenExpired = &CustomError{Err: ErrTokenInvalid, Message: "token expired", Code: "TOKEN_EXPIRED"}

// NewNotFoundError creates a new custom error for resource not found with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// NewUniqueViolationError creates a new custom error for a duplicated unique field
func NewUniqueViolationError(field, message string) error {
	return &CustomError{
		Err:     ErrUniqueViolation,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewInvalidRoleError creates a new custom error for a user holding the wrong role
func NewInvalidRoleError(message string) error {
	return &CustomError{
		Err:     ErrInvalidRole,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// Message returns the human readable message carried by err
func Message(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
