package errors

import (
	"net/http"

	"authgate/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-facing error message
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// Is matches errors of the same business code, so a message-specific copy
// still satisfies errors.Is against the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-facing error message
func (e *BaseError) Message() string {
	return e.message
}

// WithMessage returns a copy of the error carrying a different user-facing message.
func (e *BaseError) WithMessage(message string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   message,
	}
}

// Messages returned to clients.
const (
	MsgAllFieldsRequired   = "All fields are required!"
	MsgInvalidEmailFormat  = "Invalid email format"
	MsgPasswordTooShort    = "Password must be at least 6 characters"
	MsgPasswordTooLong     = "Password must be at most 72 bytes"
	MsgLoginFieldsRequired = "Both email and password are required!"
	MsgEmailAlreadyExists  = "Email already registered!"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgInvalidRequestBody  = "Invalid request body"
	MsgUnexpectedError     = "An unexpected error occurred. Please try again later."
	MsgUserRegistered      = "User registered successfully!"
	MsgLoginSuccessful     = "Login successful!"
	MsgValidationFailed    = "Input validation failed"
)

// Predefined error types. Every client error is answered with 400,
// conflicts and bad credentials included.
var (
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		MsgValidationFailed,
	)

	ErrEmailAlreadyRegistered = NewBaseError(
		http.StatusBadRequest,
		"EMAIL_ALREADY_REGISTERED",
		MsgEmailAlreadyExists,
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusBadRequest,
		"INVALID_CREDENTIALS",
		MsgInvalidCredentials,
	)

	ErrInvalidInput = NewBaseError(
		http.StatusBadRequest,
		"INVALID_INPUT",
		MsgInvalidRequestBody,
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		MsgUnexpectedError,
	)
)

// NewValidationError returns a validation failure with a rule-specific message.
func NewValidationError(message string) *BaseError {
	return ErrValidationFailed.WithMessage(message)
}
