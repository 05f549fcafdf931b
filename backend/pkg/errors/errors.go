package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInvalidArgument represents malformed identifiers and rejected arguments
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	// ErrorTypeValidation represents request bodies that failed schema checks
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents missing target or referenced records
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConflict represents uniqueness violations and blocked deletes
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeUnauthorized represents missing or invalid credentials
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeInternal represents unexpected failures
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeStorage represents backend connectivity failures
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Details   []string // Per-field messages for validation errors
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// NewInvalidArgument is returned for malformed ids and arguments the operation rejects
func NewInvalidArgument(message string) *BaseError {
	return NewBaseError(ErrorTypeInvalidArgument, message, nil)
}

// NewInvalidID builds the "Invalid <resource> ID" error
func NewInvalidID(resource string) *BaseError {
	return NewInvalidArgument(fmt.Sprintf("Invalid %s ID", resource))
}

// NewValidation collects every failed field check into one error
func NewValidation(details []string) *BaseError {
	e := NewBaseError(ErrorTypeValidation, "Validation failed", nil)
	e.Details = details
	return e
}

// NewNotFound builds the "<resource> not found" error
func NewNotFound(resource string) *BaseError {
	return NewBaseError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConflict is returned when a write would break a uniqueness or structural rule
func NewConflict(message string, err error) *BaseError {
	return NewBaseError(ErrorTypeConflict, message, err)
}

// NewAlreadyExists builds the "<resource> already exists" conflict
func NewAlreadyExists(resource string, err error) *BaseError {
	return NewConflict(fmt.Sprintf("%s already exists", resource), err)
}

// NewUnauthorized is returned when a token is missing, malformed or expired
func NewUnauthorized(message string, err error) *BaseError {
	return NewBaseError(ErrorTypeUnauthorized, message, err)
}

// NewInternal wraps an unexpected failure. The message is safe to show to clients.
func NewInternal(message string, err error) *BaseError {
	return NewBaseError(ErrorTypeInternal, message, err)
}

// Storage Errors

// ErrStorageUnavailable is returned when the configured backend cannot be reached
type ErrStorageUnavailable struct {
	*BaseError
	Backend string
}

func NewStorageUnavailable(backend string, err error) *ErrStorageUnavailable {
	return &ErrStorageUnavailable{
		BaseError: NewBaseError(ErrorTypeStorage, fmt.Sprintf("storage backend unavailable: %s", backend), err),
		Backend:   backend,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// AsBaseError finds the first BaseError in the chain
func AsBaseError(err error) (*BaseError, bool) {
	var baseErr *BaseError
	if stderrors.As(err, &baseErr) {
		return baseErr, true
	}
	// Wrapper structs embed *BaseError without being one
	var embedded interface{ Base() *BaseError }
	if stderrors.As(err, &embedded) {
		return embedded.Base(), true
	}
	return nil, false
}

// Base exposes the embedded BaseError of wrapper structs
func (e *BaseError) Base() *BaseError {
	return e
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if baseErr, ok := AsBaseError(err); ok {
		return baseErr.Type == errType
	}
	return false
}

// HTTPStatus maps an error to the status code the API answers with
func HTTPStatus(err error) int {
	baseErr, ok := AsBaseError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch baseErr.Type {
	case ErrorTypeInvalidArgument, ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case ErrorTypeStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message a client may see for err
func PublicMessage(err error) string {
	if baseErr, ok := AsBaseError(err); ok {
		return baseErr.Message
	}
	return "Internal server error"
}
