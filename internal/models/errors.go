package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrNotFound          = errors.New("not found")
	ErrProductNotFound   = fmt.Errorf("product %w", ErrNotFound)
	ErrVariantNotFound   = fmt.Errorf("variant %w", ErrNotFound)
	ErrEventNotFound     = fmt.Errorf("event %w", ErrNotFound)
	ErrOrderNotFound     = fmt.Errorf("order %w", ErrNotFound)
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrVendorNotFound    = fmt.Errorf("vendor %w", ErrNotFound)
	ErrManagerNotFound   = fmt.Errorf("event manager %w", ErrNotFound)
	ErrSessionNotFound   = fmt.Errorf("booking session %w", ErrNotFound)
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSoldOut           = errors.New("not enough tickets left")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrInvalidInput      = errors.New("invalid input")
)

// ValidationError is a user input that fails a precondition. It is shown to
// the user as a transient message and never treated as a server failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError is returned when an entity id has no backing record
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TransportError is a network or server failure. Message carries the
// server-provided message when there was one.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned for any operation on a booking session whose
// countdown has elapsed
type TimeoutError struct {
	SessionID string
}

func (e *TimeoutError) Error() string {
	return "booking session expired"
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTimeout reports whether err is a TimeoutError
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
