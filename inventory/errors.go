package inventory

import (
	"errors"
	"fmt"

	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition is returned for an order status change that is not allowed.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrOrderClosed is returned when editing an order that is no longer waiting.
	ErrOrderClosed = errors.New("order is closed")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
}

// IsClientError returns true for errors caused by the request itself.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrOrderClosed) ||
		stock.IsClientError(err)
}
