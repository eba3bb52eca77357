package farm

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnknownCategory = errors.New("unknown expense category")
	ErrNotFound        = errors.New("not found")
)

// FieldError reports an invalid field. It wraps ErrValidation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

func (e *FieldError) Unwrap() error { return ErrValidation }

func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrUnknownCategory)
}
