package attendance

import "errors"

var (
	ErrValidation       = errors.New("validation failed")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNotFound         = errors.New("attendance record not found")
	ErrInvalidStatus    = errors.New("invalid attendance status")
)

// IsClientError returns true for errors caused by the request itself.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidStatus)
}

// IsNotFound returns true for a missing employee or attendance record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) || errors.Is(err, ErrNotFound)
}
