/*
errors.go - Centralized error types for the stock ledger

ERROR CATEGORIES:
  1. Key errors        - malformed (kind, name)
  2. Entry errors      - missing or colliding entries
  3. Quantity errors   - negative stock in hardened mode
  4. Store errors      - concurrent writers

USAGE:
  if errors.Is(err, stock.ErrInsufficientStock) {
      var short *stock.InsufficientStockError
      errors.As(err, &short)
  }
*/
package stock

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidKey is returned for an unknown kind or an empty name.
	ErrInvalidKey = errors.New("invalid stock key")

	// ErrEntryNotFound is returned when removing or overwriting needs an entry that is absent.
	ErrEntryNotFound = errors.New("stock entry not found")

	// ErrEntryExists is returned when a rename collides with another entry.
	ErrEntryExists = errors.New("stock entry already exists")

	// ErrInsufficientStock is returned when a decrease would leave an entry negative
	// and the ledger does not allow negative stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConcurrentModification is returned when two writers create the same key at once.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InsufficientStockError provides details about a stock shortage.
type InsufficientStockError struct {
	Key       Key
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %s, requested %s",
		e.Key, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidKey) ||
		errors.Is(err, ErrEntryExists) ||
		errors.Is(err, ErrInsufficientStock)
}

// IsNotFound returns true if the error indicates a missing entry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}
