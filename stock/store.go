/*
store.go - Persistence interfaces for the stock ledger

KEY INTERFACES:
  Store:      entries (current state) + movements (append-only journal)
  Transactor: runs a function inside one store transaction
  TxStore:    both

TRANSACTIONS:
  WithTx carries the open transaction in the context it hands to fn.
  Every Store method called with that context joins the transaction, and a
  nested WithTx on the same store joins instead of opening a new one. This is
  what lets a domain service write its record and the ledger deltas as one
  atomic unit: if any step fails, nothing is applied.

IMPLEMENTATIONS:
  - stock/store/memory.go: in-memory, snapshot + rollback
  - store/sqlite:          SQLite / PostgreSQL via database/sql
*/
package stock

import "context"

// Store persists ledger entries and their movements.
type Store interface {
	// GetEntry returns the entry for key, or nil if absent.
	// Inside a transaction the row is locked for update where the backend supports it.
	GetEntry(ctx context.Context, key Key) (*Entry, error)

	// ListEntries returns every entry ordered by kind, then name.
	ListEntries(ctx context.Context) ([]Entry, error)

	// SaveEntry inserts or updates an entry by ID.
	// Returns ErrEntryExists if another entry already owns (kind, name).
	SaveEntry(ctx context.Context, e Entry) error

	// DeleteEntry removes the entry for key. Missing keys are not an error.
	DeleteEntry(ctx context.Context, key Key) error

	// AppendMovement journals an applied delta.
	AppendMovement(ctx context.Context, m Movement) error

	// ListMovements returns movements for key, newest first. limit <= 0 means all.
	ListMovements(ctx context.Context, key Key, limit int) ([]Movement, error)
}

// Transactor runs fn within a transaction.
// If fn returns an error the transaction is rolled back, otherwise committed.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TxStore is a Store with transaction support.
type TxStore interface {
	Store
	Transactor
}
