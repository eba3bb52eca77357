package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
)

// =============================================================================
// STOCK STORE (stock.Store interface)
// =============================================================================

const entryColumns = `id, kind, name, qty, unit, updated_at`

// GetEntry returns the entry for key or nil. Inside a PostgreSQL transaction
// the row is locked until commit.
func (s *Store) GetEntry(ctx context.Context, key stock.Key) (*stock.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM stock_entries WHERE kind = ? AND name = ?`
	if s.dialect == DialectPostgres && s.txFrom(ctx) != nil {
		query += ` FOR UPDATE`
	}

	e, err := scanEntry(s.queryRow(ctx, query, string(key.Kind), key.Name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock entry %s: %w", key, err)
	}
	return &e, nil
}

func (s *Store) ListEntries(ctx context.Context) ([]stock.Entry, error) {
	rows, err := s.query(ctx, `SELECT `+entryColumns+` FROM stock_entries ORDER BY kind, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock entries: %w", err)
	}
	defer rows.Close()

	var entries []stock.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveEntry upserts by id. A (kind, name) owned by another id is ErrEntryExists.
func (s *Store) SaveEntry(ctx context.Context, e stock.Entry) error {
	query := `
		INSERT INTO stock_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			name = excluded.name,
			qty = excluded.qty,
			unit = excluded.unit,
			updated_at = excluded.updated_at
	`
	_, err := s.exec(ctx, query,
		e.ID, string(e.Kind), e.Name, e.Qty.String(), e.Unit, formatTime(e.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", stock.ErrEntryExists, e.Key())
		}
		return fmt.Errorf("failed to save stock entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, key stock.Key) error {
	_, err := s.exec(ctx, `DELETE FROM stock_entries WHERE kind = ? AND name = ?`, string(key.Kind), key.Name)
	return err
}

// AppendMovement journals a movement. There is no update or delete counterpart.
func (s *Store) AppendMovement(ctx context.Context, m stock.Movement) error {
	query := `
		INSERT INTO stock_movements
		(id, entry_id, kind, name, delta, before_qty, after_qty, unit, reason, ref, at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.exec(ctx, query,
		m.ID, m.EntryID, string(m.Key.Kind), m.Key.Name,
		m.Delta.String(), m.Before.String(), m.After.String(),
		m.Unit, string(m.Reason), m.Ref, formatTime(m.At),
	)
	if err != nil {
		return fmt.Errorf("failed to append movement: %w", err)
	}
	return nil
}

func (s *Store) ListMovements(ctx context.Context, key stock.Key, limit int) ([]stock.Movement, error) {
	query := `
		SELECT id, entry_id, kind, name, delta, before_qty, after_qty, unit, reason, ref, at
		FROM stock_movements
		WHERE kind = ? AND name = ?
		ORDER BY seq DESC
	`
	args := []any{string(key.Kind), key.Name}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	var movements []stock.Movement
	for rows.Next() {
		var (
			m                    stock.Movement
			kind, reason, at     string
			delta, before, after string
		)
		if err := rows.Scan(&m.ID, &m.EntryID, &kind, &m.Key.Name,
			&delta, &before, &after, &m.Unit, &reason, &m.Ref, &at); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		m.Key.Kind = stock.Kind(kind)
		m.Reason = stock.Reason(reason)
		m.Delta = parseDecimal(delta)
		m.Before = parseDecimal(before)
		m.After = parseDecimal(after)
		m.At = parseTime(at)
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (stock.Entry, error) {
	var (
		e                    stock.Entry
		kind, qty, updatedAt string
	)
	if err := row.Scan(&e.ID, &kind, &e.Name, &qty, &e.Unit, &updatedAt); err != nil {
		return e, err
	}
	e.Kind = stock.Kind(kind)
	e.Qty = parseDecimal(qty)
	e.UpdatedAt = parseTime(updatedAt)
	return e, nil
}

// parseDecimal reads a decimal written by this store. Malformed values read as zero.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var _ stock.TxStore = (*Store)(nil)
