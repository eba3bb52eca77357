/*
Package sqlite provides the database/sql implementation of every store
interface in the service.

PURPOSE:
  One Store value implements stock.TxStore, inventory.Store,
  attendance.Store and farm.Store over a single database. Because they share
  the connection pool, a record write and the ledger deltas it implies join
  the same transaction and commit together.

DRIVERS:
  sqlite    github.com/mattn/go-sqlite3 (default, file or ":memory:")
  postgres  github.com/jackc/pgx/v5/stdlib

  The schema and queries are written once. Placeholders are "?" and are
  rebound to "$n" for PostgreSQL; upserts use ON CONFLICT which both
  dialects understand.

INTERFACES IMPLEMENTED:
  stock.TxStore:     stock_entries, stock_movements       (stock.go)
  inventory.Store:   sales, production, expenses,
                     raw_material_usage, orders           (inventory.go)
  attendance.Store:  employees, attendance                (attendance.go)
  farm.Store:        farm_crops, farm_batches, farm_*     (farm.go)

APPEND-ONLY ENFORCEMENT:
  stock_movements is never updated or deleted. Removing a stock entry keeps
  its movements.

TRANSACTIONS:
  WithTx stores the *sql.Tx in the context handed to fn. Every method picks
  the transaction up from its context, and nested WithTx calls join it.
  Commit happens only when the outermost fn returns nil.

CONCURRENCY:
  SQLite runs with a single open connection, so writers are serialized by
  the pool. PostgreSQL locks the stock row with SELECT ... FOR UPDATE inside
  a transaction; two transactions racing to create the same key surface as
  stock.ErrConcurrentModification.

STORAGE FORMATS:
  decimals   TEXT (exact)
  dates      TEXT "2006-01-02" (string order == date order)
  timestamps TEXT RFC3339Nano
  lists      TEXT JSON (line items, farm expense detail)

USAGE:
  store, err := sqlite.New("./data/rks.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := stock.NewLedger(store)
  sales := inventory.NewService(store, ledger)

MIGRATION:
  Schema is auto-migrated on open. For production, use a proper migration
  tool with versioned migrations.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

// Dialect selects SQL differences between backends.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

const dateLayout = "2006-01-02"

// Store implements all storage interfaces using database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	return Open("sqlite", dbPath)
}

// Open connects to driver ("sqlite" or "postgres") and migrates the schema.
func Open(driver, dsn string) (*Store, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		dialect = DialectSQLite
		db, err = sql.Open("sqlite3", sqliteDSN(dsn))
		if err == nil {
			// One connection: serializes writers and keeps ":memory:" a single database.
			db.SetMaxOpenConns(1)
		}
	case "postgres", "postgresql", "pgx":
		dialect = DialectPostgres
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, dialect: dialect}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate(ctx context.Context) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == DialectPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		// Stock ledger: current state
		`CREATE TABLE IF NOT EXISTS stock_entries (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			qty TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL,
			UNIQUE (kind, name)
		)`,

		// Stock ledger: append-only journal
		`CREATE TABLE IF NOT EXISTS stock_movements (
			seq ` + serial + `,
			id TEXT NOT NULL UNIQUE,
			entry_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			delta TEXT NOT NULL,
			before_qty TEXT NOT NULL,
			after_qty TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			reason TEXT NOT NULL,
			ref TEXT NOT NULL DEFAULT '',
			at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_key
			ON stock_movements(kind, name, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_ref
			ON stock_movements(ref)`,

		// Stock-moving records
		`CREATE TABLE IF NOT EXISTS sales (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			customer TEXT NOT NULL DEFAULT '',
			items_json TEXT NOT NULL,
			total TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date)`,

		`CREATE TABLE IF NOT EXISTS production (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			item TEXT NOT NULL,
			qty TEXT NOT NULL,
			packed_qty TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_production_date ON production(date)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			category TEXT NOT NULL,
			material_name TEXT NOT NULL DEFAULT '',
			quantity TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			amount TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,

		`CREATE TABLE IF NOT EXISTS raw_material_usage (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			material_name TEXT NOT NULL,
			quantity_used TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			purpose TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_date ON raw_material_usage(date)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			customer TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			order_date TEXT NOT NULL,
			delivery_date TEXT NOT NULL DEFAULT '',
			items_json TEXT NOT NULL,
			advance TEXT NOT NULL,
			status TEXT NOT NULL,
			sale_id TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,

		// Attendance
		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			daily_salary TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			joined_at TEXT NOT NULL
		)`,

		// One record per (employee, date)
		`CREATE TABLE IF NOT EXISTS attendance (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			status TEXT NOT NULL,
			custom_salary TEXT,
			salary TEXT NOT NULL DEFAULT '0',
			UNIQUE (employee_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance(date)`,

		// Farm
		`CREATE TABLE IF NOT EXISTS farm_crops (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			variety TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS farm_batches (
			id TEXT PRIMARY KEY,
			crop_id TEXT NOT NULL REFERENCES farm_crops(id),
			name TEXT NOT NULL,
			start_date TEXT NOT NULL,
			area TEXT NOT NULL,
			area_unit TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS farm_expenses (
			id TEXT PRIMARY KEY,
			batch_id TEXT NOT NULL REFERENCES farm_batches(id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			category TEXT NOT NULL,
			kind TEXT NOT NULL,
			amount TEXT NOT NULL,
			detail_json TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_farm_expenses_batch ON farm_expenses(batch_id, date)`,
		`CREATE TABLE IF NOT EXISTS farm_income (
			id TEXT PRIMARY KEY,
			batch_id TEXT NOT NULL REFERENCES farm_batches(id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			source TEXT NOT NULL,
			quantity TEXT NOT NULL,
			unit TEXT NOT NULL DEFAULT '',
			amount TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_farm_income_batch ON farm_income(batch_id, date)`,
		`CREATE TABLE IF NOT EXISTS farm_tasks (
			id TEXT PRIMARY KEY,
			batch_id TEXT NOT NULL REFERENCES farm_batches(id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			title TEXT NOT NULL,
			done INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_farm_tasks_batch ON farm_tasks(batch_id, date)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Reset deletes all data. Intended for tests and demo resets.
func (s *Store) Reset(ctx context.Context) error {
	return s.WithTx(ctx, func(ctx context.Context) error {
		tables := []string{
			"farm_tasks", "farm_income", "farm_expenses", "farm_batches", "farm_crops",
			"attendance", "employees",
			"orders", "raw_material_usage", "expenses", "production", "sales",
			"stock_movements", "stock_entries",
		}
		for _, table := range tables {
			if _, err := s.exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to reset %s: %w", table, err)
			}
		}
		return nil
	})
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type txKey struct{}

type txState struct {
	owner *Store
	tx    *sql.Tx
}

func (s *Store) txFrom(ctx context.Context) *sql.Tx {
	if st, ok := ctx.Value(txKey{}).(*txState); ok && st.owner == s {
		return st.tx
	}
	return nil
}

// WithTx executes fn within a database transaction. A nested call with a
// context from fn joins the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, &txState{owner: s, tx: sqlTx})); err != nil {
		return err
	}

	return sqlTx.Commit()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) q(ctx context.Context) querier {
	if tx := s.txFrom(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.q(ctx).ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q(ctx).QueryContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q(ctx).QueryRowContext(ctx, s.rebind(query), args...)
}

// rebind turns "?" placeholders into "$1", "$2", ... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// =============================================================================
// HELPERS
// =============================================================================

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	return false
}

func affected(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(dateLayout, s)
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// dateRange appends inclusive bounds on col to where/args. Zero bounds are skipped.
func dateRange(col string, from, to time.Time, where []string, args []any) ([]string, []any) {
	if !from.IsZero() {
		where = append(where, col+" >= ?")
		args = append(args, formatDate(from))
	}
	if !to.IsZero() {
		where = append(where, col+" <= ?")
		args = append(args, formatDate(to))
	}
	return where, args
}

func whereClause(where []string) string {
	if len(where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(where, " AND ")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
