// Package store provides in-memory stock.TxStore implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	entries   map[stock.Key]stock.Entry
	movements []stock.Movement
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[stock.Key]stock.Entry),
	}
}

type txKey struct{}

// inTx reports whether ctx carries a transaction opened by m, in which case
// m.mu is already held by WithTx.
func (m *Memory) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Memory)
	return owner == m
}

func (m *Memory) rlock(ctx context.Context) func() {
	if m.inTx(ctx) {
		return func() {}
	}
	m.mu.RLock()
	return m.mu.RUnlock
}

func (m *Memory) lock(ctx context.Context) func() {
	if m.inTx(ctx) {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *Memory) GetEntry(ctx context.Context, key stock.Key) (*stock.Entry, error) {
	defer m.rlock(ctx)()
	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) ListEntries(ctx context.Context) ([]stock.Entry, error) {
	defer m.rlock(ctx)()
	result := make([]stock.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Kind != result[j].Kind {
			return result[i].Kind < result[j].Kind
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// SaveEntry upserts by ID. A rename moves the entry to its new key.
func (m *Memory) SaveEntry(ctx context.Context, e stock.Entry) error {
	defer m.lock(ctx)()
	if other, ok := m.entries[e.Key()]; ok && other.ID != e.ID {
		return fmt.Errorf("%w: %s", stock.ErrEntryExists, e.Key())
	}
	for k, existing := range m.entries {
		if existing.ID == e.ID && k != e.Key() {
			delete(m.entries, k)
		}
	}
	m.entries[e.Key()] = e
	return nil
}

func (m *Memory) DeleteEntry(ctx context.Context, key stock.Key) error {
	defer m.lock(ctx)()
	delete(m.entries, key)
	return nil
}

// AppendMovement adds a journal row. Append-only.
func (m *Memory) AppendMovement(ctx context.Context, mv stock.Movement) error {
	defer m.lock(ctx)()
	m.movements = append(m.movements, mv)
	return nil
}

func (m *Memory) ListMovements(ctx context.Context, key stock.Key, limit int) ([]stock.Movement, error) {
	defer m.rlock(ctx)()
	var result []stock.Movement
	for i := len(m.movements) - 1; i >= 0; i-- {
		if m.movements[i].Key != key {
			continue
		}
		result = append(result, m.movements[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a transaction.
// For the memory store this is simulated with a snapshot + rollback on error.
// Nested calls with a context from fn join the open transaction.
func (m *Memory) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.inTx(ctx) {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, m)); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	entries   map[stock.Key]stock.Entry
	movements []stock.Movement
}

func (m *Memory) snapshot() memorySnapshot {
	entries := make(map[stock.Key]stock.Entry, len(m.entries))
	for k, v := range m.entries {
		entries[k] = v
	}
	return memorySnapshot{
		entries:   entries,
		movements: append([]stock.Movement{}, m.movements...),
	}
}

func (m *Memory) restore(s memorySnapshot) {
	m.entries = s.entries
	m.movements = s.movements
}

var _ stock.TxStore = (*Memory)(nil)
