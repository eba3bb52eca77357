/*
ledger.go - Delta applier over the stock store

PURPOSE:
  The Ledger is the single entry point for changing on-hand quantities.
  Domain services never write entries directly; they hand deltas to the
  ledger (usually through the Reconciler) and the ledger keeps entries and
  the movement journal consistent.

OPERATIONS:
  Get          current entry, absence reported as (zero entry, false)
  ApplyDelta   qty += delta, creating the entry on first use
  ApplyBatch   several deltas, all or nothing
  SetAbsolute  manual overwrite (may rename, keeps the entry ID)
  Remove       manual clear, deletes the entry
  Shortages    advisory check before a decrease

NEGATIVE STOCK:
  By default an entry may go negative: that is how oversold or over-used
  inventory shows up. WithNegativeStock(false) hardens the ledger so any
  decrease that ends below zero fails with *InsufficientStockError and the
  surrounding transaction rolls back.

EXAMPLE:
  Product "கை முறுக்கு" at 100 kg:
    ApplyDelta(-10) -> 90
    ApplyDelta(+10), ApplyDelta(-15) -> 85

SEE ALSO:
  - reconciler.go: revert/apply on record edits
  - store.go:      transaction semantics
*/
package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	store         TxStore
	allowNegative bool
	now           func() time.Time
}

type Option func(*Ledger)

// WithNegativeStock controls whether entries may go below zero.
func WithNegativeStock(allow bool) Option {
	return func(l *Ledger) { l.allowNegative = allow }
}

// WithClock overrides the time source used for entry and movement timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(store TxStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:         store,
		allowNegative: true,
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AllowsNegative reports the ledger's negative stock policy.
func (l *Ledger) AllowsNegative() bool { return l.allowNegative }

// WithTx runs fn in the ledger store's transaction. Record stores sharing the
// same backend join it, so a record write and its deltas commit together.
func (l *Ledger) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return l.store.WithTx(ctx, fn)
}

// =============================================================================
// READS
// =============================================================================

// Get returns the entry for key. A missing entry is reported as ok=false with
// a zero quantity; it is not an error.
func (l *Ledger) Get(ctx context.Context, key Key) (Entry, bool, error) {
	if err := key.Validate(); err != nil {
		return Entry{}, false, err
	}
	e, err := l.store.GetEntry(ctx, key)
	if err != nil {
		return Entry{}, false, err
	}
	if e == nil {
		return Entry{Kind: key.Kind, Name: key.Name, Qty: decimal.Zero}, false, nil
	}
	return *e, true, nil
}

// List returns every entry ordered by kind, then name.
func (l *Ledger) List(ctx context.Context) ([]Entry, error) {
	return l.store.ListEntries(ctx)
}

// Movements returns the journal for key, newest first.
func (l *Ledger) Movements(ctx context.Context, key Key, limit int) ([]Movement, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return l.store.ListMovements(ctx, key, limit)
}

// Shortages reports every key whose net decrease in deltas exceeds what is on hand.
// It never modifies the ledger.
func (l *Ledger) Shortages(ctx context.Context, deltas []Delta) ([]Shortage, error) {
	var shortages []Shortage
	for _, d := range collapse(deltas) {
		if !d.Qty.IsNegative() {
			continue
		}
		e, _, err := l.Get(ctx, d.Key)
		if err != nil {
			return nil, err
		}
		requested := d.Qty.Neg()
		if requested.GreaterThan(e.Qty) {
			shortages = append(shortages, Shortage{
				Key:       d.Key,
				Available: e.Qty,
				Requested: requested,
				Shortfall: requested.Sub(e.Qty),
			})
		}
	}
	return shortages, nil
}

// =============================================================================
// WRITES
// =============================================================================

// ApplyDelta adds d.Qty to the entry for d.Key, creating it with qty = d.Qty
// when absent. The unit is replaced only when d.Unit is set.
func (l *Ledger) ApplyDelta(ctx context.Context, d Delta) (Entry, error) {
	var out Entry
	err := l.store.WithTx(ctx, func(ctx context.Context) error {
		e, err := l.apply(ctx, d)
		out = e
		return err
	})
	return out, err
}

// ApplyBatch applies deltas in order inside one transaction.
func (l *Ledger) ApplyBatch(ctx context.Context, deltas []Delta) error {
	if len(deltas) == 0 {
		return nil
	}
	return l.store.WithTx(ctx, func(ctx context.Context) error {
		for _, d := range deltas {
			if _, err := l.apply(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
}

func (l *Ledger) apply(ctx context.Context, d Delta) (Entry, error) {
	if err := d.Key.Validate(); err != nil {
		return Entry{}, err
	}
	cur, err := l.store.GetEntry(ctx, d.Key)
	if err != nil {
		return Entry{}, err
	}

	now := l.now()
	var e Entry
	before := decimal.Zero
	if cur == nil {
		e = Entry{
			ID:   uuid.NewString(),
			Kind: d.Key.Kind,
			Name: d.Key.Name,
			Qty:  d.Qty,
			Unit: d.Unit,
		}
	} else {
		e = *cur
		before = e.Qty
		e.Qty = e.Qty.Add(d.Qty)
		if d.Unit != "" {
			e.Unit = d.Unit
		}
	}
	e.UpdatedAt = now

	// A decrease that ends below zero is the only thing hardened mode rejects;
	// topping up an already negative entry is always allowed.
	if !l.allowNegative && d.Qty.IsNegative() && e.Qty.IsNegative() {
		return Entry{}, &InsufficientStockError{Key: d.Key, Available: before, Requested: d.Qty.Neg()}
	}

	if err := l.store.SaveEntry(ctx, e); err != nil {
		if cur == nil && errors.Is(err, ErrEntryExists) {
			// Someone created the key between our read and write.
			return Entry{}, fmt.Errorf("%w: %s", ErrConcurrentModification, d.Key)
		}
		return Entry{}, err
	}

	if d.Qty.IsZero() {
		return e, nil
	}
	reason := d.Reason
	if reason == "" {
		reason = ReasonManualDelta
	}
	return e, l.store.AppendMovement(ctx, Movement{
		ID:      uuid.NewString(),
		EntryID: e.ID,
		Key:     d.Key,
		Delta:   d.Qty,
		Before:  before,
		After:   e.Qty,
		Unit:    e.Unit,
		Reason:  reason,
		Ref:     d.Ref,
		At:      now,
	})
}

// SetAbsolute overwrites the entry at key with qty and unit. When name differs
// from key.Name the entry is renamed and keeps its ID. A missing entry is created.
func (l *Ledger) SetAbsolute(ctx context.Context, key Key, name string, qty decimal.Decimal, unit string) (Entry, error) {
	if err := key.Validate(); err != nil {
		return Entry{}, err
	}
	if name == "" {
		name = key.Name
	}
	target := Key{Kind: key.Kind, Name: name}

	var out Entry
	err := l.store.WithTx(ctx, func(ctx context.Context) error {
		cur, err := l.store.GetEntry(ctx, key)
		if err != nil {
			return err
		}
		if target != key {
			other, err := l.store.GetEntry(ctx, target)
			if err != nil {
				return err
			}
			if other != nil {
				return fmt.Errorf("%w: %s", ErrEntryExists, target)
			}
		}

		before := decimal.Zero
		e := Entry{ID: uuid.NewString()}
		if cur != nil {
			e = *cur
			before = cur.Qty
		}
		if !l.allowNegative && qty.IsNegative() {
			return &InsufficientStockError{Key: target, Available: before, Requested: before.Sub(qty)}
		}
		e.Kind = target.Kind
		e.Name = target.Name
		e.Qty = qty
		e.Unit = unit
		e.UpdatedAt = l.now()

		if err := l.store.SaveEntry(ctx, e); err != nil {
			return err
		}
		out = e
		return l.store.AppendMovement(ctx, Movement{
			ID:      uuid.NewString(),
			EntryID: e.ID,
			Key:     target,
			Delta:   qty.Sub(before),
			Before:  before,
			After:   qty,
			Unit:    unit,
			Reason:  ReasonSetAbsolute,
			At:      e.UpdatedAt,
		})
	})
	return out, err
}

// Remove deletes the entry at key. Its movements are kept.
func (l *Ledger) Remove(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	return l.store.WithTx(ctx, func(ctx context.Context) error {
		cur, err := l.store.GetEntry(ctx, key)
		if err != nil {
			return err
		}
		if cur == nil {
			return fmt.Errorf("%w: %s", ErrEntryNotFound, key)
		}
		if err := l.store.DeleteEntry(ctx, key); err != nil {
			return err
		}
		return l.store.AppendMovement(ctx, Movement{
			ID:      uuid.NewString(),
			EntryID: cur.ID,
			Key:     key,
			Delta:   cur.Qty.Neg(),
			Before:  cur.Qty,
			After:   decimal.Zero,
			Unit:    cur.Unit,
			Reason:  ReasonRemove,
			At:      l.now(),
		})
	})
}
