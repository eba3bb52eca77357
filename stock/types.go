/*
Package stock provides the stock ledger engine.

PURPOSE:
  Tracks on-hand quantities of products and raw materials. Every change to
  a quantity goes through the Ledger as a signed Delta, and every applied
  delta is journaled as a Movement so the history of an entry can always be
  explained.

KEY CONCEPTS IN THIS FILE (types.go):
  - Kind:     product or raw_material
  - Key:      (kind, name) composite identity of a ledger entry
  - Entry:    current quantity + unit for a key, with a stable surrogate ID
  - Delta:    signed quantity change against a key
  - Movement: journal row recording one applied delta (before/after)

DESIGN PRINCIPLES:
  1. Precision: quantities use decimal.Decimal (kg, litres, counts...)
  2. Absence is zero: reading a key with no entry is not an error
  3. Entries are never auto-removed, not even at zero quantity
  4. Units are advisory labels, never converted

USAGE:
  ledger := stock.NewLedger(store)
  entry, err := ledger.ApplyDelta(ctx, stock.Delta{
      Key: stock.ProductKey("அதிரசம்"),
      Qty: decimal.NewFromInt(30),
  })

SEE ALSO:
  - ledger.go:     Delta applier and manual adjustments
  - reconciler.go: Revert/apply wrapper used by domain mutations
  - store.go:      Persistence interfaces
*/
package stock

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// KIND & KEY
// =============================================================================

// Kind identifies which ledger an entry belongs to.
type Kind string

const (
	KindProduct     Kind = "product"
	KindRawMaterial Kind = "raw_material"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindProduct || k == KindRawMaterial
}

// ParseKind converts a wire value into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidKey, s)
	}
	return k, nil
}

// Key is the composite identity of a ledger entry. Names are case-sensitive.
type Key struct {
	Kind Kind
	Name string
}

func ProductKey(name string) Key     { return Key{Kind: KindProduct, Name: name} }
func RawMaterialKey(name string) Key { return Key{Kind: KindRawMaterial, Name: name} }

func (k Key) String() string { return string(k.Kind) + ":" + k.Name }

// Validate checks the key can address a ledger entry.
func (k Key) Validate() error {
	if !k.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidKey, k.Kind)
	}
	if k.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidKey)
	}
	return nil
}

// =============================================================================
// ENTRY
// =============================================================================

// Entry is the current on-hand state of one (kind, name).
type Entry struct {
	ID        string
	Kind      Kind
	Name      string
	Qty       decimal.Decimal
	Unit      string
	UpdatedAt time.Time
}

func (e Entry) Key() Key { return Key{Kind: e.Kind, Name: e.Name} }

// =============================================================================
// DELTA
// =============================================================================

// Reason explains why a movement happened.
type Reason string

const (
	ReasonApply       Reason = "apply"        // forward effect of a live record
	ReasonRevert      Reason = "revert"       // record deleted or item renamed away
	ReasonReconcile   Reason = "reconcile"    // net (new - old) of an edited record
	ReasonManualDelta Reason = "manual_delta" // POST /stocks
	ReasonSetAbsolute Reason = "set_absolute" // manual overwrite
	ReasonRemove      Reason = "remove"       // manual clear
)

// Delta is a signed quantity change against one key.
// An empty Unit keeps the entry's existing unit.
type Delta struct {
	Key    Key
	Qty    decimal.Decimal
	Unit   string
	Reason Reason
	Ref    string // e.g. "sale:<id>"
}

// Neg returns the compensating delta.
func (d Delta) Neg() Delta {
	d.Qty = d.Qty.Neg()
	return d
}

// =============================================================================
// MOVEMENT - Append-only journal row
// =============================================================================

// Movement records one applied delta. Movements are never updated or deleted;
// they survive removal of their entry.
type Movement struct {
	ID      string
	EntryID string
	Key     Key
	Delta   decimal.Decimal
	Before  decimal.Decimal
	After   decimal.Decimal
	Unit    string
	Reason  Reason
	Ref     string
	At      time.Time
}

// Shortage describes a key that cannot cover a requested decrease.
type Shortage struct {
	Key       Key
	Available decimal.Decimal
	Requested decimal.Decimal
	Shortfall decimal.Decimal
}
