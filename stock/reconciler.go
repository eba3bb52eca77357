/*
reconciler.go - Keeps the ledger equal to the net effect of live records

PURPOSE:
  Every stock-moving record (sale, production entry, raw material purchase,
  usage entry) implies a list of forward deltas. The Reconciler wraps the
  record's lifecycle so the ledger only ever reflects records that exist:

    create:  apply  +implied(new)
    update:  revert -implied(old), then apply +implied(new)
    delete:  revert -implied(old)

NET DELTAS:
  An update is submitted as one batch computed by Net(old, new):
  - same key in old and new: one combined delta (new - old), reason reconcile
  - key only in old (item renamed away): revert delta
  - key only in new: apply delta
  - keys whose net is zero are not touched, unless the new record names a
    different unit; then a zero delta carries the unit to the entry
  The result is identical to "delete old, create new" but each key is written
  once and the whole batch is atomic.

INVARIANT:
  create followed by delete leaves every touched key exactly where it was.

EXAMPLE:
  Usage of "எண்ணெய்" edited from 5 to 8 with 15 on hand:
    Net([-5], [-8]) = [-3]  ->  12
*/
package stock

import (
	"context"

	"github.com/shopspring/decimal"
)

// Record is anything whose existence implies stock deltas.
type Record interface {
	// StockRef identifies the record in movement journals, e.g. "sale:<id>".
	StockRef() string
	// StockDeltas returns the forward deltas the record implies while live.
	StockDeltas() []Delta
}

type Reconciler struct {
	ledger *Ledger
}

func NewReconciler(ledger *Ledger) *Reconciler {
	return &Reconciler{ledger: ledger}
}

// OnCreate applies the record's forward deltas.
func (r *Reconciler) OnCreate(ctx context.Context, rec Record) error {
	return r.ledger.ApplyBatch(ctx, Net(nil, rec.StockDeltas(), rec.StockRef()))
}

// OnUpdate reverts old's deltas and applies updated's as one batch.
func (r *Reconciler) OnUpdate(ctx context.Context, old, updated Record) error {
	return r.ledger.ApplyBatch(ctx, Net(old.StockDeltas(), updated.StockDeltas(), updated.StockRef()))
}

// OnDelete reverts the record's forward deltas.
func (r *Reconciler) OnDelete(ctx context.Context, rec Record) error {
	return r.ledger.ApplyBatch(ctx, Net(rec.StockDeltas(), nil, rec.StockRef()))
}

// Net returns the deltas that take the ledger from reflecting old to reflecting
// updated. Keys keep first-seen order, old keys before new ones.
func Net(old, updated []Delta, ref string) []Delta {
	type acc struct {
		qty          decimal.Decimal
		unit, was    string
		inOld, inNew bool
	}
	var order []Key
	sums := make(map[Key]*acc)
	get := func(k Key) *acc {
		a, ok := sums[k]
		if !ok {
			a = &acc{qty: decimal.Zero}
			sums[k] = a
			order = append(order, k)
		}
		return a
	}

	for _, d := range old {
		a := get(d.Key)
		a.qty = a.qty.Sub(d.Qty)
		a.inOld = true
		if d.Unit != "" {
			a.was = d.Unit
		}
	}
	for _, d := range updated {
		a := get(d.Key)
		a.qty = a.qty.Add(d.Qty)
		a.inNew = true
		if d.Unit != "" {
			a.unit = d.Unit
		}
	}

	out := make([]Delta, 0, len(order))
	for _, k := range order {
		a := sums[k]
		if a.qty.IsZero() && (a.unit == "" || a.unit == a.was) {
			continue
		}
		reason := ReasonReconcile
		switch {
		case a.inOld && !a.inNew:
			reason = ReasonRevert
		case a.inNew && !a.inOld:
			reason = ReasonApply
		}
		out = append(out, Delta{Key: k, Qty: a.qty, Unit: a.unit, Reason: reason, Ref: ref})
	}
	return out
}

// collapse merges deltas per key, keeping first-seen order.
func collapse(deltas []Delta) []Delta {
	return Net(nil, deltas, "")
}
