/*
Package inventory holds the records that move stock and the service that
keeps the stock ledger in step with them.

PURPOSE:
  Sales, production runs, raw material purchases and usage entries are the
  day-to-day records of the business. Each one implies stock deltas while it
  exists. The Service persists the record and hands its deltas to the
  stock.Reconciler inside one transaction, so the ledger always equals the
  net effect of the live records plus manual adjustments.

IMPLIED DELTAS:
  Record           Ledger        Delta
  ---------------  ------------  -----------------------------------------
  Sale             product       -qty for every line item
  ProductionEntry  product       +qty (packedQty is informational)
  Expense          raw_material  +quantity, only for "Raw Material" bought
                                 in a physical unit (unit != "₹")
  UsageEntry       raw_material  -quantityUsed

ORDERS:
  An Order never touches stock itself. Delivering it creates a Sale, and the
  Sale owns the stock effect from then on.

SEE ALSO:
  - service.go:    transactional create/update/delete
  - orders.go:     order lifecycle
  - stock package: ledger and reconciler
*/
package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
)

const (
	// RawMaterialCategory is the expense category that restocks raw materials.
	RawMaterialCategory = "Raw Material"

	// DirectUnit marks an expense recorded as money only, with no physical quantity.
	DirectUnit = "₹"
)

// =============================================================================
// SALE
// =============================================================================

// LineItem is one product line of a sale or order.
type LineItem struct {
	Name  string
	Qty   decimal.Decimal
	Price decimal.Decimal
	Unit  string
}

// Amount is qty * price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Qty.Mul(li.Price)
}

type Sale struct {
	ID       string
	Date     time.Time
	Customer string
	Items    []LineItem
	Total    decimal.Decimal
	Notes    string
}

func (s Sale) StockRef() string { return "sale:" + s.ID }

func (s Sale) StockDeltas() []stock.Delta {
	deltas := make([]stock.Delta, 0, len(s.Items))
	for _, item := range s.Items {
		deltas = append(deltas, stock.Delta{Key: stock.ProductKey(item.Name), Qty: item.Qty.Neg()})
	}
	return deltas
}

// itemsTotal sums the line amounts.
func itemsTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount())
	}
	return total
}

// =============================================================================
// PRODUCTION
// =============================================================================

type ProductionEntry struct {
	ID        string
	Date      time.Time
	Item      string
	Qty       decimal.Decimal
	PackedQty decimal.Decimal
	Unit      string
	Notes     string
}

func (p ProductionEntry) StockRef() string { return "production:" + p.ID }

func (p ProductionEntry) StockDeltas() []stock.Delta {
	return []stock.Delta{{Key: stock.ProductKey(p.Item), Qty: p.Qty, Unit: p.Unit}}
}

// =============================================================================
// EXPENSE
// =============================================================================

type Expense struct {
	ID           string
	Date         time.Time
	Category     string
	MaterialName string
	Quantity     decimal.Decimal
	Unit         string
	Amount       decimal.Decimal
	Notes        string
}

// IsRawMaterialPurchase reports whether the expense restocks a raw material.
func (e Expense) IsRawMaterialPurchase() bool {
	return e.Category == RawMaterialCategory && e.Unit != DirectUnit
}

func (e Expense) StockRef() string { return "expense:" + e.ID }

func (e Expense) StockDeltas() []stock.Delta {
	if !e.IsRawMaterialPurchase() {
		return nil
	}
	return []stock.Delta{{Key: stock.RawMaterialKey(e.MaterialName), Qty: e.Quantity, Unit: e.Unit}}
}

// =============================================================================
// RAW MATERIAL USAGE
// =============================================================================

type UsageEntry struct {
	ID           string
	Date         time.Time
	MaterialName string
	QuantityUsed decimal.Decimal
	Unit         string
	Purpose      string
}

func (u UsageEntry) StockRef() string { return "usage:" + u.ID }

func (u UsageEntry) StockDeltas() []stock.Delta {
	return []stock.Delta{{Key: stock.RawMaterialKey(u.MaterialName), Qty: u.QuantityUsed.Neg()}}
}

// =============================================================================
// ORDER
// =============================================================================

type OrderStatus string

const (
	OrderWaiting   OrderStatus = "waiting"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderWaiting, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Order is a customer booking. It has no stock effect of its own.
type Order struct {
	ID           string
	Customer     string
	Phone        string
	OrderDate    time.Time
	DeliveryDate time.Time
	Items        []LineItem
	Advance      decimal.Decimal
	Status       OrderStatus
	SaleID       string // set once delivered
	Notes        string
}

// Total is the order value before the advance.
func (o Order) Total() decimal.Decimal { return itemsTotal(o.Items) }

// Balance is what remains to be collected on delivery.
func (o Order) Balance() decimal.Decimal { return o.Total().Sub(o.Advance) }

// =============================================================================
// FILTERS
// =============================================================================

// DateRange is an inclusive date filter. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// StockLine is one requested quantity for an advisory stock check.
type StockLine struct {
	Kind stock.Kind
	Name string
	Qty  decimal.Decimal
}

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
