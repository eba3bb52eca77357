/*
service.go - Transactional mutation handlers for stock-moving records

LIFECYCLE:
  Every mutation runs in one stock.Ledger transaction:

    create:  save record              -> Reconciler.OnCreate(record)
    update:  load old, save new       -> Reconciler.OnUpdate(old, new)
    delete:  load old, delete record  -> Reconciler.OnDelete(old)

  If saving the record or applying any delta fails, nothing is kept: the
  record write and the ledger movements commit or roll back together.

GENERIC HELPERS:
  The four stock-moving record types share one lifecycle, so it is written
  once over repo[T] (get/save/delete bound to the store) and each public
  method only assigns ids, normalizes and validates.
*/
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
)

type Service struct {
	store  Store
	ledger *stock.Ledger
	rec    *stock.Reconciler
	now    func() time.Time
}

func NewService(store Store, ledger *stock.Ledger) *Service {
	return &Service{
		store:  store,
		ledger: ledger,
		rec:    stock.NewReconciler(ledger),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Ledger exposes the ledger the service reconciles against.
func (s *Service) Ledger() *stock.Ledger { return s.ledger }

// =============================================================================
// GENERIC LIFECYCLE
// =============================================================================

type repo[T stock.Record] struct {
	kind string
	get  func(ctx context.Context, id string) (*T, error)
	save func(ctx context.Context, rec T) error
	del  func(ctx context.Context, id string) error
}

func (s *Service) create(ctx context.Context, save func(context.Context) error, rec stock.Record) error {
	return s.ledger.WithTx(ctx, func(ctx context.Context) error {
		if err := save(ctx); err != nil {
			return err
		}
		return s.rec.OnCreate(ctx, rec)
	})
}

func createRecord[T stock.Record](ctx context.Context, s *Service, r repo[T], rec T) error {
	return s.create(ctx, func(ctx context.Context) error { return r.save(ctx, rec) }, rec)
}

func updateRecord[T stock.Record](ctx context.Context, s *Service, r repo[T], id string, rec T) error {
	return s.ledger.WithTx(ctx, func(ctx context.Context) error {
		old, err := r.get(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return notFound(r.kind, id)
		}
		if err := r.save(ctx, rec); err != nil {
			return err
		}
		return s.rec.OnUpdate(ctx, *old, rec)
	})
}

func deleteRecord[T stock.Record](ctx context.Context, s *Service, r repo[T], id string) error {
	return s.ledger.WithTx(ctx, func(ctx context.Context) error {
		old, err := r.get(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return notFound(r.kind, id)
		}
		if err := r.del(ctx, id); err != nil {
			return err
		}
		return s.rec.OnDelete(ctx, *old)
	})
}

func getRecord[T any](ctx context.Context, kind, id string, get func(context.Context, string) (*T, error)) (T, error) {
	var zero T
	rec, err := get(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("failed to load %s: %w", kind, err)
	}
	if rec == nil {
		return zero, notFound(kind, id)
	}
	return *rec, nil
}

func (s *Service) sales() repo[Sale] {
	return repo[Sale]{kind: "sale", get: s.store.GetSale, save: s.store.SaveSale, del: s.store.DeleteSale}
}

func (s *Service) production() repo[ProductionEntry] {
	return repo[ProductionEntry]{kind: "production", get: s.store.GetProduction, save: s.store.SaveProduction, del: s.store.DeleteProduction}
}

func (s *Service) expenses() repo[Expense] {
	return repo[Expense]{kind: "expense", get: s.store.GetExpense, save: s.store.SaveExpense, del: s.store.DeleteExpense}
}

func (s *Service) usage() repo[UsageEntry] {
	return repo[UsageEntry]{kind: "usage", get: s.store.GetUsage, save: s.store.SaveUsage, del: s.store.DeleteUsage}
}

// =============================================================================
// SALES
// =============================================================================

func normalizeSale(sale Sale) Sale {
	sale.Date = Day(sale.Date)
	sale.Total = itemsTotal(sale.Items)
	return sale
}

func (s *Service) CreateSale(ctx context.Context, sale Sale) (Sale, error) {
	sale = normalizeSale(sale)
	sale.ID = uuid.NewString()
	if err := sale.Validate(); err != nil {
		return Sale{}, err
	}
	if err := createRecord(ctx, s, s.sales(), sale); err != nil {
		return Sale{}, err
	}
	return sale, nil
}

func (s *Service) UpdateSale(ctx context.Context, id string, sale Sale) (Sale, error) {
	sale = normalizeSale(sale)
	sale.ID = id
	if err := sale.Validate(); err != nil {
		return Sale{}, err
	}
	if err := updateRecord(ctx, s, s.sales(), id, sale); err != nil {
		return Sale{}, err
	}
	return sale, nil
}

func (s *Service) DeleteSale(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.sales(), id)
}

func (s *Service) GetSale(ctx context.Context, id string) (Sale, error) {
	return getRecord(ctx, "sale", id, s.store.GetSale)
}

func (s *Service) ListSales(ctx context.Context, r DateRange) ([]Sale, error) {
	return s.store.ListSales(ctx, r)
}

// =============================================================================
// PRODUCTION
// =============================================================================

func (s *Service) CreateProduction(ctx context.Context, p ProductionEntry) (ProductionEntry, error) {
	p.Date = Day(p.Date)
	p.ID = uuid.NewString()
	if err := p.Validate(); err != nil {
		return ProductionEntry{}, err
	}
	if err := createRecord(ctx, s, s.production(), p); err != nil {
		return ProductionEntry{}, err
	}
	return p, nil
}

func (s *Service) UpdateProduction(ctx context.Context, id string, p ProductionEntry) (ProductionEntry, error) {
	p.Date = Day(p.Date)
	p.ID = id
	if err := p.Validate(); err != nil {
		return ProductionEntry{}, err
	}
	if err := updateRecord(ctx, s, s.production(), id, p); err != nil {
		return ProductionEntry{}, err
	}
	return p, nil
}

func (s *Service) DeleteProduction(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.production(), id)
}

func (s *Service) GetProduction(ctx context.Context, id string) (ProductionEntry, error) {
	return getRecord(ctx, "production", id, s.store.GetProduction)
}

func (s *Service) ListProduction(ctx context.Context, r DateRange) ([]ProductionEntry, error) {
	return s.store.ListProduction(ctx, r)
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Service) CreateExpense(ctx context.Context, e Expense) (Expense, error) {
	e.Date = Day(e.Date)
	e.ID = uuid.NewString()
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	if err := createRecord(ctx, s, s.expenses(), e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// UpdateExpense also covers an expense moving in or out of the raw material
// category: the old deltas (possibly none) are reverted and the new applied.
func (s *Service) UpdateExpense(ctx context.Context, id string, e Expense) (Expense, error) {
	e.Date = Day(e.Date)
	e.ID = id
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}
	if err := updateRecord(ctx, s, s.expenses(), id, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.expenses(), id)
}

func (s *Service) GetExpense(ctx context.Context, id string) (Expense, error) {
	return getRecord(ctx, "expense", id, s.store.GetExpense)
}

func (s *Service) ListExpenses(ctx context.Context, r DateRange) ([]Expense, error) {
	return s.store.ListExpenses(ctx, r)
}

// =============================================================================
// RAW MATERIAL USAGE
// =============================================================================

func (s *Service) CreateUsage(ctx context.Context, u UsageEntry) (UsageEntry, error) {
	u.Date = Day(u.Date)
	u.ID = uuid.NewString()
	if err := u.Validate(); err != nil {
		return UsageEntry{}, err
	}
	if err := createRecord(ctx, s, s.usage(), u); err != nil {
		return UsageEntry{}, err
	}
	return u, nil
}

func (s *Service) UpdateUsage(ctx context.Context, id string, u UsageEntry) (UsageEntry, error) {
	u.Date = Day(u.Date)
	u.ID = id
	if err := u.Validate(); err != nil {
		return UsageEntry{}, err
	}
	if err := updateRecord(ctx, s, s.usage(), id, u); err != nil {
		return UsageEntry{}, err
	}
	return u, nil
}

func (s *Service) DeleteUsage(ctx context.Context, id string) error {
	return deleteRecord(ctx, s, s.usage(), id)
}

func (s *Service) GetUsage(ctx context.Context, id string) (UsageEntry, error) {
	return getRecord(ctx, "usage", id, s.store.GetUsage)
}

func (s *Service) ListUsage(ctx context.Context, r DateRange) ([]UsageEntry, error) {
	return s.store.ListUsage(ctx, r)
}

// =============================================================================
// STOCK CHECK
// =============================================================================

// CheckStock reports the lines that cannot be covered by what is on hand.
// It is advisory: nothing is reserved and the ledger is not modified.
func (s *Service) CheckStock(ctx context.Context, lines []StockLine) ([]stock.Shortage, error) {
	deltas := make([]stock.Delta, 0, len(lines))
	for i, line := range lines {
		key := stock.Key{Kind: line.Kind, Name: line.Name}
		if err := key.Validate(); err != nil {
			return nil, invalid(fmt.Sprintf("items[%d]", i), err.Error())
		}
		if err := requirePositive(fmt.Sprintf("items[%d].qty", i), line.Qty); err != nil {
			return nil, err
		}
		deltas = append(deltas, stock.Delta{Key: key, Qty: line.Qty.Neg()})
	}
	return s.ledger.Shortages(ctx, deltas)
}
