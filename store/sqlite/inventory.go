package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/radhakrishnanganapathy/rksApp-sub000/inventory"
)

// =============================================================================
// INVENTORY STORE (inventory.Store interface)
// =============================================================================

// lineItemJSON is the stored form of a line item.
type lineItemJSON struct {
	Name  string          `json:"name"`
	Qty   decimal.Decimal `json:"qty"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit,omitempty"`
}

func encodeItems(items []inventory.LineItem) (string, error) {
	out := make([]lineItemJSON, len(items))
	for i, item := range items {
		out[i] = lineItemJSON{Name: item.Name, Qty: item.Qty, Price: item.Price, Unit: item.Unit}
	}
	b, err := json.Marshal(out)
	return string(b), err
}

func decodeItems(s string) ([]inventory.LineItem, error) {
	var in []lineItemJSON
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, fmt.Errorf("failed to decode line items: %w", err)
	}
	items := make([]inventory.LineItem, len(in))
	for i, item := range in {
		items[i] = inventory.LineItem{Name: item.Name, Qty: item.Qty, Price: item.Price, Unit: item.Unit}
	}
	return items, nil
}

func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	_, err := s.exec(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// listRows runs query and scans every row with scan.
func listRows[T any](ctx context.Context, s *Store, query string, args []any, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// getRow scans a single row, returning nil when there is none.
func getRow[T any](row *sql.Row, scan func(scanner) (T, error)) (*T, error) {
	v, err := scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// =============================================================================
// SALES
// =============================================================================

const saleColumns = `id, date, customer, items_json, total, notes`

func (s *Store) SaveSale(ctx context.Context, sale inventory.Sale) error {
	items, err := encodeItems(sale.Items)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			customer = excluded.customer,
			items_json = excluded.items_json,
			total = excluded.total,
			notes = excluded.notes
	`
	_, err = s.exec(ctx, query,
		sale.ID, formatDate(sale.Date), sale.Customer, items, sale.Total.String(), sale.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save sale: %w", err)
	}
	return nil
}

func (s *Store) GetSale(ctx context.Context, id string) (*inventory.Sale, error) {
	return getRow(s.queryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id), scanSale)
}

func (s *Store) ListSales(ctx context.Context, r inventory.DateRange) ([]inventory.Sale, error) {
	where, args := dateRange("date", r.From, r.To, nil, nil)
	return listRows(ctx, s, `SELECT `+saleColumns+` FROM sales`+whereClause(where)+` ORDER BY date DESC, id`, args, scanSale)
}

func (s *Store) DeleteSale(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "sales", id)
}

func scanSale(row scanner) (inventory.Sale, error) {
	var (
		sale               inventory.Sale
		date, items, total string
	)
	if err := row.Scan(&sale.ID, &date, &sale.Customer, &items, &total, &sale.Notes); err != nil {
		return sale, err
	}
	sale.Date = parseDate(date)
	sale.Total = parseDecimal(total)
	var err error
	sale.Items, err = decodeItems(items)
	return sale, err
}

// =============================================================================
// PRODUCTION
// =============================================================================

const productionColumns = `id, date, item, qty, packed_qty, unit, notes`

func (s *Store) SaveProduction(ctx context.Context, p inventory.ProductionEntry) error {
	query := `
		INSERT INTO production (` + productionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			item = excluded.item,
			qty = excluded.qty,
			packed_qty = excluded.packed_qty,
			unit = excluded.unit,
			notes = excluded.notes
	`
	_, err := s.exec(ctx, query,
		p.ID, formatDate(p.Date), p.Item, p.Qty.String(), p.PackedQty.String(), p.Unit, p.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save production entry: %w", err)
	}
	return nil
}

func (s *Store) GetProduction(ctx context.Context, id string) (*inventory.ProductionEntry, error) {
	return getRow(s.queryRow(ctx, `SELECT `+productionColumns+` FROM production WHERE id = ?`, id), scanProduction)
}

func (s *Store) ListProduction(ctx context.Context, r inventory.DateRange) ([]inventory.ProductionEntry, error) {
	where, args := dateRange("date", r.From, r.To, nil, nil)
	return listRows(ctx, s, `SELECT `+productionColumns+` FROM production`+whereClause(where)+` ORDER BY date DESC, id`, args, scanProduction)
}

func (s *Store) DeleteProduction(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "production", id)
}

func scanProduction(row scanner) (inventory.ProductionEntry, error) {
	var (
		p                 inventory.ProductionEntry
		date, qty, packed string
	)
	if err := row.Scan(&p.ID, &date, &p.Item, &qty, &packed, &p.Unit, &p.Notes); err != nil {
		return p, err
	}
	p.Date = parseDate(date)
	p.Qty = parseDecimal(qty)
	p.PackedQty = parseDecimal(packed)
	return p, nil
}

// =============================================================================
// EXPENSES
// =============================================================================

const expenseColumns = `id, date, category, material_name, quantity, unit, amount, notes`

func (s *Store) SaveExpense(ctx context.Context, e inventory.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			category = excluded.category,
			material_name = excluded.material_name,
			quantity = excluded.quantity,
			unit = excluded.unit,
			amount = excluded.amount,
			notes = excluded.notes
	`
	_, err := s.exec(ctx, query,
		e.ID, formatDate(e.Date), e.Category, e.MaterialName,
		e.Quantity.String(), e.Unit, e.Amount.String(), e.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (s *Store) GetExpense(ctx context.Context, id string) (*inventory.Expense, error) {
	return getRow(s.queryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id), scanExpense)
}

func (s *Store) ListExpenses(ctx context.Context, r inventory.DateRange) ([]inventory.Expense, error) {
	where, args := dateRange("date", r.From, r.To, nil, nil)
	return listRows(ctx, s, `SELECT `+expenseColumns+` FROM expenses`+whereClause(where)+` ORDER BY date DESC, id`, args, scanExpense)
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "expenses", id)
}

func scanExpense(row scanner) (inventory.Expense, error) {
	var (
		e                      inventory.Expense
		date, quantity, amount string
	)
	if err := row.Scan(&e.ID, &date, &e.Category, &e.MaterialName, &quantity, &e.Unit, &amount, &e.Notes); err != nil {
		return e, err
	}
	e.Date = parseDate(date)
	e.Quantity = parseDecimal(quantity)
	e.Amount = parseDecimal(amount)
	return e, nil
}

// =============================================================================
// RAW MATERIAL USAGE
// =============================================================================

const usageColumns = `id, date, material_name, quantity_used, unit, purpose`

func (s *Store) SaveUsage(ctx context.Context, u inventory.UsageEntry) error {
	query := `
		INSERT INTO raw_material_usage (` + usageColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			material_name = excluded.material_name,
			quantity_used = excluded.quantity_used,
			unit = excluded.unit,
			purpose = excluded.purpose
	`
	_, err := s.exec(ctx, query,
		u.ID, formatDate(u.Date), u.MaterialName, u.QuantityUsed.String(), u.Unit, u.Purpose,
	)
	if err != nil {
		return fmt.Errorf("failed to save usage entry: %w", err)
	}
	return nil
}

func (s *Store) GetUsage(ctx context.Context, id string) (*inventory.UsageEntry, error) {
	return getRow(s.queryRow(ctx, `SELECT `+usageColumns+` FROM raw_material_usage WHERE id = ?`, id), scanUsage)
}

func (s *Store) ListUsage(ctx context.Context, r inventory.DateRange) ([]inventory.UsageEntry, error) {
	where, args := dateRange("date", r.From, r.To, nil, nil)
	return listRows(ctx, s, `SELECT `+usageColumns+` FROM raw_material_usage`+whereClause(where)+` ORDER BY date DESC, id`, args, scanUsage)
}

func (s *Store) DeleteUsage(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "raw_material_usage", id)
}

func scanUsage(row scanner) (inventory.UsageEntry, error) {
	var (
		u         inventory.UsageEntry
		date, qty string
	)
	if err := row.Scan(&u.ID, &date, &u.MaterialName, &qty, &u.Unit, &u.Purpose); err != nil {
		return u, err
	}
	u.Date = parseDate(date)
	u.QuantityUsed = parseDecimal(qty)
	return u, nil
}

// =============================================================================
// ORDERS
// =============================================================================

const orderColumns = `id, customer, phone, order_date, delivery_date, items_json, advance, status, sale_id, notes`

func (s *Store) SaveOrder(ctx context.Context, o inventory.Order) error {
	items, err := encodeItems(o.Items)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			customer = excluded.customer,
			phone = excluded.phone,
			order_date = excluded.order_date,
			delivery_date = excluded.delivery_date,
			items_json = excluded.items_json,
			advance = excluded.advance,
			status = excluded.status,
			sale_id = excluded.sale_id,
			notes = excluded.notes
	`
	_, err = s.exec(ctx, query,
		o.ID, o.Customer, o.Phone, formatDate(o.OrderDate), formatDate(o.DeliveryDate),
		items, o.Advance.String(), string(o.Status), o.SaleID, o.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*inventory.Order, error) {
	return getRow(s.queryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id), scanOrder)
}

func (s *Store) ListOrders(ctx context.Context, status inventory.OrderStatus) ([]inventory.Order, error) {
	var (
		where []string
		args  []any
	)
	if status != "" {
		where = append(where, "status = ?")
		args = append(args, string(status))
	}
	return listRows(ctx, s, `SELECT `+orderColumns+` FROM orders`+whereClause(where)+` ORDER BY order_date DESC, id`, args, scanOrder)
}

func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "orders", id)
}

func scanOrder(row scanner) (inventory.Order, error) {
	var (
		o                                           inventory.Order
		orderDate, deliveryDate, items, advance, st string
	)
	if err := row.Scan(&o.ID, &o.Customer, &o.Phone, &orderDate, &deliveryDate,
		&items, &advance, &st, &o.SaleID, &o.Notes); err != nil {
		return o, err
	}
	o.OrderDate = parseDate(orderDate)
	o.DeliveryDate = parseDate(deliveryDate)
	o.Advance = parseDecimal(advance)
	o.Status = inventory.OrderStatus(st)
	var err error
	o.Items, err = decodeItems(items)
	return o, err
}

var _ inventory.Store = (*Store)(nil)
