package sqlite

import (
	"context"
	"fmt"

	"github.com/radhakrishnanganapathy/rksApp-sub000/farm"
)

// =============================================================================
// FARM STORE (farm.Store interface)
// =============================================================================

func (s *Store) SaveCrop(ctx context.Context, c farm.Crop) error {
	query := `
		INSERT INTO farm_crops (id, name, variety, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			variety = excluded.variety
	`
	_, err := s.exec(ctx, query, c.ID, c.Name, c.Variety, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save crop: %w", err)
	}
	return nil
}

func (s *Store) GetCrop(ctx context.Context, id string) (*farm.Crop, error) {
	return getRow(s.queryRow(ctx, `SELECT id, name, variety, created_at FROM farm_crops WHERE id = ?`, id), scanCrop)
}

func (s *Store) ListCrops(ctx context.Context) ([]farm.Crop, error) {
	return listRows(ctx, s, `SELECT id, name, variety, created_at FROM farm_crops ORDER BY name, id`, nil, scanCrop)
}

func scanCrop(row scanner) (farm.Crop, error) {
	var (
		c       farm.Crop
		created string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Variety, &created); err != nil {
		return c, err
	}
	c.CreatedAt = parseTime(created)
	return c, nil
}

// =============================================================================
// BATCHES
// =============================================================================

const batchColumns = `id, crop_id, name, start_date, area, area_unit, status`

func (s *Store) SaveBatch(ctx context.Context, b farm.Batch) error {
	query := `
		INSERT INTO farm_batches (` + batchColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			crop_id = excluded.crop_id,
			name = excluded.name,
			start_date = excluded.start_date,
			area = excluded.area,
			area_unit = excluded.area_unit,
			status = excluded.status
	`
	_, err := s.exec(ctx, query,
		b.ID, b.CropID, b.Name, formatDate(b.StartDate), b.Area.String(), b.AreaUnit, string(b.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}
	return nil
}

func (s *Store) GetBatch(ctx context.Context, id string) (*farm.Batch, error) {
	return getRow(s.queryRow(ctx, `SELECT `+batchColumns+` FROM farm_batches WHERE id = ?`, id), scanBatch)
}

// ListBatches returns the batches of cropID, or every batch when cropID is empty.
func (s *Store) ListBatches(ctx context.Context, cropID string) ([]farm.Batch, error) {
	var (
		where []string
		args  []any
	)
	if cropID != "" {
		where = append(where, "crop_id = ?")
		args = append(args, cropID)
	}
	return listRows(ctx, s, `SELECT `+batchColumns+` FROM farm_batches`+whereClause(where)+` ORDER BY start_date DESC, id`, args, scanBatch)
}

func (s *Store) DeleteBatch(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.WithTx(ctx, func(ctx context.Context) error {
		for _, table := range []string{"farm_tasks", "farm_income", "farm_expenses"} {
			if _, err := s.exec(ctx, "DELETE FROM "+table+" WHERE batch_id = ?", id); err != nil {
				return err
			}
		}
		var err error
		ok, err = affected(s.exec(ctx, `DELETE FROM farm_batches WHERE id = ?`, id))
		return err
	})
	return ok, err
}

func scanBatch(row scanner) (farm.Batch, error) {
	var (
		b                   farm.Batch
		start, area, status string
	)
	if err := row.Scan(&b.ID, &b.CropID, &b.Name, &start, &area, &b.AreaUnit, &status); err != nil {
		return b, err
	}
	b.StartDate = parseDate(start)
	b.Area = parseDecimal(area)
	b.Status = farm.BatchStatus(status)
	return b, nil
}

// =============================================================================
// EXPENSES
// =============================================================================

const farmExpenseColumns = `id, batch_id, date, category, kind, amount, detail_json`

func (s *Store) SaveFarmExpense(ctx context.Context, e farm.Expense) error {
	detail, err := farm.EncodeDetail(e.Detail)
	if err != nil {
		return fmt.Errorf("failed to encode expense detail: %w", err)
	}
	var kind farm.CategoryKind
	if e.Detail != nil {
		kind = e.Detail.Kind()
	}
	query := `
		INSERT INTO farm_expenses (` + farmExpenseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			category = excluded.category,
			kind = excluded.kind,
			amount = excluded.amount,
			detail_json = excluded.detail_json
	`
	_, err = s.exec(ctx, query,
		e.ID, e.BatchID, formatDate(e.Date), e.Category, string(kind), e.Amount.String(), string(detail),
	)
	if err != nil {
		return fmt.Errorf("failed to save farm expense: %w", err)
	}
	return nil
}

func (s *Store) ListFarmExpenses(ctx context.Context, batchID string) ([]farm.Expense, error) {
	return listRows(ctx, s,
		`SELECT `+farmExpenseColumns+` FROM farm_expenses WHERE batch_id = ? ORDER BY date, id`,
		[]any{batchID}, scanFarmExpense)
}

func (s *Store) DeleteFarmExpense(ctx context.Context, id string) (bool, error) {
	return affected(s.exec(ctx, `DELETE FROM farm_expenses WHERE id = ?`, id))
}

func scanFarmExpense(row scanner) (farm.Expense, error) {
	var (
		e                          farm.Expense
		date, kind, amount, detail string
	)
	if err := row.Scan(&e.ID, &e.BatchID, &date, &e.Category, &kind, &amount, &detail); err != nil {
		return e, err
	}
	e.Date = parseDate(date)
	e.Amount = parseDecimal(amount)
	d, err := farm.DecodeDetail(farm.CategoryKind(kind), []byte(detail))
	if err != nil {
		return e, fmt.Errorf("failed to decode expense detail: %w", err)
	}
	e.Detail = d
	return e, nil
}

// =============================================================================
// INCOME
// =============================================================================

const incomeColumns = `id, batch_id, date, source, quantity, unit, amount`

func (s *Store) SaveIncome(ctx context.Context, i farm.Income) error {
	query := `
		INSERT INTO farm_income (` + incomeColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			source = excluded.source,
			quantity = excluded.quantity,
			unit = excluded.unit,
			amount = excluded.amount
	`
	_, err := s.exec(ctx, query,
		i.ID, i.BatchID, formatDate(i.Date), i.Source, i.Quantity.String(), i.Unit, i.Amount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save income: %w", err)
	}
	return nil
}

func (s *Store) ListIncome(ctx context.Context, batchID string) ([]farm.Income, error) {
	return listRows(ctx, s,
		`SELECT `+incomeColumns+` FROM farm_income WHERE batch_id = ? ORDER BY date, id`,
		[]any{batchID}, scanIncome)
}

func (s *Store) DeleteIncome(ctx context.Context, id string) (bool, error) {
	return affected(s.exec(ctx, `DELETE FROM farm_income WHERE id = ?`, id))
}

func scanIncome(row scanner) (farm.Income, error) {
	var (
		i                      farm.Income
		date, quantity, amount string
	)
	if err := row.Scan(&i.ID, &i.BatchID, &date, &i.Source, &quantity, &i.Unit, &amount); err != nil {
		return i, err
	}
	i.Date = parseDate(date)
	i.Quantity = parseDecimal(quantity)
	i.Amount = parseDecimal(amount)
	return i, nil
}

// =============================================================================
// TASKS
// =============================================================================

const taskColumns = `id, batch_id, date, title, done`

func (s *Store) SaveTask(ctx context.Context, t farm.Task) error {
	query := `
		INSERT INTO farm_tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			title = excluded.title,
			done = excluded.done
	`
	_, err := s.exec(ctx, query, t.ID, t.BatchID, formatDate(t.Date), t.Title, boolInt(t.Done))
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*farm.Task, error) {
	return getRow(s.queryRow(ctx, `SELECT `+taskColumns+` FROM farm_tasks WHERE id = ?`, id), scanTask)
}

func (s *Store) ListTasks(ctx context.Context, batchID string) ([]farm.Task, error) {
	return listRows(ctx, s,
		`SELECT `+taskColumns+` FROM farm_tasks WHERE batch_id = ? ORDER BY date, id`,
		[]any{batchID}, scanTask)
}

func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	return affected(s.exec(ctx, `DELETE FROM farm_tasks WHERE id = ?`, id))
}

func scanTask(row scanner) (farm.Task, error) {
	var (
		t    farm.Task
		date string
		done int
	)
	if err := row.Scan(&t.ID, &t.BatchID, &date, &t.Title, &done); err != nil {
		return t, err
	}
	t.Date = parseDate(date)
	t.Done = done != 0
	return t, nil
}

var _ farm.Store = (*Store)(nil)
