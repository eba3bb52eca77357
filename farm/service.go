package farm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store persists farm data. Get methods return nil when the id is unknown and
// Delete methods report whether the row existed. Deleting a batch deletes its
// expenses, income and tasks.
type Store interface {
	SaveCrop(ctx context.Context, c Crop) error
	GetCrop(ctx context.Context, id string) (*Crop, error)
	ListCrops(ctx context.Context) ([]Crop, error)

	SaveBatch(ctx context.Context, b Batch) error
	GetBatch(ctx context.Context, id string) (*Batch, error)
	ListBatches(ctx context.Context, cropID string) ([]Batch, error)
	DeleteBatch(ctx context.Context, id string) (bool, error)

	SaveFarmExpense(ctx context.Context, e Expense) error
	ListFarmExpenses(ctx context.Context, batchID string) ([]Expense, error)
	DeleteFarmExpense(ctx context.Context, id string) (bool, error)

	SaveIncome(ctx context.Context, i Income) error
	ListIncome(ctx context.Context, batchID string) ([]Income, error)
	DeleteIncome(ctx context.Context, id string) (bool, error)

	SaveTask(ctx context.Context, t Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, batchID string) ([]Task, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &FieldError{Field: field, Message: "is required"}
	}
	return nil
}

func deleted(ok bool, err error, what, id string) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
	}
	return nil
}

// =============================================================================
// CROPS & BATCHES
// =============================================================================

func (s *Service) CreateCrop(ctx context.Context, c Crop) (Crop, error) {
	if err := required("name", c.Name); err != nil {
		return Crop{}, err
	}
	c.ID = uuid.NewString()
	c.CreatedAt = s.now()
	if err := s.store.SaveCrop(ctx, c); err != nil {
		return Crop{}, err
	}
	return c, nil
}

func (s *Service) ListCrops(ctx context.Context) ([]Crop, error) {
	return s.store.ListCrops(ctx)
}

func (s *Service) CreateBatch(ctx context.Context, b Batch) (Batch, error) {
	if err := required("cropId", b.CropID); err != nil {
		return Batch{}, err
	}
	if err := required("name", b.Name); err != nil {
		return Batch{}, err
	}
	if b.StartDate.IsZero() {
		return Batch{}, &FieldError{Field: "startDate", Message: "is required"}
	}
	if b.Area.IsNegative() {
		return Batch{}, &FieldError{Field: "area", Message: "must not be negative"}
	}
	crop, err := s.store.GetCrop(ctx, b.CropID)
	if err != nil {
		return Batch{}, err
	}
	if crop == nil {
		return Batch{}, fmt.Errorf("%w: crop %s", ErrNotFound, b.CropID)
	}

	b.ID = uuid.NewString()
	b.StartDate = day(b.StartDate)
	b.Status = BatchActive
	if err := s.store.SaveBatch(ctx, b); err != nil {
		return Batch{}, err
	}
	return b, nil
}

func (s *Service) GetBatch(ctx context.Context, id string) (Batch, error) {
	b, err := s.store.GetBatch(ctx, id)
	if err != nil {
		return Batch{}, err
	}
	if b == nil {
		return Batch{}, fmt.Errorf("%w: batch %s", ErrNotFound, id)
	}
	return *b, nil
}

func (s *Service) ListBatches(ctx context.Context, cropID string) ([]Batch, error) {
	return s.store.ListBatches(ctx, cropID)
}

func (s *Service) SetBatchStatus(ctx context.Context, id string, status BatchStatus) (Batch, error) {
	if !status.Valid() {
		return Batch{}, &FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	b, err := s.GetBatch(ctx, id)
	if err != nil {
		return Batch{}, err
	}
	b.Status = status
	if err := s.store.SaveBatch(ctx, b); err != nil {
		return Batch{}, err
	}
	return b, nil
}

func (s *Service) DeleteBatch(ctx context.Context, id string) error {
	ok, err := s.store.DeleteBatch(ctx, id)
	return deleted(ok, err, "batch", id)
}

// =============================================================================
// EXPENSES & INCOME
// =============================================================================

// AddExpense validates the detail against the category's kind and records it.
func (s *Service) AddExpense(ctx context.Context, e Expense) (Expense, error) {
	cat, err := LookupCategory(e.Category)
	if err != nil {
		return Expense{}, err
	}
	if e.Date.IsZero() {
		return Expense{}, &FieldError{Field: "date", Message: "is required"}
	}
	if e.Detail == nil {
		e.Detail, _ = DecodeDetail(cat.Kind, nil)
	}
	if e.Detail.Kind() != cat.Kind {
		return Expense{}, &FieldError{
			Field:   "detail",
			Message: fmt.Sprintf("%s is a %s category, got %s detail", cat.Name, cat.Kind, e.Detail.Kind()),
		}
	}
	amount, err := e.Detail.resolve(e.Amount)
	if err != nil {
		return Expense{}, err
	}
	if _, err := s.GetBatch(ctx, e.BatchID); err != nil {
		return Expense{}, err
	}

	e.ID = uuid.NewString()
	e.Category = cat.Name
	e.Amount = amount
	e.Date = day(e.Date)
	if err := s.store.SaveFarmExpense(ctx, e); err != nil {
		return Expense{}, err
	}
	return e, nil
}

func (s *Service) ListExpenses(ctx context.Context, batchID string) ([]Expense, error) {
	return s.store.ListFarmExpenses(ctx, batchID)
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	ok, err := s.store.DeleteFarmExpense(ctx, id)
	return deleted(ok, err, "expense", id)
}

func (s *Service) AddIncome(ctx context.Context, i Income) (Income, error) {
	if err := required("source", i.Source); err != nil {
		return Income{}, err
	}
	if i.Date.IsZero() {
		return Income{}, &FieldError{Field: "date", Message: "is required"}
	}
	if _, err := requireAmount(i.Amount); err != nil {
		return Income{}, err
	}
	if i.Quantity.IsNegative() {
		return Income{}, &FieldError{Field: "quantity", Message: "must not be negative"}
	}
	if _, err := s.GetBatch(ctx, i.BatchID); err != nil {
		return Income{}, err
	}

	i.ID = uuid.NewString()
	i.Date = day(i.Date)
	if err := s.store.SaveIncome(ctx, i); err != nil {
		return Income{}, err
	}
	return i, nil
}

func (s *Service) ListIncome(ctx context.Context, batchID string) ([]Income, error) {
	return s.store.ListIncome(ctx, batchID)
}

func (s *Service) DeleteIncome(ctx context.Context, id string) error {
	ok, err := s.store.DeleteIncome(ctx, id)
	return deleted(ok, err, "income", id)
}

// =============================================================================
// TASK TIMELINE
// =============================================================================

func (s *Service) AddTask(ctx context.Context, t Task) (Task, error) {
	if err := required("title", t.Title); err != nil {
		return Task{}, err
	}
	if t.Date.IsZero() {
		return Task{}, &FieldError{Field: "date", Message: "is required"}
	}
	if _, err := s.GetBatch(ctx, t.BatchID); err != nil {
		return Task{}, err
	}
	t.ID = uuid.NewString()
	t.Date = day(t.Date)
	if err := s.store.SaveTask(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// ListTasks returns the batch timeline ordered by date.
func (s *Service) ListTasks(ctx context.Context, batchID string) ([]Task, error) {
	return s.store.ListTasks(ctx, batchID)
}

func (s *Service) SetTaskDone(ctx context.Context, id string, done bool) (Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if t == nil {
		return Task{}, fmt.Errorf("%w: task %s", ErrNotFound, id)
	}
	t.Done = done
	if err := s.store.SaveTask(ctx, *t); err != nil {
		return Task{}, err
	}
	return *t, nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	ok, err := s.store.DeleteTask(ctx, id)
	return deleted(ok, err, "task", id)
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary totals a batch's expenses and income. Categories are listed in
// built-in order, only when spent on.
func (s *Service) Summary(ctx context.Context, batchID string) (BatchSummary, error) {
	if _, err := s.GetBatch(ctx, batchID); err != nil {
		return BatchSummary{}, err
	}
	expenses, err := s.store.ListFarmExpenses(ctx, batchID)
	if err != nil {
		return BatchSummary{}, err
	}
	income, err := s.store.ListIncome(ctx, batchID)
	if err != nil {
		return BatchSummary{}, err
	}
	tasks, err := s.store.ListTasks(ctx, batchID)
	if err != nil {
		return BatchSummary{}, err
	}

	sum := BatchSummary{BatchID: batchID, TotalExpense: decimal.Zero, TotalIncome: decimal.Zero}
	byCat := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		sum.TotalExpense = sum.TotalExpense.Add(e.Amount)
		byCat[e.Category] = byCat[e.Category].Add(e.Amount)
	}
	for _, i := range income {
		sum.TotalIncome = sum.TotalIncome.Add(i.Amount)
	}
	for _, t := range tasks {
		if t.Done {
			sum.CompletedTasks++
		} else {
			sum.OpenTasks++
		}
	}
	sum.Profit = sum.TotalIncome.Sub(sum.TotalExpense)

	for _, c := range builtinCategories {
		if amt, ok := byCat[c.Name]; ok {
			sum.ByCategory = append(sum.ByCategory, CategoryTotal{Category: c.Name, Kind: c.Kind, Amount: amt})
		}
	}
	return sum, nil
}
