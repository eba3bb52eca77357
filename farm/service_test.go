package farm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhakrishnanganapathy/rksApp-sub000/farm"
	"github.com/radhakrishnanganapathy/rksApp-sub000/store/sqlite"
)

func newTestService(t *testing.T) *farm.Service {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return farm.NewService(store)
}

var june = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newBatch(t *testing.T, svc *farm.Service) farm.Batch {
	t.Helper()
	ctx := context.Background()
	crop, err := svc.CreateCrop(ctx, farm.Crop{Name: "Paddy", Variety: "Ponni"})
	require.NoError(t, err)
	b, err := svc.CreateBatch(ctx, farm.Batch{CropID: crop.ID, Name: "Kuruvai 2025", StartDate: june, Area: decimal.NewFromInt(2), AreaUnit: "acre"})
	require.NoError(t, err)
	return b
}

func TestLookupCategory(t *testing.T) {
	c, err := farm.LookupCategory("harvest labour")
	require.NoError(t, err)
	assert.Equal(t, "Harvest Labour", c.Name)
	assert.Equal(t, farm.KindLabour, c.Kind)

	_, err = farm.LookupCategory("Lottery")
	assert.ErrorIs(t, err, farm.ErrUnknownCategory)
}

func TestAddExpense_DetailMustMatchCategory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	b := newBatch(t, svc)

	tests := []struct {
		name    string
		expense farm.Expense
		field   string
	}{
		{
			name:    "labour category with material detail",
			expense: farm.Expense{Category: "Labour", Amount: decimal.NewFromInt(100), Detail: farm.MaterialDetail{Quantity: decimal.NewFromInt(1), Unit: "kg"}},
			field:   "detail",
		},
		{
			name:    "material without quantity",
			expense: farm.Expense{Category: "Seeds", Amount: decimal.NewFromInt(100), Detail: farm.MaterialDetail{Unit: "kg"}},
			field:   "quantity",
		},
		{
			name:    "material without unit",
			expense: farm.Expense{Category: "Fertilizer", Amount: decimal.NewFromInt(100), Detail: farm.MaterialDetail{Quantity: decimal.NewFromInt(2)}},
			field:   "unit",
		},
		{
			name:    "labour without workers",
			expense: farm.Expense{Category: "Labour", Detail: farm.LabourDetail{Wage: decimal.NewFromInt(450)}},
			field:   "workers",
		},
		{
			name:    "general without amount",
			expense: farm.Expense{Category: "Transport"},
			field:   "amount",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.expense
			e.BatchID = b.ID
			e.Date = june

			_, err := svc.AddExpense(ctx, e)

			var ferr *farm.FieldError
			require.True(t, errors.As(err, &ferr), "got %v", err)
			assert.Equal(t, tt.field, ferr.Field)
			assert.True(t, farm.IsClientError(err))
		})
	}
}

func TestAddExpense_LabourAmountDefaultsToWages(t *testing.T) {
	svc := newTestService(t)
	b := newBatch(t, svc)

	e, err := svc.AddExpense(context.Background(), farm.Expense{
		BatchID: b.ID, Date: june, Category: "labour",
		Detail: farm.LabourDetail{Workers: 4, Wage: decimal.NewFromInt(450)},
	})

	require.NoError(t, err)
	assert.Equal(t, "Labour", e.Category)
	assert.True(t, decimal.NewFromInt(1800).Equal(e.Amount))
}

func TestAddExpense_UnknownBatch(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddExpense(context.Background(), farm.Expense{
		BatchID: "nope", Date: june, Category: "Other", Amount: decimal.NewFromInt(10),
	})

	assert.ErrorIs(t, err, farm.ErrNotFound)
}

func TestSummary(t *testing.T) {
	// GIVEN: A batch with labour, seeds, income and tasks
	svc := newTestService(t)
	ctx := context.Background()
	b := newBatch(t, svc)

	_, err := svc.AddExpense(ctx, farm.Expense{BatchID: b.ID, Date: june, Category: "Labour",
		Detail: farm.LabourDetail{Workers: 4, Wage: decimal.NewFromInt(450)}})
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, farm.Expense{BatchID: b.ID, Date: june, Category: "Seeds", Amount: decimal.NewFromInt(1200),
		Detail: farm.MaterialDetail{Quantity: decimal.NewFromInt(30), Unit: "kg"}})
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, farm.Expense{BatchID: b.ID, Date: june.AddDate(0, 1, 0), Category: "Labour", Amount: decimal.NewFromInt(500),
		Detail: farm.LabourDetail{Workers: 1, Wage: decimal.NewFromInt(500)}})
	require.NoError(t, err)
	_, err = svc.AddIncome(ctx, farm.Income{BatchID: b.ID, Date: june.AddDate(0, 4, 0), Source: "Paddy", Quantity: decimal.NewFromInt(30), Unit: "bag", Amount: decimal.NewFromInt(6000)})
	require.NoError(t, err)
	task, err := svc.AddTask(ctx, farm.Task{BatchID: b.ID, Date: june, Title: "Transplant"})
	require.NoError(t, err)
	_, err = svc.AddTask(ctx, farm.Task{BatchID: b.ID, Date: june.AddDate(0, 0, 20), Title: "Weeding"})
	require.NoError(t, err)
	_, err = svc.SetTaskDone(ctx, task.ID, true)
	require.NoError(t, err)

	// WHEN: Summarizing
	sum, err := svc.Summary(ctx, b.ID)
	require.NoError(t, err)

	// THEN: Totals, per-category amounts in catalog order, task counts
	assert.True(t, decimal.NewFromInt(3500).Equal(sum.TotalExpense))
	assert.True(t, decimal.NewFromInt(6000).Equal(sum.TotalIncome))
	assert.True(t, decimal.NewFromInt(2500).Equal(sum.Profit))
	require.Len(t, sum.ByCategory, 2)
	assert.Equal(t, "Seeds", sum.ByCategory[0].Category)
	assert.Equal(t, "Labour", sum.ByCategory[1].Category)
	assert.True(t, decimal.NewFromInt(2300).Equal(sum.ByCategory[1].Amount))
	assert.Equal(t, 1, sum.OpenTasks)
	assert.Equal(t, 1, sum.CompletedTasks)
}

func TestDeleteBatch_RemovesChildren(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	b := newBatch(t, svc)
	_, err := svc.AddTask(ctx, farm.Task{BatchID: b.ID, Date: june, Title: "Plough"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBatch(ctx, b.ID))

	tasks, err := svc.ListTasks(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	_, err = svc.GetBatch(ctx, b.ID)
	assert.ErrorIs(t, err, farm.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteBatch(ctx, b.ID), farm.ErrNotFound)
}

func TestBatchStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	b := newBatch(t, svc)
	assert.Equal(t, farm.BatchActive, b.Status)

	got, err := svc.SetBatchStatus(ctx, b.ID, farm.BatchHarvested)
	require.NoError(t, err)
	assert.Equal(t, farm.BatchHarvested, got.Status)

	_, err = svc.SetBatchStatus(ctx, b.ID, "fallow")
	assert.ErrorIs(t, err, farm.ErrValidation)
}

func TestCreateBatch_UnknownCrop(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateBatch(context.Background(), farm.Batch{CropID: "nope", Name: "x", StartDate: june})

	assert.ErrorIs(t, err, farm.ErrNotFound)
}
