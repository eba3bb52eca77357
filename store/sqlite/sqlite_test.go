package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhakrishnanganapathy/rksApp-sub000/attendance"
	"github.com/radhakrishnanganapathy/rksApp-sub000/farm"
	"github.com/radhakrishnanganapathy/rksApp-sub000/inventory"
	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// STOCK
// =============================================================================

func TestStockEntry_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := stock.ProductKey("கை முறுக்கு")

	got, err := s.GetEntry(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got, "absent entry is nil, not an error")

	e := stock.Entry{ID: "e1", Kind: key.Kind, Name: key.Name, Qty: decimal.RequireFromString("12.5"), Unit: "kg", UpdatedAt: time.Now().UTC()}
	require.NoError(t, s.SaveEntry(ctx, e))

	got, err = s.GetEntry(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "e1", got.ID)
	assert.True(t, e.Qty.Equal(got.Qty))
	assert.Equal(t, "kg", got.Unit)

	// Names are case-sensitive.
	other, err := s.GetEntry(ctx, stock.ProductKey("கை முறுக்கு "))
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestStockEntry_RenameCollision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEntry(ctx, stock.Entry{ID: "a", Kind: stock.KindProduct, Name: "A"}))
	require.NoError(t, s.SaveEntry(ctx, stock.Entry{ID: "b", Kind: stock.KindProduct, Name: "B"}))

	err := s.SaveEntry(ctx, stock.Entry{ID: "a", Kind: stock.KindProduct, Name: "B"})

	assert.True(t, errors.Is(err, stock.ErrEntryExists), "got %v", err)

	// Same name under the other kind is a different key.
	assert.NoError(t, s.SaveEntry(ctx, stock.Entry{ID: "c", Kind: stock.KindRawMaterial, Name: "A"}))
}

func TestWithTx_RollsBack(t *testing.T) {
	// GIVEN: A transaction that saves an entry then fails
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context) error {
		if err := s.SaveEntry(ctx, stock.Entry{ID: "x", Kind: stock.KindProduct, Name: "X"}); err != nil {
			return err
		}
		// Nested calls join the outer transaction.
		return s.WithTx(ctx, func(ctx context.Context) error { return boom })
	})

	// THEN: Nothing is persisted
	assert.ErrorIs(t, err, boom)
	got, err := s.GetEntry(ctx, stock.ProductKey("X"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMovements_NewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := stock.RawMaterialKey("எண்ணெய்")

	for i, d := range []int64{20, -5, 3} {
		require.NoError(t, s.AppendMovement(ctx, stock.Movement{
			ID: string(rune('a' + i)), EntryID: "e", Key: key,
			Delta: decimal.NewFromInt(d), Reason: stock.ReasonApply, At: time.Now().UTC(),
		}))
	}

	all, err := s.ListMovements(ctx, key, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)

	limited, err := s.ListMovements(ctx, key, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

// =============================================================================
// INVENTORY
// =============================================================================

func TestSale_RoundTripAndRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sale := inventory.Sale{
		ID: "s1", Date: date(2025, 3, 1), Customer: "Kannan",
		Items: []inventory.LineItem{{Name: "முறுக்கு", Qty: decimal.NewFromInt(2), Price: decimal.NewFromInt(300), Unit: "kg"}},
		Total: decimal.NewFromInt(600),
	}
	require.NoError(t, s.SaveSale(ctx, sale))
	require.NoError(t, s.SaveSale(ctx, inventory.Sale{ID: "s2", Date: date(2025, 4, 1), Total: decimal.Zero}))

	got, err := s.GetSale(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "முறுக்கு", got.Items[0].Name)
	assert.True(t, sale.Total.Equal(got.Total))
	assert.True(t, sale.Date.Equal(got.Date))

	march, err := s.ListSales(ctx, inventory.DateRange{From: date(2025, 3, 1), To: date(2025, 3, 31)})
	require.NoError(t, err)
	require.Len(t, march, 1)
	assert.Equal(t, "s1", march[0].ID)

	missing, err := s.GetSale(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrders_FilterByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveOrder(ctx, inventory.Order{ID: "o1", Customer: "A", OrderDate: date(2025, 1, 1), Status: inventory.OrderWaiting}))
	require.NoError(t, s.SaveOrder(ctx, inventory.Order{ID: "o2", Customer: "B", OrderDate: date(2025, 1, 2), Status: inventory.OrderCancelled}))

	waiting, err := s.ListOrders(ctx, inventory.OrderWaiting)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "o1", waiting[0].ID)

	all, err := s.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestAttendance_UpsertKeepsOneRecordPerDay(t *testing.T) {
	// GIVEN: An employee
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Selvi", DailySalary: decimal.NewFromInt(500), Active: true}))

	// WHEN: Marking the same day twice
	c1, c2 := decimal.NewFromInt(600), decimal.NewFromInt(650)
	first, err := s.UpsertAttendance(ctx, attendance.Record{ID: "r1", EmployeeID: "e1", Date: date(2025, 5, 2), Status: attendance.StatusPresent, CustomSalary: &c1})
	require.NoError(t, err)
	second, err := s.UpsertAttendance(ctx, attendance.Record{ID: "r2", EmployeeID: "e1", Date: date(2025, 5, 2), Status: attendance.StatusPresent, CustomSalary: &c2, Salary: c2})
	require.NoError(t, err)

	// THEN: The first record is updated in place
	assert.Equal(t, first.ID, second.ID)
	records, err := s.ListAttendance(ctx, time.Time{}, time.Time{}, "e1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].CustomSalary)
	assert.True(t, c2.Equal(*records[0].CustomSalary))
	assert.True(t, c2.Equal(records[0].Salary))
}

func TestDeleteEmployee_CascadesAttendance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Selvi", Active: true}))
	_, err := s.UpsertAttendance(ctx, attendance.Record{ID: "r1", EmployeeID: "e1", Date: date(2025, 5, 2), Status: attendance.StatusAbsent})
	require.NoError(t, err)

	ok, err := s.DeleteEmployee(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, ok)

	records, err := s.ListAttendance(ctx, time.Time{}, time.Time{}, "")
	require.NoError(t, err)
	assert.Empty(t, records)

	ok, err = s.DeleteEmployee(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, ok)
}

// =============================================================================
// FARM
// =============================================================================

func TestFarmExpense_DetailRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveCrop(ctx, farm.Crop{ID: "c1", Name: "Paddy", CreatedAt: time.Now().UTC()}))
	require.NoError(t, s.SaveBatch(ctx, farm.Batch{ID: "b1", CropID: "c1", Name: "Kuruvai", StartDate: date(2025, 6, 1), Status: farm.BatchActive}))

	require.NoError(t, s.SaveFarmExpense(ctx, farm.Expense{
		ID: "x1", BatchID: "b1", Date: date(2025, 6, 3), Category: "Labour", Amount: decimal.NewFromInt(1800),
		Detail: farm.LabourDetail{Workers: 4, Wage: decimal.NewFromInt(450)},
	}))

	expenses, err := s.ListFarmExpenses(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	labour, ok := expenses[0].Detail.(farm.LabourDetail)
	require.True(t, ok, "got %T", expenses[0].Detail)
	assert.Equal(t, 4, labour.Workers)
	assert.True(t, decimal.NewFromInt(450).Equal(labour.Wage))

	// Deleting the batch removes its expenses.
	deleted, err := s.DeleteBatch(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, deleted)
	expenses, err = s.ListFarmExpenses(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, expenses)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "x")
	assert.ErrorContains(t, err, "unsupported")
}

func TestReset_ClearsEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEntry(ctx, stock.Entry{ID: "e1", Kind: stock.KindProduct, Name: "A", Qty: decimal.NewFromInt(5)}))
	require.NoError(t, s.SaveEmployee(ctx, attendance.Employee{ID: "e1", Name: "Selvi", Active: true}))

	require.NoError(t, s.Reset(ctx))

	entries, err := s.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	employees, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
}
