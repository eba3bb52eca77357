package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhakrishnanganapathy/rksApp-sub000/inventory"
	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
	"github.com/radhakrishnanganapathy/rksApp-sub000/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestService(t *testing.T, opts ...stock.Option) *inventory.Service {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return inventory.NewService(store, stock.NewLedger(store, opts...))
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var march1 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T, svc *inventory.Service, key stock.Key, qty string) {
	t.Helper()
	_, err := svc.Ledger().ApplyDelta(context.Background(), stock.Delta{Key: key, Qty: d(qty), Reason: stock.ReasonManualDelta})
	require.NoError(t, err)
}

func assertQty(t *testing.T, svc *inventory.Service, key stock.Key, want string) {
	t.Helper()
	e, _, err := svc.Ledger().Get(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, d(want).Equal(e.Qty), "%s: want %s, got %s", key, want, e.Qty)
}

func saleOf(item, qty string) inventory.Sale {
	return inventory.Sale{
		Date:     march1,
		Customer: "Kannan Stores",
		Items:    []inventory.LineItem{{Name: item, Qty: d(qty), Price: d("250")}},
	}
}

// =============================================================================
// SALES
// =============================================================================

func TestSale_CreateEditDelete(t *testing.T) {
	// GIVEN: கை முறுக்கு at 100
	svc := newTestService(t)
	ctx := context.Background()
	key := stock.ProductKey("கை முறுக்கு")
	seed(t, svc, key, "100")

	// WHEN: Selling 10, editing to 15, deleting
	sale, err := svc.CreateSale(ctx, saleOf("கை முறுக்கு", "10"))
	require.NoError(t, err)
	assert.True(t, d("2500").Equal(sale.Total))
	assertQty(t, svc, key, "90")

	_, err = svc.UpdateSale(ctx, sale.ID, saleOf("கை முறுக்கு", "15"))
	require.NoError(t, err)
	assertQty(t, svc, key, "85")

	require.NoError(t, svc.DeleteSale(ctx, sale.ID))

	// THEN: Stock returns to 100 and the sale is gone
	assertQty(t, svc, key, "100")
	_, err = svc.GetSale(ctx, sale.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestSale_RenamedItemMovesStock(t *testing.T) {
	// GIVEN: A sale of 5 லட்டு, both products at 50
	svc := newTestService(t)
	ctx := context.Background()
	a, b := stock.ProductKey("லட்டு"), stock.ProductKey("ஜாங்கிரி")
	seed(t, svc, a, "50")
	seed(t, svc, b, "50")
	sale, err := svc.CreateSale(ctx, saleOf("லட்டு", "5"))
	require.NoError(t, err)

	// WHEN: The line is changed to ஜாங்கிரி
	_, err = svc.UpdateSale(ctx, sale.ID, saleOf("ஜாங்கிரி", "5"))
	require.NoError(t, err)

	// THEN: லட்டு is restored, ஜாங்கிரி carries the sale
	assertQty(t, svc, a, "50")
	assertQty(t, svc, b, "45")
}

func TestSale_HardenedModeRollsBackRecord(t *testing.T) {
	// GIVEN: Negative stock forbidden and 5 on hand
	svc := newTestService(t, stock.WithNegativeStock(false))
	ctx := context.Background()
	key := stock.ProductKey("சீடை")
	seed(t, svc, key, "5")

	// WHEN: Selling 8
	_, err := svc.CreateSale(ctx, saleOf("சீடை", "8"))

	// THEN: The shortage is reported and no sale is stored
	var short *stock.InsufficientStockError
	require.True(t, errors.As(err, &short), "got %v", err)
	assert.True(t, d("5").Equal(short.Available))
	sales, err := svc.ListSales(ctx, inventory.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, sales)
	assertQty(t, svc, key, "5")
}

func TestSale_HardenedUpdateKeepsOldRecord(t *testing.T) {
	svc := newTestService(t, stock.WithNegativeStock(false))
	ctx := context.Background()
	key := stock.ProductKey("சீடை")
	seed(t, svc, key, "10")
	sale, err := svc.CreateSale(ctx, saleOf("சீடை", "4"))
	require.NoError(t, err)

	_, err = svc.UpdateSale(ctx, sale.ID, saleOf("சீடை", "20"))

	assert.ErrorIs(t, err, stock.ErrInsufficientStock)
	got, err := svc.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, d("4").Equal(got.Items[0].Qty))
	assertQty(t, svc, key, "6")
}

func TestSale_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		sale  inventory.Sale
		field string
	}{
		{"no date", inventory.Sale{Items: saleOf("x", "1").Items}, "date"},
		{"no items", inventory.Sale{Date: march1}, "items"},
		{"zero qty", saleOf("x", "0"), "items[0].qty"},
		{"blank name", saleOf(" ", "1"), "items[0].name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSale(ctx, tt.sale)

			var verr *inventory.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.True(t, inventory.IsClientError(err))
		})
	}
}

// =============================================================================
// PRODUCTION, USAGE, EXPENSES
// =============================================================================

func TestProduction_OnMissingEntryPersistsAtZero(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	key := stock.ProductKey("அதிரசம்")

	p, err := svc.CreateProduction(ctx, inventory.ProductionEntry{Date: march1, Item: "அதிரசம்", Qty: d("30"), Unit: "kg"})
	require.NoError(t, err)
	assertQty(t, svc, key, "30")

	require.NoError(t, svc.DeleteProduction(ctx, p.ID))

	e, ok, err := svc.Ledger().Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok, "entry persists")
	assert.True(t, e.Qty.IsZero())
	assert.Equal(t, "kg", e.Unit)
}

func TestProduction_UnitOnlyEditReachesLedger(t *testing.T) {
	// GIVEN: 30 kg of அதிரசம் produced
	svc := newTestService(t)
	ctx := context.Background()
	key := stock.ProductKey("அதிரசம்")
	p, err := svc.CreateProduction(ctx, inventory.ProductionEntry{Date: march1, Item: "அதிரசம்", Qty: d("30"), Unit: "kg"})
	require.NoError(t, err)

	// WHEN: The entry is edited to count boxes, same quantity
	p.Unit = "box"
	_, err = svc.UpdateProduction(ctx, p.ID, p)
	require.NoError(t, err)

	// THEN: The ledger takes the new unit and keeps the quantity
	e, _, err := svc.Ledger().Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "box", e.Unit)
	assertQty(t, svc, key, "30")
	movements, err := svc.Ledger().Movements(ctx, key, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 1, "a unit change is not journaled")
}

func TestUsage_EditReconciles(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	key := stock.RawMaterialKey("எண்ணெய்")
	seed(t, svc, key, "20")

	u, err := svc.CreateUsage(ctx, inventory.UsageEntry{Date: march1, MaterialName: "எண்ணெய்", QuantityUsed: d("5"), Unit: "litre"})
	require.NoError(t, err)
	assertQty(t, svc, key, "15")

	u.QuantityUsed = d("8")
	_, err = svc.UpdateUsage(ctx, u.ID, u)
	require.NoError(t, err)

	assertQty(t, svc, key, "12")
}

func TestExpense_CategoryChangeRevertsPurchase(t *testing.T) {
	// GIVEN: A raw material purchase of 50 kg
	svc := newTestService(t)
	ctx := context.Background()
	key := stock.RawMaterialKey("அரிசி மாவு")
	e, err := svc.CreateExpense(ctx, inventory.Expense{
		Date: march1, Category: inventory.RawMaterialCategory, MaterialName: "அரிசி மாவு",
		Quantity: d("50"), Unit: "kg", Amount: d("2000"),
	})
	require.NoError(t, err)
	assertQty(t, svc, key, "50")

	// WHEN: Reclassifying it as a non-stock expense
	e.Category = "Packaging"
	_, err = svc.UpdateExpense(ctx, e.ID, e)
	require.NoError(t, err)

	// THEN: The purchase no longer counts
	assertQty(t, svc, key, "0")
}

func TestExpense_RawMaterialNeedsName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateExpense(context.Background(), inventory.Expense{
		Date: march1, Category: inventory.RawMaterialCategory, Quantity: d("1"), Amount: d("10"),
	})

	assert.ErrorIs(t, err, inventory.ErrValidation)
}

func TestDelete_UnknownRecord(t *testing.T) {
	svc := newTestService(t)

	err := svc.DeleteUsage(context.Background(), "missing")

	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

// =============================================================================
// ORDERS
// =============================================================================

func newOrder(qty string) inventory.Order {
	return inventory.Order{
		Customer:     "Meena",
		OrderDate:    march1,
		DeliveryDate: march1.AddDate(0, 0, 4),
		Items:        []inventory.LineItem{{Name: "முறுக்கு", Qty: d(qty), Price: d("300")}},
		Advance:      d("1000"),
	}
}

func TestOrder_DeliverCreatesSaleOnce(t *testing.T) {
	// GIVEN: 40 on hand and a waiting order for 12
	svc := newTestService(t)
	ctx := context.Background()
	key := stock.ProductKey("முறுக்கு")
	seed(t, svc, key, "40")
	o, err := svc.CreateOrder(ctx, newOrder("12"))
	require.NoError(t, err)
	assert.Equal(t, inventory.OrderWaiting, o.Status)
	assert.True(t, d("2600").Equal(o.Balance()))
	assertQty(t, svc, key, "40")

	// WHEN: Delivering
	delivered, err := svc.SetOrderStatus(ctx, o.ID, inventory.OrderDelivered)
	require.NoError(t, err)

	// THEN: A sale on the delivery date holds the stock effect
	sale, err := svc.GetSale(ctx, delivered.SaleID)
	require.NoError(t, err)
	assert.True(t, o.DeliveryDate.Equal(sale.Date))
	assertQty(t, svc, key, "28")

	// AND: Terminal orders cannot change again
	_, err = svc.SetOrderStatus(ctx, o.ID, inventory.OrderCancelled)
	assert.ErrorIs(t, err, inventory.ErrInvalidTransition)
	_, err = svc.UpdateOrder(ctx, o.ID, newOrder("1"))
	assert.ErrorIs(t, err, inventory.ErrOrderClosed)
	assertQty(t, svc, key, "28")

	// AND: Deleting the order leaves the sale
	require.NoError(t, svc.DeleteOrder(ctx, o.ID))
	_, err = svc.GetSale(ctx, delivered.SaleID)
	assert.NoError(t, err)
}

func TestOrder_CancelNeverTouchesStock(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	key := stock.ProductKey("முறுக்கு")
	seed(t, svc, key, "40")
	o, err := svc.CreateOrder(ctx, newOrder("12"))
	require.NoError(t, err)

	cancelled, err := svc.SetOrderStatus(ctx, o.ID, inventory.OrderCancelled)

	require.NoError(t, err)
	assert.Empty(t, cancelled.SaleID)
	assertQty(t, svc, key, "40")
}

func TestOrder_HardenedDeliveryStaysWaiting(t *testing.T) {
	// GIVEN: Negative stock forbidden and not enough on hand
	svc := newTestService(t, stock.WithNegativeStock(false))
	ctx := context.Background()
	seed(t, svc, stock.ProductKey("முறுக்கு"), "3")
	o, err := svc.CreateOrder(ctx, newOrder("12"))
	require.NoError(t, err)

	// WHEN: Delivering
	_, err = svc.SetOrderStatus(ctx, o.ID, inventory.OrderDelivered)

	// THEN: The order is still waiting and no sale exists
	assert.ErrorIs(t, err, stock.ErrInsufficientStock)
	got, err := svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, inventory.OrderWaiting, got.Status)
	sales, err := svc.ListSales(ctx, inventory.DateRange{})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestOrder_Validation(t *testing.T) {
	svc := newTestService(t)
	o := newOrder("1")
	o.DeliveryDate = march1.AddDate(0, 0, -1)

	_, err := svc.CreateOrder(context.Background(), o)

	var verr *inventory.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "deliveryDate", verr.Field)
}

// =============================================================================
// STOCK CHECK
// =============================================================================

func TestCheckStock_Advisory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	key := stock.ProductKey("முறுக்கு")
	seed(t, svc, key, "4")

	shortages, err := svc.CheckStock(ctx, []inventory.StockLine{
		{Kind: stock.KindProduct, Name: "முறுக்கு", Qty: d("6")},
		{Kind: stock.KindRawMaterial, Name: "எள்", Qty: d("1")},
	})

	require.NoError(t, err)
	require.Len(t, shortages, 2)
	assertQty(t, svc, key, "4")

	_, err = svc.CheckStock(ctx, []inventory.StockLine{{Kind: "gadget", Name: "x", Qty: d("1")}})
	assert.ErrorIs(t, err, inventory.ErrValidation)
}
