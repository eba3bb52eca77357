package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
)

// testRecord is a minimal stock.Record: each line is a signed forward delta.
type testRecord struct {
	id    string
	lines []stock.Delta
}

func (r testRecord) StockRef() string            { return "test:" + r.id }
func (r testRecord) StockDeltas() []stock.Delta { return r.lines }

func sale(id string, lines ...stock.Delta) testRecord { return testRecord{id: id, lines: lines} }

func minus(key stock.Key, q string) stock.Delta { return stock.Delta{Key: key, Qty: qty(q).Neg()} }
func plus(key stock.Key, q string) stock.Delta  { return stock.Delta{Key: key, Qty: qty(q)} }

// =============================================================================
// NET
// =============================================================================

func TestNet_SameKeyCombines(t *testing.T) {
	k := stock.ProductKey("A")

	out := stock.Net([]stock.Delta{minus(k, "10")}, []stock.Delta{minus(k, "15")}, "sale:1")

	require.Len(t, out, 1)
	assert.True(t, out[0].Qty.Equal(qty("-5")))
	assert.Equal(t, stock.ReasonReconcile, out[0].Reason)
	assert.Equal(t, "sale:1", out[0].Ref)
}

func TestNet_RenameTouchesBothKeys(t *testing.T) {
	a, b := stock.ProductKey("A"), stock.ProductKey("B")

	out := stock.Net([]stock.Delta{minus(a, "4")}, []stock.Delta{minus(b, "6")}, "")

	require.Len(t, out, 2)
	assert.Equal(t, a, out[0].Key)
	assert.True(t, out[0].Qty.Equal(qty("4")))
	assert.Equal(t, stock.ReasonRevert, out[0].Reason)
	assert.Equal(t, b, out[1].Key)
	assert.True(t, out[1].Qty.Equal(qty("-6")))
	assert.Equal(t, stock.ReasonApply, out[1].Reason)
}

func TestNet_UnchangedKeySkipped(t *testing.T) {
	k := stock.ProductKey("A")

	out := stock.Net([]stock.Delta{minus(k, "3")}, []stock.Delta{minus(k, "3")}, "")

	assert.Empty(t, out)
}

func TestNet_UnitChangeOnly(t *testing.T) {
	k := stock.ProductKey("A")
	kg := stock.Delta{Key: k, Qty: qty("30"), Unit: "kg"}
	box := stock.Delta{Key: k, Qty: qty("30"), Unit: "box"}

	out := stock.Net([]stock.Delta{kg}, []stock.Delta{box}, "production:1")

	require.Len(t, out, 1)
	assert.True(t, out[0].Qty.IsZero())
	assert.Equal(t, "box", out[0].Unit)

	// Same unit again is untouched.
	assert.Empty(t, stock.Net([]stock.Delta{box}, []stock.Delta{box}, ""))
}

// =============================================================================
// LIFECYCLE PROPERTIES
// =============================================================================

func TestReconciler_SaleEditDelete_Example(t *testing.T) {
	// GIVEN: கை முறுக்கு at 100
	// WHEN: sale 10, edit to 15, delete
	// THEN: 90, 85, 100
	ledger, _ := newTestLedger()
	rec := stock.NewReconciler(ledger)
	ctx := context.Background()
	key := stock.ProductKey("கை முறுக்கு")

	_, err := ledger.ApplyDelta(ctx, plus(key, "100"))
	require.NoError(t, err)

	s1 := sale("1", minus(key, "10"))
	require.NoError(t, rec.OnCreate(ctx, s1))
	assertQty(t, ledger, key, "90")

	s2 := sale("1", minus(key, "15"))
	require.NoError(t, rec.OnUpdate(ctx, s1, s2))
	assertQty(t, ledger, key, "85")

	require.NoError(t, rec.OnDelete(ctx, s2))
	assertQty(t, ledger, key, "100")
}

func TestReconciler_Conservation(t *testing.T) {
	ledger, _ := newTestLedger()
	rec := stock.NewReconciler(ledger)
	ctx := context.Background()
	a, b := stock.ProductKey("A"), stock.RawMaterialKey("B")

	require.NoError(t, ledger.ApplyBatch(ctx, []stock.Delta{plus(a, "7.25"), plus(b, "3")}))

	r := sale("x", minus(a, "2.5"), plus(b, "11"), minus(a, "1"))
	require.NoError(t, rec.OnCreate(ctx, r))
	require.NoError(t, rec.OnDelete(ctx, r))

	assertQty(t, ledger, a, "7.25")
	assertQty(t, ledger, b, "3")
}

func TestReconciler_UpdateEquivalence(t *testing.T) {
	// Updating D1 -> D2 must equal delete(D1) + create(D2).
	ctx := context.Background()
	key := stock.RawMaterialKey("எண்ணெய்")

	viaUpdate, _ := newTestLedger()
	viaRecreate, _ := newTestLedger()
	for _, l := range []*stock.Ledger{viaUpdate, viaRecreate} {
		_, err := l.ApplyDelta(ctx, plus(key, "20"))
		require.NoError(t, err)
	}

	old := sale("u", minus(key, "5"))
	updated := sale("u", minus(key, "8"))

	recU := stock.NewReconciler(viaUpdate)
	require.NoError(t, recU.OnCreate(ctx, old))
	assertQty(t, viaUpdate, key, "15")
	require.NoError(t, recU.OnUpdate(ctx, old, updated))

	recR := stock.NewReconciler(viaRecreate)
	require.NoError(t, recR.OnCreate(ctx, old))
	require.NoError(t, recR.OnDelete(ctx, old))
	require.NoError(t, recR.OnCreate(ctx, updated))

	assertQty(t, viaUpdate, key, "12")
	assertQty(t, viaRecreate, key, "12")
}

func TestReconciler_RenameHandling(t *testing.T) {
	ledger, _ := newTestLedger()
	rec := stock.NewReconciler(ledger)
	ctx := context.Background()
	a, b := stock.ProductKey("A"), stock.ProductKey("B")

	require.NoError(t, ledger.ApplyBatch(ctx, []stock.Delta{plus(a, "50"), plus(b, "50")}))

	old := sale("r", minus(a, "5"))
	require.NoError(t, rec.OnCreate(ctx, old))
	require.NoError(t, rec.OnUpdate(ctx, old, sale("r", minus(b, "7"))))

	assertQty(t, ledger, a, "50")
	assertQty(t, ledger, b, "43")
}

func TestReconciler_ProductionWithoutEntry_PersistsAtZero(t *testing.T) {
	ledger, _ := newTestLedger()
	rec := stock.NewReconciler(ledger)
	ctx := context.Background()
	key := stock.ProductKey("அதிரசம்")

	prod := sale("p", plus(key, "30"))
	require.NoError(t, rec.OnCreate(ctx, prod))
	assertQty(t, ledger, key, "30")

	require.NoError(t, rec.OnDelete(ctx, prod))
	e, ok, err := ledger.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok, "entry is not auto-removed at zero")
	assert.True(t, e.Qty.IsZero())
}

func TestReconciler_FailedUpdateRollsBack(t *testing.T) {
	// GIVEN: Hardened ledger, A=10 with a live sale of 4 (A=6), B=1
	// WHEN: Sale edited to take 5 of B instead
	// THEN: Update fails and A stays at 6
	ledger, _ := newTestLedger(stock.WithNegativeStock(false))
	rec := stock.NewReconciler(ledger)
	ctx := context.Background()
	a, b := stock.ProductKey("A"), stock.ProductKey("B")

	require.NoError(t, ledger.ApplyBatch(ctx, []stock.Delta{plus(a, "10"), plus(b, "1")}))
	old := sale("f", minus(a, "4"))
	require.NoError(t, rec.OnCreate(ctx, old))

	err := rec.OnUpdate(ctx, old, sale("f", minus(b, "5")))

	assert.ErrorIs(t, err, stock.ErrInsufficientStock)
	assertQty(t, ledger, a, "6")
	assertQty(t, ledger, b, "1")
}
