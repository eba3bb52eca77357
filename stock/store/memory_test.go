package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
)

func TestMemory_RenameMovesKey(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveEntry(ctx, stock.Entry{ID: "e1", Kind: stock.KindProduct, Name: "A"}))

	require.NoError(t, m.SaveEntry(ctx, stock.Entry{ID: "e1", Kind: stock.KindProduct, Name: "B"}))

	old, err := m.GetEntry(ctx, stock.ProductKey("A"))
	require.NoError(t, err)
	assert.Nil(t, old)
	renamed, err := m.GetEntry(ctx, stock.ProductKey("B"))
	require.NoError(t, err)
	require.NotNil(t, renamed)
	assert.Equal(t, "e1", renamed.ID)
}

func TestMemory_SaveCollision(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveEntry(ctx, stock.Entry{ID: "e1", Kind: stock.KindProduct, Name: "A"}))

	err := m.SaveEntry(ctx, stock.Entry{ID: "e2", Kind: stock.KindProduct, Name: "A"})

	assert.ErrorIs(t, err, stock.ErrEntryExists)
}

func TestMemory_WithTxRestoresOnError(t *testing.T) {
	// GIVEN: An entry at 10
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.SaveEntry(ctx, stock.Entry{ID: "e1", Kind: stock.KindProduct, Name: "A", Qty: decimal.NewFromInt(10)}))
	boom := errors.New("boom")

	// WHEN: A transaction changes it, journals, then fails in a nested call
	err := m.WithTx(ctx, func(ctx context.Context) error {
		if err := m.SaveEntry(ctx, stock.Entry{ID: "e1", Kind: stock.KindProduct, Name: "A", Qty: decimal.NewFromInt(3)}); err != nil {
			return err
		}
		if err := m.AppendMovement(ctx, stock.Movement{ID: "m1", Key: stock.ProductKey("A")}); err != nil {
			return err
		}
		return m.WithTx(ctx, func(context.Context) error { return boom })
	})

	// THEN: Both the entry and the journal are as before
	assert.ErrorIs(t, err, boom)
	e, err := m.GetEntry(ctx, stock.ProductKey("A"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(e.Qty))
	movements, err := m.ListMovements(ctx, stock.ProductKey("A"), 0)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestMemory_ConcurrentDeltasSerialize(t *testing.T) {
	// GIVEN: A ledger over the memory store
	m := NewMemory()
	ledger := stock.NewLedger(m)
	ctx := context.Background()
	key := stock.ProductKey("முறுக்கு")

	// WHEN: 50 goroutines each subtract 1
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.ApplyDelta(ctx, stock.Delta{Key: key, Qty: decimal.NewFromInt(-1), Reason: stock.ReasonApply})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// THEN: No update is lost
	e, _, err := ledger.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-50).Equal(e.Qty), "got %s", e.Qty)
	movements, err := m.ListMovements(ctx, key, 0)
	require.NoError(t, err)
	assert.Len(t, movements, 50)
}
