package shopping

import (
	"context"
	"path/filepath"
	"testing"

	"smart-shopping/internal/core/ingredient"
	"smart-shopping/internal/infrastructure/config"
	"smart-shopping/internal/infrastructure/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := storage.Open(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		BusyTimeout: 5000,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func TestStoreInsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.InsertItem(ctx, Item{
		Name:     "Tomates",
		Category: "Légumes",
		Quantity: 400,
		Unit:     "g",
		RecipeSources: []ingredient.Contribution{
			{SourceID: "r1", SourceName: "Bolognaise", Quantity: 400, Unit: "g"},
		},
	})
	require.NoError(t, err)
	require.Positive(t, id)

	item, err := store.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tomates", item.Name)
	assert.Equal(t, "Légumes", item.Category)
	assert.Equal(t, 400.0, item.Quantity)
	assert.Equal(t, "g", item.Unit)
	assert.False(t, item.Checked)
	require.Len(t, item.RecipeSources, 1)
	assert.Equal(t, "Bolognaise", item.RecipeSources[0].SourceName)
}

func TestStoreGetMissingItem(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetItem(context.Background(), 42)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestStoreSetCheckedAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id1, err := store.InsertItem(ctx, Item{Name: "Lait", Quantity: 1, Unit: "l"})
	require.NoError(t, err)
	id2, err := store.InsertItem(ctx, Item{Name: "Pain", Quantity: 1, Unit: "unité"})
	require.NoError(t, err)

	require.NoError(t, store.SetChecked(ctx, id1, true))
	assert.ErrorIs(t, store.SetChecked(ctx, 999, true), ErrItemNotFound)

	pending, err := store.PendingItems(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id2, pending[0].ID)

	n, err := store.ClearChecked(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestStoreUpdateConsolidated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.InsertItem(ctx, Item{Name: "Tomates", Quantity: 400, Unit: "g"})
	require.NoError(t, err)

	sources := []ingredient.Contribution{
		{SourceID: "r1", SourceName: "Bolognaise", Quantity: 400, Unit: "g"},
		{SourceID: "r2", SourceName: "Ratatouille", Quantity: 200, Unit: "g"},
	}
	require.NoError(t, store.UpdateConsolidated(ctx, id, 600, "g", false, sources))

	item, err := store.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 600.0, item.Quantity)
	assert.Len(t, item.RecipeSources, 2)
}

func TestStoreFrequentItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.TouchFrequentItem(ctx, "lait", "Crèmerie"))
	require.NoError(t, store.TouchFrequentItem(ctx, "lait", "Crèmerie"))
	require.NoError(t, store.TouchFrequentItem(ctx, "pain", "Boulangerie"))

	items, err := store.FrequentItems(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "lait", items[0].Name)
	assert.Equal(t, 2, items[0].UsageCount)
}

func TestStoreStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.InsertItem(ctx, Item{Name: "Lait", Quantity: 1, Unit: "l"})
	require.NoError(t, err)
	_, err = store.InsertItem(ctx, Item{Name: "Pain", Quantity: 1, Unit: "unité"})
	require.NoError(t, err)
	require.NoError(t, store.SetChecked(ctx, id, true))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 1, stats.CheckedItems)
	assert.Equal(t, 1, stats.PendingItems)
	assert.InDelta(t, 0.5, stats.CheckedRatio, 1e-9)
}
