package ingredient

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeCompatibleUnitsOrderIndependent(t *testing.T) {
	first := []Mention{
		{RawName: "tomate", Quantity: 400, Unit: "g", SourceID: "r1", SourceName: "Ratatouille"},
		{RawName: "tomates", Quantity: 200, Unit: "g", SourceID: "r2", SourceName: "Salade"},
	}
	reversed := []Mention{first[1], first[0]}

	for _, batch := range [][]Mention{first, reversed} {
		l := NewLedger()
		for _, m := range batch {
			require.NoError(t, l.AddMention(m))
		}

		entries := l.Consolidate()
		require.Len(t, entries, 1)
		entry := entries["tomate"]
		assert.Equal(t, 600.0, entry.TotalQuantity)
		assert.Equal(t, "g", entry.Unit)
		assert.True(t, entry.IsConsolidated)
	}
}

func TestMergeAcrossUnitsOfSameClass(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddMention(Mention{RawName: "lait", Quantity: 0.5, Unit: "l", SourceID: "r1", SourceName: "Béchamel"}))
	require.NoError(t, l.AddMention(Mention{RawName: "Lait entier", Quantity: 200, Unit: "ml", SourceID: "r2", SourceName: "Crêpes"}))

	entries := l.Consolidate()
	require.Len(t, entries, 1)
	entry := entries["lait"]
	// 第一筆換算到基準單位 ml，第二筆直接累加
	assert.Equal(t, "ml", entry.Unit)
	assert.Equal(t, 700.0, entry.TotalQuantity)
	assert.Len(t, entry.Contributions, 2)
}

func TestNoFalseMergeAcrossUnitClasses(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddMention(Mention{RawName: "farine", Quantity: 400, Unit: "g", SourceID: "r1", SourceName: "Crêpes"}))
	require.NoError(t, l.AddMention(Mention{RawName: "farine", Quantity: 2, Unit: "unité", SourceID: "r2", SourceName: "Pain"}))

	entries := l.Consolidate()
	require.Len(t, entries, 1)
	entry := entries["farine"]

	// 不相容單位不得污染數值總和
	assert.Equal(t, 400.0, entry.TotalQuantity)
	assert.Equal(t, "g", entry.Unit)
	assert.True(t, entry.HasUnitMismatch)
	require.Len(t, entry.Contributions, 2)
	assert.Equal(t, "unité", entry.Contributions[1].Unit)
	assert.Equal(t, 2.0, entry.Contributions[1].Quantity)
}

func TestContributionDedupPerSource(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddMention(Mention{RawName: "tomate", Quantity: 2, Unit: "unité", SourceID: "recipe1", SourceName: "Salade"}))
	require.NoError(t, l.AddMention(Mention{RawName: "tomate", Quantity: 3, Unit: "unité", SourceID: "recipe1", SourceName: "Salade"}))

	entries := l.Consolidate()
	entry := entries["tomate"]
	require.Len(t, entry.Contributions, 1)
	assert.Equal(t, "recipe1", entry.Contributions[0].SourceID)
	assert.Equal(t, 5.0, entry.Contributions[0].Quantity)
	assert.Equal(t, 5.0, entry.TotalQuantity)
	// 單一來源不算合併
	assert.False(t, entry.IsConsolidated)
}

func TestDisplayNameStaysFirstMention(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddMention(Mention{RawName: "Spaghetti", Quantity: 400, Unit: "g", SourceID: "r1", SourceName: "Carbonara"}))
	require.NoError(t, l.AddMention(Mention{RawName: "pâtes", Quantity: 300, Unit: "g", SourceID: "r2", SourceName: "Bolognaise"}))

	entries := l.Consolidate()
	require.Len(t, entries, 1)
	assert.Equal(t, "Spaghetti", entries["pates"].DisplayName)
}

func TestSimilarKeysFoldTogether(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddMention(Mention{RawName: "poivron", Quantity: 1, Unit: "unité", SourceID: "r1", SourceName: "Wok"}))
	require.NoError(t, l.AddMention(Mention{RawName: "poivrons", Quantity: 2, Unit: "unité", SourceID: "r2", SourceName: "Ratatouille"}))

	entries := l.Consolidate()
	require.Len(t, entries, 1)
	assert.Equal(t, 3.0, entries["poivron"].TotalQuantity)
}

func TestRejectEmptyName(t *testing.T) {
	l := NewLedger()

	err := l.AddMention(Mention{RawName: "   ", Quantity: 1, Unit: "g", SourceID: "r1"})
	assert.ErrorIs(t, err, ErrInvalidIngredientName)

	err = l.AddMention(Mention{RawName: "!!!", Quantity: 1, Unit: "g", SourceID: "r1"})
	assert.ErrorIs(t, err, ErrInvalidIngredientName)

	// 空名稱不得悄悄併成空鍵項目
	assert.Equal(t, 0, l.Len())
}

func TestRejectInvalidQuantity(t *testing.T) {
	l := NewLedger()

	err := l.AddMention(Mention{RawName: "sucre", Quantity: -1, Unit: "g", SourceID: "r1"})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 0, l.Len())
}

func TestBatchPartialFailure(t *testing.T) {
	l := NewLedger()
	report := l.AddBatch([]Mention{
		{RawName: "tomate", Quantity: 400, Unit: "g", SourceID: "r1", SourceName: "Sauce"},
		{RawName: "sucre", Quantity: -5, Unit: "g", SourceID: "r1", SourceName: "Sauce"},
		{RawName: "", Quantity: 1, Unit: "g", SourceID: "r1", SourceName: "Sauce"},
		{RawName: "tomates", Quantity: 200, Unit: "g", SourceID: "r2", SourceName: "Salade"},
	})

	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 1, report.CreatedCount)
	assert.Equal(t, 1, report.MergedCount)
	require.Len(t, report.Errors, 2)
	assert.True(t, errors.Is(report.Errors[0].Err, ErrInvalidQuantity))
	assert.True(t, errors.Is(report.Errors[1].Err, ErrInvalidIngredientName))
	assert.Equal(t, 1, report.Errors[0].Index)

	// 有效子集仍正確合併
	entries := l.Consolidate()
	require.Len(t, entries, 1)
	assert.Equal(t, 600.0, entries["tomate"].TotalQuantity)
}

func TestEndToEndScenario(t *testing.T) {
	l := NewLedger()
	report := l.AddBatch([]Mention{
		{RawName: "spaghetti", Quantity: 400, Unit: "g", SourceID: "recipeA", SourceName: "Carbonara"},
		{RawName: "pâtes", Quantity: 300, Unit: "g", SourceID: "recipeB", SourceName: "Bolognaise"},
		{RawName: "œufs", Quantity: 3, Unit: "unité", SourceID: "recipeA", SourceName: "Carbonara"},
	})
	assert.Equal(t, 3, report.Accepted)
	assert.Empty(t, report.Errors)

	entries := l.Consolidate()
	require.Len(t, entries, 2)

	pates := entries["pates"]
	assert.Equal(t, 700.0, pates.TotalQuantity)
	assert.Equal(t, "g", pates.Unit)
	assert.Len(t, pates.Contributions, 2)
	assert.True(t, pates.IsConsolidated)

	oeuf := entries["oeuf"]
	assert.Equal(t, 3.0, oeuf.TotalQuantity)
	assert.Equal(t, "unité", oeuf.Unit)
	assert.Len(t, oeuf.Contributions, 1)
	assert.False(t, oeuf.IsConsolidated)
}

func TestConsolidateRoundsToTwoDecimals(t *testing.T) {
	l := NewLedger()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.AddMention(Mention{RawName: "levure", Quantity: 0.1, Unit: "g", SourceID: "r1", SourceName: "Pain"}))
	}

	entries := l.Consolidate()
	assert.Equal(t, 0.3, entries["levure"].TotalQuantity)
}

func TestConsolidateSnapshotIsDetached(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddMention(Mention{RawName: "riz", Quantity: 300, Unit: "g", SourceID: "r1", SourceName: "Risotto"}))

	snap := l.Consolidate()
	require.NoError(t, l.AddMention(Mention{RawName: "riz", Quantity: 100, Unit: "g", SourceID: "r2", SourceName: "Poke"}))

	// 快照不受之後的寫入影響
	assert.Equal(t, 300.0, snap["riz"].TotalQuantity)
	assert.Equal(t, 400.0, l.Consolidate()["riz"].TotalQuantity)
}

func TestUnknownUnitBecomesOwnContribution(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.AddMention(Mention{RawName: "levure", Quantity: 100, Unit: "g", SourceID: "r1", SourceName: "Pain"}))
	require.NoError(t, l.AddMention(Mention{RawName: "levure", Quantity: 1, Unit: "sachet", SourceID: "r2", SourceName: "Brioche"}))

	entry := l.Consolidate()["levure"]
	assert.Equal(t, 100.0, entry.TotalQuantity)
	assert.True(t, entry.HasUnitMismatch)
	require.Len(t, entry.Contributions, 2)
	assert.Equal(t, "sachet", entry.Contributions[1].Unit)
}
