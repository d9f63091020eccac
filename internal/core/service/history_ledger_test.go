package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/wine-inventory/internal/adapter/storage"
	"github.com/rl1809/wine-inventory/internal/core/domain"
)

func TestHistoryLedger_LogChangeUsesInjectedIDsAndClock(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger := NewHistoryLedger(storage.NewMemoryHistoryAdapter(),
		WithIDGenerator(sequentialIDs("entry")),
		WithClock(func() time.Time { return at }),
	)

	entry, err := ledger.LogChange(context.Background(), "w1", domain.HistoryTypeStockIn, 12, "alice")
	require.NoError(t, err)

	assert.Equal(t, domain.HistoryEntry{
		ID:              "entry-1",
		WineID:          "w1",
		Type:            domain.HistoryTypeStockIn,
		QuantityChanged: 12,
		ModifiedBy:      "alice",
		CreatedAt:       at,
	}, entry)
}

func TestHistoryLedger_DefaultIDsAreUnique(t *testing.T) {
	ledger := NewHistoryLedger(storage.NewMemoryHistoryAdapter())
	ctx := context.Background()

	a, err := ledger.LogChange(ctx, "w1", domain.HistoryTypeStockIn, 1, "")
	require.NoError(t, err)
	b, err := ledger.LogChange(ctx, "w1", domain.HistoryTypeStockIn, 1, "")
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Empty(t, a.ModifiedBy)
}

func TestHistoryLedger_TimestampsNeverDecrease(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Minute), base.Add(time.Second)}
	i := 0
	ledger := NewHistoryLedger(storage.NewMemoryHistoryAdapter(), WithClock(func() time.Time {
		ts := ticks[i]
		i++
		return ts
	}))
	ctx := context.Background()

	for range ticks {
		_, err := ledger.LogChange(ctx, "w1", domain.HistoryTypeStockIn, 1, "")
		require.NoError(t, err)
	}

	entries, err := ledger.GetAllHistories(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, base, entries[0].CreatedAt)
	assert.Equal(t, base, entries[1].CreatedAt)
	assert.Equal(t, base.Add(time.Second), entries[2].CreatedAt)
}

func TestHistoryLedger_FilterIntersection(t *testing.T) {
	ledger := NewHistoryLedger(storage.NewMemoryHistoryAdapter(), WithIDGenerator(sequentialIDs("h")))
	ctx := context.Background()

	ledger.LogChange(ctx, "w1", domain.HistoryTypeStockIn, 10, "alice")
	ledger.LogChange(ctx, "w1", domain.HistoryTypeStockOut, 2, "alice")
	ledger.LogChange(ctx, "w2", domain.HistoryTypeStockIn, 5, "bob")
	ledger.LogChange(ctx, "w2", domain.HistoryTypeStockIn, 1, "alice")

	got, err := ledger.GetHistoriesByFilter(ctx, domain.ByType(domain.HistoryTypeStockIn), domain.ByModifiedBy("alice"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "h-1", got[0].ID)
	assert.Equal(t, "h-4", got[1].ID)

	got, err = ledger.GetHistoriesByFilter(ctx, domain.ByID("h-3"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].ModifiedBy)
}

func TestHistoryLedger_NoFiltersReturnsAll(t *testing.T) {
	ledger := NewHistoryLedger(storage.NewMemoryHistoryAdapter())
	ctx := context.Background()

	ledger.LogChange(ctx, "w1", domain.HistoryTypeStockIn, 10, "")
	ledger.LogChange(ctx, "w2", domain.HistoryTypeStockOut, 3, "")

	got, err := ledger.GetHistoriesByFilter(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestHistoryLedger_AppendErrorIsWrapped(t *testing.T) {
	repo := &failingHistoryRepo{MemoryHistoryAdapter: storage.NewMemoryHistoryAdapter(), fail: true}
	ledger := NewHistoryLedger(repo)

	_, err := ledger.LogChange(context.Background(), "w1", domain.HistoryTypeStockIn, 1, "")
	assert.ErrorContains(t, err, "append history for wine w1")
}
