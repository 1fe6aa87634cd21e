package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whale-intel/internal/domain"
	"whale-intel/internal/storage"
)

func testSnapshot(ticker string, ts int64) *domain.SentimentSnapshot {
	return &domain.SentimentSnapshot{
		Ticker:               ticker,
		Timestamp:            ts,
		ProviderSentimentAvg: 0.3,
		LLMSentimentAvg:      0.5,
		AggregatedScore:      0.4,
		NewsCount24h:         12,
		PositiveCount:        8,
		NegativeCount:        2,
		NeutralCount:         2,
		Confidence:           0.9,
	}
}

func TestSentimentSnapshotStore_InsertAndGetByTicker(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSentimentSnapshotStore(conn)
	ctx := context.Background()

	err := store.Insert(ctx, testSnapshot("PEPE", 3600000))
	require.NoError(t, err)

	got, err := store.GetByTicker(ctx, "PEPE", 0, 7200000)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "PEPE", got[0].Ticker)
	assert.Equal(t, int64(3600000), got[0].Timestamp)
	assert.Equal(t, 0.3, got[0].ProviderSentimentAvg)
	assert.Equal(t, 0.5, got[0].LLMSentimentAvg)
	assert.Equal(t, 0.4, got[0].AggregatedScore)
	assert.Equal(t, 12, got[0].NewsCount24h)
	assert.Equal(t, 8, got[0].PositiveCount)
	assert.Equal(t, 2, got[0].NegativeCount)
	assert.Equal(t, 2, got[0].NeutralCount)
	assert.Equal(t, 0.9, got[0].Confidence)
}

func TestSentimentSnapshotStore_InsertDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSentimentSnapshotStore(conn)
	ctx := context.Background()

	err := store.Insert(ctx, testSnapshot("PEPE", 3600000))
	require.NoError(t, err)

	// MergeTree would happily append; the store must reject instead.
	err = store.Insert(ctx, testSnapshot("PEPE", 3600000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Other hour and other ticker are distinct keys.
	assert.NoError(t, store.Insert(ctx, testSnapshot("PEPE", 7200000)))
	assert.NoError(t, store.Insert(ctx, testSnapshot("DOGE", 3600000)))
}

func TestSentimentSnapshotStore_GetByTickerOrdering(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSentimentSnapshotStore(conn)
	ctx := context.Background()

	for _, ts := range []int64{10800000, 3600000, 7200000} {
		require.NoError(t, store.Insert(ctx, testSnapshot("PEPE", ts)))
	}
	require.NoError(t, store.Insert(ctx, testSnapshot("DOGE", 3600000)))

	got, err := store.GetByTicker(ctx, "PEPE", 0, 20000000)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, int64(3600000), got[0].Timestamp)
	assert.Equal(t, int64(7200000), got[1].Timestamp)
	assert.Equal(t, int64(10800000), got[2].Timestamp)

	// Window bounds are inclusive.
	got, err = store.GetByTicker(ctx, "PEPE", 7200000, 7200000)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSentimentSnapshotStore_GetLatest(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSentimentSnapshotStore(conn)
	ctx := context.Background()

	_, err := store.GetLatest(ctx, "PEPE")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	for _, ts := range []int64{3600000, 10800000, 7200000} {
		require.NoError(t, store.Insert(ctx, testSnapshot("PEPE", ts)))
	}

	got, err := store.GetLatest(ctx, "PEPE")
	require.NoError(t, err)
	assert.Equal(t, int64(10800000), got.Timestamp)
}
