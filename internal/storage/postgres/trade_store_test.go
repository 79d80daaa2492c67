package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/storage"
)

func TestTradeStore_Integration(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(pool)
	ctx := context.Background()

	trade := &domain.Trade{
		TradeID:      "t1",
		AgentID:      "agent-1",
		Symbol:       "SOL",
		Side:         domain.SideBuy,
		Quantity:     1.5,
		Price:        142.25,
		FeeUSD:       0.12,
		ExecutedAtMs: 1000,
	}

	t.Run("insert and get", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, trade))

		got, err := store.GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, trade, got)
	})

	t.Run("duplicate", func(t *testing.T) {
		assert.ErrorIs(t, store.Insert(ctx, trade), storage.ErrDuplicateKey)
	})

	t.Run("bulk is atomic", func(t *testing.T) {
		err := store.InsertBulk(ctx, []*domain.Trade{
			{TradeID: "t2", AgentID: "agent-1", Symbol: "SOL", Side: domain.SideSell, ExecutedAtMs: 2000},
			{TradeID: "t1", AgentID: "agent-1", Symbol: "SOL", Side: domain.SideBuy, ExecutedAtMs: 3000},
		})
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)

		_, err = store.GetByID(ctx, "t2")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("by agent ordered", func(t *testing.T) {
		require.NoError(t, store.InsertBulk(ctx, []*domain.Trade{
			{TradeID: "t4", AgentID: "agent-1", Symbol: "SOL", Side: domain.SideSell, ExecutedAtMs: 4000},
			{TradeID: "t3", AgentID: "agent-1", Symbol: "SOL", Side: domain.SideBuy, ExecutedAtMs: 500},
			{TradeID: "t5", AgentID: "agent-2", Symbol: "ETH", Side: domain.SideBuy, ExecutedAtMs: 100},
		}))

		trades, err := store.GetByAgentID(ctx, "agent-1")
		require.NoError(t, err)
		require.Len(t, trades, 3)
		assert.Equal(t, "t3", trades[0].TradeID)
		assert.Equal(t, "t4", trades[2].TradeID)

		all, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 4)
	})
}
