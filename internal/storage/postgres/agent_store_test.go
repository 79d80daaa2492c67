package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/storage"
)

func TestAgentStore_Integration(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAgentStore(pool)
	ctx := context.Background()

	agent := &domain.Agent{
		AgentID:       "agent-1",
		Name:          "Base DCA",
		Strategy:      domain.StrategyDCA,
		Chain:         domain.ChainBase,
		WalletAddress: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		FundingTarget: "0.25",
		Status:        domain.AgentStatusAwaitingFunds,
		CreatedAtMs:   1000,
		UpdatedAtMs:   1000,
	}

	t.Run("insert and get", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, agent))

		got, err := store.GetByID(ctx, "agent-1")
		require.NoError(t, err)
		assert.Equal(t, agent, got)
	})

	t.Run("duplicate", func(t *testing.T) {
		err := store.Insert(ctx, agent)
		assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, store.UpdateStatus(ctx, "agent-1", domain.AgentStatusActive, 2000))

		got, err := store.GetByID(ctx, "agent-1")
		require.NoError(t, err)
		assert.Equal(t, domain.AgentStatusActive, got.Status)
		assert.Equal(t, int64(2000), got.UpdatedAtMs)

		err = store.UpdateStatus(ctx, "missing", domain.AgentStatusActive, 1)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		second := *agent
		second.AgentID = "agent-0"
		second.CreatedAtMs = 500
		require.NoError(t, store.Insert(ctx, &second))

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "agent-0", list[0].AgentID)
		assert.Equal(t, "agent-1", list[1].AgentID)
	})
}
