package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelConfig(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	panelRepo := NewPanelRepository(repo.DB())
	ctx := context.Background()

	t.Run("empty store returns nil", func(t *testing.T) {
		cfg, err := panelRepo.GetConfig(ctx)
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("save and reload", func(t *testing.T) {
		require.NoError(t, panelRepo.SaveConfig(ctx, &model.PanelConfig{
			URL:          "https://panel.example.com",
			APIKeyCipher: "aabb:ccdd",
			ConnectedAt:  time.Now(),
			UpdatedAt:    time.Now(),
		}))

		cfg, err := panelRepo.GetConfig(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "https://panel.example.com", cfg.URL)
	})

	t.Run("save replaces the single row", func(t *testing.T) {
		require.NoError(t, panelRepo.SaveConfig(ctx, &model.PanelConfig{
			URL:          "https://other.example.com",
			APIKeyCipher: "eeff:0011",
			ConnectedAt:  time.Now(),
			UpdatedAt:    time.Now(),
		}))

		cfg, err := panelRepo.GetConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://other.example.com", cfg.URL)
	})

	t.Run("delete disconnects", func(t *testing.T) {
		require.NoError(t, panelRepo.DeleteConfig(ctx))
		cfg, err := panelRepo.GetConfig(ctx)
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})
}

func TestPanelAllocations(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	panelRepo := NewPanelRepository(repo.DB())
	ctx := context.Background()

	seed := []*model.PanelAllocation{
		{AllocationID: 10, NodeID: 1, IP: "10.0.0.1", Port: 25565, SyncedAt: time.Now()},
		{AllocationID: 11, NodeID: 1, IP: "10.0.0.1", Port: 25566, SyncedAt: time.Now()},
		{AllocationID: 12, NodeID: 2, IP: "10.0.0.2", Port: 25565, SyncedAt: time.Now()},
	}
	require.NoError(t, panelRepo.ReplaceAllocations(ctx, seed))

	t.Run("pick first synced when priorities are equal", func(t *testing.T) {
		pick, err := panelRepo.PickAllocation(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(10), pick.AllocationID)
	})

	t.Run("priority beats id order", func(t *testing.T) {
		require.NoError(t, panelRepo.SetAllocationPriority(ctx, 12, 5))

		pick, err := panelRepo.PickAllocation(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(12), pick.AllocationID)
	})

	t.Run("resync keeps priorities", func(t *testing.T) {
		require.NoError(t, panelRepo.ReplaceAllocations(ctx, []*model.PanelAllocation{
			{AllocationID: 12, NodeID: 2, IP: "10.0.0.2", Port: 25565, SyncedAt: time.Now()},
			{AllocationID: 13, NodeID: 2, IP: "10.0.0.2", Port: 25566, SyncedAt: time.Now()},
		}))

		pick, err := panelRepo.PickAllocation(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(12), pick.AllocationID)
		assert.Equal(t, 5, pick.Priority)
	})

	t.Run("remove consumed allocation", func(t *testing.T) {
		require.NoError(t, panelRepo.RemoveAllocation(ctx, 12))

		pick, err := panelRepo.PickAllocation(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(13), pick.AllocationID)
	})
}

func TestPanelAllocationSyncOrderTieBreak(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	panelRepo := NewPanelRepository(repo.DB())
	ctx := context.Background()

	// 面板先返回 ID 大的那条，平局时它仍然排在前面
	require.NoError(t, panelRepo.ReplaceAllocations(ctx, []*model.PanelAllocation{
		{AllocationID: 42, NodeID: 1, IP: "10.0.0.1", Port: 25570, SyncedAt: time.Now()},
		{AllocationID: 7, NodeID: 1, IP: "10.0.0.1", Port: 25571, SyncedAt: time.Now()},
	}))

	pick, err := panelRepo.PickAllocation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pick.AllocationID)

	list, err := panelRepo.ListAllocations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(42), list[0].AllocationID)
	assert.Equal(t, int64(7), list[1].AllocationID)
}

func TestPriceRepository(t *testing.T) {
	t.Parallel()

	repo := setupTestDB(t)
	priceRepo := NewPriceRepository(repo.DB())
	ctx := context.Background()

	t.Run("upsert inserts then overwrites", func(t *testing.T) {
		require.NoError(t, priceRepo.Upsert(ctx, &model.ResourcePrice{
			Resource: "ram", UnitsPerSet: 1024, CoinsPerSet: 50, UpdatedAt: time.Now(),
		}))
		require.NoError(t, priceRepo.Upsert(ctx, &model.ResourcePrice{
			Resource: "ram", UnitsPerSet: 1024, CoinsPerSet: 40, UpdatedAt: time.Now(),
		}))

		price, err := priceRepo.Get(ctx, "ram")
		require.NoError(t, err)
		assert.Equal(t, int64(40), price.CoinsPerSet)

		prices, err := priceRepo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, prices, 1)
	})
}
