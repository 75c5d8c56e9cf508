package service

import (
	"context"
	"testing"
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdminService(env *testEnv) *AdminService {
	return NewAdminService(env.userRepo, env.serverRepo, env.panelRepo, env.rewardRepo, env.mockAPI)
}

func TestAdminStats(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := newAdminService(env)
	ctx := context.Background()

	env.seedUser(t, "usr-a1", 0)
	env.seedUser(t, "usr-a2", 0)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(0), stats.Servers)
	assert.False(t, stats.PanelLinked)
}

func TestAdminGrantCoins(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := newAdminService(env)
	ctx := context.Background()

	owner := env.seedUser(t, "usr-a3", 10)

	t.Run("adds coins and records a grant", func(t *testing.T) {
		require.NoError(t, svc.GrantCoins(ctx, &entity.GrantCoinsRequest{UserID: owner.ID, Coins: 40}))

		user, err := env.userRepo.GetByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), user.Coins)

		claims, err := env.rewardRepo.ListByUser(ctx, owner.ID, 10)
		require.NoError(t, err)
		require.Len(t, claims, 1)
		assert.Equal(t, "admin", claims[0].Source)
		assert.Equal(t, int64(40), claims[0].Coins)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.GrantCoins(ctx, &entity.GrantCoinsRequest{UserID: "usr-404", Coins: 5})
		assert.ErrorIs(t, err, apierror.ErrNotFound)
	})
}

func TestAdminDeleteUser(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := newAdminService(env)
	ctx := context.Background()

	owner := env.seedUser(t, "usr-a5", 0)
	server := &model.Server{
		ID: "srv-del", UserID: owner.ID, Name: "Doomed", RAM: 1024, CPU: 100, Storage: 5120,
		PterodactylID: 77,
		CreatedAt:     time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, env.serverRepo.CreateWithCapacityCheck(ctx, server, owner))

	env.mockAPI.On("IsConfigured", mock.Anything).Return(true)
	// 远端删失败不阻塞本地清理
	env.mockAPI.On("DeleteServer", mock.Anything, int64(77)).Return(assert.AnError).Once()

	require.NoError(t, svc.DeleteUser(ctx, owner.ID))

	_, err := env.userRepo.GetByID(ctx, owner.ID)
	assert.Error(t, err)
	list, err := env.serverRepo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, svc.DeleteUser(ctx, "usr-404"), apierror.ErrNotFound)
}

func TestAdminDeleteServer(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := newAdminService(env)
	ctx := context.Background()

	owner := env.seedUser(t, "usr-a6", 0)
	server := &model.Server{
		ID: "srv-adm", UserID: owner.ID, Name: "Admin Target", RAM: 1024, CPU: 100, Storage: 5120,
		PterodactylID: 78,
		CreatedAt:     time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, env.serverRepo.CreateWithCapacityCheck(ctx, server, owner))

	env.mockAPI.On("IsConfigured", mock.Anything).Return(true)
	env.mockAPI.On("DeleteServer", mock.Anything, int64(78)).Return(nil).Once()

	require.NoError(t, svc.DeleteServer(ctx, server.ID))

	_, err := env.serverRepo.GetByID(ctx, server.ID)
	assert.Error(t, err)

	assert.ErrorIs(t, svc.DeleteServer(ctx, "srv-404"), apierror.ErrNotFound)
}

func TestAdminSuspendServer(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := newAdminService(env)
	ctx := context.Background()

	owner := env.seedUser(t, "usr-a4", 0)
	server := &model.Server{
		ID: "srv-sus", UserID: owner.ID, Name: "Suspendable", RAM: 1024, CPU: 100, Storage: 5120,
		PterodactylID: 88,
		CreatedAt:     time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, env.serverRepo.CreateWithCapacityCheck(ctx, server, owner))

	t.Run("suspend hits the panel then marks locally", func(t *testing.T) {
		env.mockAPI.On("IsConfigured", mock.Anything).Return(true)
		env.mockAPI.On("SuspendServer", mock.Anything, int64(88)).Return(nil).Once()

		require.NoError(t, svc.SuspendServer(ctx, server.ID))

		got, err := env.serverRepo.GetByID(ctx, server.ID)
		require.NoError(t, err)
		assert.True(t, got.Suspended)
	})

	t.Run("suspending twice is a no-op", func(t *testing.T) {
		require.NoError(t, svc.SuspendServer(ctx, server.ID))
		env.mockAPI.AssertNumberOfCalls(t, "SuspendServer", 1)
	})

	t.Run("panel failure keeps local state", func(t *testing.T) {
		env.mockAPI.On("UnsuspendServer", mock.Anything, int64(88)).Return(assert.AnError).Once()

		err := svc.UnsuspendServer(ctx, server.ID)
		require.Error(t, err)

		got, err := env.serverRepo.GetByID(ctx, server.ID)
		require.NoError(t, err)
		assert.True(t, got.Suspended)
	})

	t.Run("unsuspend clears the flag", func(t *testing.T) {
		env.mockAPI.On("UnsuspendServer", mock.Anything, int64(88)).Return(nil).Once()

		require.NoError(t, svc.UnsuspendServer(ctx, server.ID))

		got, err := env.serverRepo.GetByID(ctx, server.ID)
		require.NoError(t, err)
		assert.False(t, got.Suspended)
	})

	t.Run("unknown server", func(t *testing.T) {
		err := svc.SuspendServer(ctx, "srv-404")
		assert.ErrorIs(t, err, apierror.ErrNotFound)
	})
}
