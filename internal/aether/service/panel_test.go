package service

import (
	"context"
	"testing"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/apierror"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/pterodactyl"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/secretbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "panel-test-secret"

func newPanelService(env *testEnv) (*PanelService, *pterodactyl.Resolver) {
	store := NewPanelConfigStore(env.panelRepo, testSecret)
	resolver := pterodactyl.NewResolver(store, "", "")
	return NewPanelService(env.panelRepo, env.userRepo, env.mockAPI, resolver, testSecret), resolver
}

func TestPanelConnect(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc, resolver := newPanelService(env)
	ctx := context.Background()

	req := &entity.ConnectPanelRequest{URL: "https://panel.example.com", APIKey: "ptla_secret"}

	t.Run("connect probes then stores encrypted key", func(t *testing.T) {
		env.mockAPI.On("TestConnection", mock.Anything, req.URL, req.APIKey).Return(nil).Once()

		status, err := svc.Connect(ctx, req)
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, "database", status.Source)

		// 落库的是密文，不是明文
		cfg, err := env.panelRepo.GetConfig(ctx)
		require.NoError(t, err)
		assert.NotContains(t, cfg.APIKeyCipher, "ptla_secret")
		assert.Equal(t, secretbox.KindEncrypted, secretbox.Parse(cfg.APIKeyCipher).Kind)

		// 凭据解析器能从库里还原出明文
		creds, err := resolver.Credentials(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ptla_secret", creds.APIKey)
	})

	t.Run("reconnect while connected is rejected", func(t *testing.T) {
		_, err := svc.Connect(ctx, req)
		assert.ErrorIs(t, err, apierror.ErrPanelAlreadyConnected)
	})

	t.Run("disconnect clears config and cache", func(t *testing.T) {
		require.NoError(t, svc.Disconnect(ctx))

		env.mockAPI.On("IsConfigured", mock.Anything).Return(false).Once()
		status, err := svc.Status(ctx)
		require.NoError(t, err)
		assert.False(t, status.Connected)

		_, err = resolver.Credentials(ctx)
		assert.ErrorIs(t, err, pterodactyl.ErrNotConfigured)
	})

	t.Run("failed probe stores nothing", func(t *testing.T) {
		env.mockAPI.On("TestConnection", mock.Anything, "https://bad.example.com", "bad").
			Return(assert.AnError).Once()

		_, err := svc.Connect(ctx, &entity.ConnectPanelRequest{URL: "https://bad.example.com", APIKey: "bad"})
		require.Error(t, err)

		cfg, err := env.panelRepo.GetConfig(ctx)
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})
}

func TestPanelSync(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc, _ := newPanelService(env)
	ctx := context.Background()

	t.Run("sync eggs caches templates with variables", func(t *testing.T) {
		env.mockAPI.On("AllEggs", mock.Anything).Return([]pterodactyl.Egg{{
			EggAttributes: pterodactyl.EggAttributes{
				ID: 3, Name: "Paper", DockerImage: "yolks:java_17", Startup: "java -jar server.jar",
			},
			NestID:   1,
			NestName: "Minecraft",
			Variables: []pterodactyl.EggVariable{
				{Name: "Server Jar", EnvVariable: "SERVER_JARFILE", DefaultValue: "server.jar"},
			},
		}}, nil).Once()

		result, err := svc.SyncEggs(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Synced)

		egg, err := env.panelRepo.GetEgg(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Minecraft", egg.NestName)
		assert.Contains(t, egg.VariablesJSON, "SERVER_JARFILE")
	})

	t.Run("sync allocations caches candidates", func(t *testing.T) {
		env.mockAPI.On("AllAllocations", mock.Anything).Return([]pterodactyl.NodeAllocation{
			{AllocationAttributes: pterodactyl.AllocationAttributes{ID: 21, IP: "203.0.113.9", Port: 25565}, NodeID: 1, NodeName: "node-1"},
			{AllocationAttributes: pterodactyl.AllocationAttributes{ID: 22, IP: "203.0.113.9", Port: 25566}, NodeID: 1, NodeName: "node-1"},
		}, nil).Once()

		result, err := svc.SyncAllocations(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Synced)

		pick, err := env.panelRepo.PickAllocation(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(21), pick.AllocationID)
	})

	t.Run("sync users links by email", func(t *testing.T) {
		env.seedUser(t, "usr-p1", 0)
		env.mockAPI.On("ListUsers", mock.Anything).Return([]pterodactyl.UserAttributes{
			{ID: 42, Email: "usr-p1@example.com"},
			{ID: 43, Email: "stranger@example.com"},
		}, nil).Once()

		result, err := svc.SyncUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Synced)

		user, err := env.userRepo.GetByID(ctx, "usr-p1")
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.PterodactylUserID)
	})

	t.Run("sync users creates missing panel accounts", func(t *testing.T) {
		env.seedUser(t, "usr-p2", 0)
		env.mockAPI.On("ListUsers", mock.Anything).Return([]pterodactyl.UserAttributes{
			{ID: 42, Email: "usr-p1@example.com"},
		}, nil).Once()
		env.mockAPI.On("CreateUser", mock.Anything, mock.MatchedBy(func(req *pterodactyl.CreateUserRequest) bool {
			return req.Email == "usr-p2@example.com" && req.Username == "usr-p2" && req.Password != ""
		})).Return(&pterodactyl.UserAttributes{ID: 44, Email: "usr-p2@example.com"}, nil).Once()

		result, err := svc.SyncUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Synced)

		user, err := env.userRepo.GetByID(ctx, "usr-p2")
		require.NoError(t, err)
		assert.Equal(t, int64(44), user.PterodactylUserID)
	})

	t.Run("failed account creation skips the user", func(t *testing.T) {
		env.seedUser(t, "usr-p3", 0)
		env.mockAPI.On("ListUsers", mock.Anything).Return([]pterodactyl.UserAttributes{
			{ID: 42, Email: "usr-p1@example.com"},
		}, nil).Once()
		env.mockAPI.On("CreateUser", mock.Anything, mock.MatchedBy(func(req *pterodactyl.CreateUserRequest) bool {
			return req.Email == "usr-p3@example.com"
		})).Return(nil, assert.AnError).Once()

		result, err := svc.SyncUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Synced)

		user, err := env.userRepo.GetByID(ctx, "usr-p3")
		require.NoError(t, err)
		assert.Zero(t, user.PterodactylUserID)
	})

	t.Run("unconfigured panel maps to service unavailable", func(t *testing.T) {
		env.mockAPI.On("AllEggs", mock.Anything).Return(nil, pterodactyl.ErrNotConfigured).Once()

		_, err := svc.SyncEggs(ctx)
		assert.ErrorIs(t, err, apierror.ErrPanelNotConfigured)
	})
}
