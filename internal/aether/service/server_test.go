package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/apierror"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/pterodactyl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// seedEgg 插入一个 Egg 缓存条目
func seedEgg(t *testing.T, env *testEnv, eggID int64) {
	t.Helper()
	require.NoError(t, env.panelRepo.ReplaceEggs(context.Background(), []*model.PanelEgg{{
		EggID:       eggID,
		NestID:      1,
		Name:        "Paper",
		DockerImage: "ghcr.io/pterodactyl/yolks:java_17",
		Startup:     "java -jar server.jar",
		Enabled:     true,
		SyncedAt:    time.Now(),
	}}))
}

// seedAllocation 插入一个分配缓存条目
func seedAllocation(t *testing.T, env *testEnv, id int64, port int) {
	t.Helper()
	require.NoError(t, env.panelRepo.ReplaceAllocations(context.Background(), []*model.PanelAllocation{{
		AllocationID: id, NodeID: 1, IP: "203.0.113.5", Alias: "play.example.com", Port: port, SyncedAt: time.Now(),
	}}))
}

func createdServerPayload(remoteID int64) *pterodactyl.ServerPayload {
	return &pterodactyl.ServerPayload{
		Object: "server",
		Attributes: pterodactyl.ServerAttributes{
			ID:         pterodactyl.FlexID(remoteID),
			Identifier: "abcd1234",
			Allocation: 17,
		},
	}
}

func TestServerCreateLocalOnly(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := NewServerService(env.userRepo, env.serverRepo, env.panelRepo, env.mockAPI)
	ctx := context.Background()

	env.seedUser(t, "usr-s1", 0)
	env.mockAPI.On("IsConfigured", mock.Anything).Return(false)

	view, err := svc.Create(ctx, "usr-s1", &entity.CreateServerRequest{
		Name: "Local Server", EggID: 1, RAM: 2048, CPU: 100, Storage: 10240,
	})
	require.NoError(t, err)
	assert.Zero(t, view.PterodactylID)
	assert.Empty(t, view.PublicAddress)

	// 面板没配置时一个远端调用都不能发
	env.mockAPI.AssertNotCalled(t, "CreateServer", mock.Anything, mock.Anything)
	env.mockAPI.AssertNotCalled(t, "UserByEmail", mock.Anything, mock.Anything)
}

func TestServerCreateProvisionsRemote(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := NewServerService(env.userRepo, env.serverRepo, env.panelRepo, env.mockAPI)
	ctx := context.Background()

	owner := env.seedUser(t, "usr-s2", 0)
	seedEgg(t, env, 3)
	seedAllocation(t, env, 17, 25565)

	env.mockAPI.On("IsConfigured", mock.Anything).Return(true)
	env.mockAPI.On("UserByEmail", mock.Anything, owner.Email).Return(&pterodactyl.UserAttributes{ID: 9, Email: owner.Email}, nil)
	env.mockAPI.On("CreateServer", mock.Anything, mock.MatchedBy(func(req *pterodactyl.CreateServerRequest) bool {
		return req.User == 9 && req.Egg == 3 &&
			req.Limits.Memory == 2048 && req.Limits.Swap == 0 && req.Limits.IO == 500 &&
			req.FeatureLimits.Allocations == 1 && req.FeatureLimits.Databases == 0 &&
			req.Allocation != nil && req.Allocation.Default == 17
	})).Return(createdServerPayload(55), nil)
	// 创建响应里没有分配数据，触发一次补查详情
	env.mockAPI.On("ServerDetails", mock.Anything, int64(55)).Return(&pterodactyl.ServerPayload{
		Object: "server",
		Attributes: pterodactyl.ServerAttributes{
			ID:         55,
			Identifier: "abcd1234",
			Relationships: &pterodactyl.Relationships{
				Allocations: &pterodactyl.ResourceList{
					Object: "list",
					Data: []json.RawMessage{
						json.RawMessage(`{"object":"allocation","attributes":{"id":17,"ip":"203.0.113.5","ip_alias":"play.example.com","port":25565,"is_default":true}}`),
					},
				},
			},
		},
	}, nil).Once()

	view, err := svc.Create(ctx, "usr-s2", &entity.CreateServerRequest{
		Name: "Remote Server", EggID: 3, RAM: 2048, CPU: 100, Storage: 10240,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(55), view.PterodactylID)
	assert.Equal(t, "abcd1234", view.Identifier)
	assert.Equal(t, "play.example.com:25565", view.PublicAddress)

	// 面板侧用户 ID 已回填
	user, err := env.userRepo.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.PterodactylUserID)

	// 被占用的分配已从候选池移除
	_, err = env.panelRepo.PickAllocation(ctx)
	assert.Error(t, err)
}

func TestServerCreateRequiresPanelUser(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := NewServerService(env.userRepo, env.serverRepo, env.panelRepo, env.mockAPI)
	ctx := context.Background()

	owner := env.seedUser(t, "usr-s8", 0)
	seedEgg(t, env, 3)
	seedAllocation(t, env, 18, 25566)

	env.mockAPI.On("IsConfigured", mock.Anything).Return(true)
	// 面板上没有这个邮箱的账号，创建必须失败，由管理员先同步用户
	env.mockAPI.On("UserByEmail", mock.Anything, owner.Email).Return(nil, nil)

	_, err := svc.Create(ctx, owner.ID, &entity.CreateServerRequest{
		Name: "Orphan", EggID: 3, RAM: 2048, CPU: 100, Storage: 10240,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PanelUserMissing")

	// 没建远端实体，也没留本地记录
	env.mockAPI.AssertNotCalled(t, "CreateServer", mock.Anything, mock.Anything)
	env.mockAPI.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	list, err := env.serverRepo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestServerCreateCapacityLimits(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := NewServerService(env.userRepo, env.serverRepo, env.panelRepo, env.mockAPI)
	ctx := context.Background()

	env.seedUser(t, "usr-s3", 0)
	env.mockAPI.On("IsConfigured", mock.Anything).Return(true)

	t.Run("capacity exceeded names the resource and shortfall", func(t *testing.T) {
		// 配额 8192，要 16384
		_, err := svc.Create(ctx, "usr-s3", &entity.CreateServerRequest{
			Name: "Too Big", EggID: 1, RAM: 16384, CPU: 100, Storage: 10240,
		})
		assert.ErrorIs(t, err, apierror.ErrInsufficientResourceCapacity)
		assert.Contains(t, err.Error(), "ram")
		assert.Contains(t, err.Error(), "16384")
		assert.Contains(t, err.Error(), "8192")

		// 资源不够时面板一个请求都不应该发出去
		env.mockAPI.AssertNotCalled(t, "UserByEmail", mock.Anything, mock.Anything)
		env.mockAPI.AssertNotCalled(t, "CreateServer", mock.Anything, mock.Anything)
	})

	t.Run("slot limit exceeded", func(t *testing.T) {
		seedEgg(t, env, 1)
		for i := 0; i < 3; i++ {
			seedAllocation(t, env, int64(30+i), 25570+i)
			env.mockAPI.On("UserByEmail", mock.Anything, "usr-s3@example.com").
				Return(&pterodactyl.UserAttributes{ID: 6, Email: "usr-s3@example.com"}, nil).Maybe()
			env.mockAPI.On("CreateServer", mock.Anything, mock.Anything).
				Return(createdServerPayload(int64(60+i)), nil).Once()
			env.mockAPI.On("ServerDetails", mock.Anything, int64(60+i)).
				Return(nil, assert.AnError).Maybe()
			_, err := svc.Create(ctx, "usr-s3", &entity.CreateServerRequest{
				Name: "Filler", EggID: 1, RAM: 1024, CPU: 100, Storage: 5120,
			})
			require.NoError(t, err)
		}
		_, err := svc.Create(ctx, "usr-s3", &entity.CreateServerRequest{
			Name: "One Too Many", EggID: 1, RAM: 1024, CPU: 100, Storage: 5120,
		})
		assert.ErrorIs(t, err, apierror.ErrServerSlotLimitExceeded)
		env.mockAPI.AssertNumberOfCalls(t, "CreateServer", 3)
	})
}

func TestServerListAddressBackfill(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := NewServerService(env.userRepo, env.serverRepo, env.panelRepo, env.mockAPI)
	ctx := context.Background()

	owner := env.seedUser(t, "usr-s4", 0)
	withAddr := &model.Server{
		ID: "srv-a", UserID: owner.ID, Name: "Has Address", RAM: 1024, CPU: 100, Storage: 5120,
		PterodactylID: 70, PublicAddress: "mc.example.com:25565",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	missingAddr := &model.Server{
		ID: "srv-b", UserID: owner.ID, Name: "No Address", RAM: 1024, CPU: 100, Storage: 5120,
		PterodactylID: 71,
		CreatedAt:     time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, env.serverRepo.CreateWithCapacityCheck(ctx, withAddr, owner))
	require.NoError(t, env.serverRepo.CreateWithCapacityCheck(ctx, missingAddr, owner))

	env.mockAPI.On("IsConfigured", mock.Anything).Return(true)
	env.mockAPI.On("ServerDetails", mock.Anything, int64(71)).Return(&pterodactyl.ServerPayload{
		Object: "server",
		Attributes: pterodactyl.ServerAttributes{
			ID:         71,
			Identifier: "efgh5678",
			Relationships: &pterodactyl.Relationships{
				Allocations: &pterodactyl.ResourceList{
					Object: "list",
					Data: []json.RawMessage{
						json.RawMessage(`{"object":"allocation","attributes":{"id":21,"ip":"203.0.113.9","port":2022,"is_default":true}}`),
					},
				},
			},
		},
	}, nil).Once()

	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list.Servers, 2)
	assert.Equal(t, "mc.example.com:25565", list.Servers[0].PublicAddress)
	assert.Equal(t, "203.0.113.9:2022", list.Servers[1].PublicAddress)

	// 已有地址的服务器绝不触发远端查询
	env.mockAPI.AssertNotCalled(t, "ServerDetails", mock.Anything, int64(70))

	// 回填已落库，再拉列表一个远端调用都没有
	list, err = svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.9:2022", list.Servers[1].PublicAddress)
	env.mockAPI.AssertNumberOfCalls(t, "ServerDetails", 1)
}

func TestServerDelete(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := NewServerService(env.userRepo, env.serverRepo, env.panelRepo, env.mockAPI)
	ctx := context.Background()

	owner := env.seedUser(t, "usr-s5", 0)
	srv := &model.Server{
		ID: "srv-d", UserID: owner.ID, Name: "Doomed", RAM: 1024, CPU: 100, Storage: 5120,
		PterodactylID: 80, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, env.serverRepo.CreateWithCapacityCheck(ctx, srv, owner))

	env.mockAPI.On("IsConfigured", mock.Anything).Return(true)
	// 面板上已经没有这个实体了，本地删除照常进行
	env.mockAPI.On("DeleteServer", mock.Anything, int64(80)).Return(&pterodactyl.APIError{StatusCode: 404})

	require.NoError(t, svc.Delete(ctx, owner.ID, "srv-d"))

	_, err := env.serverRepo.GetByID(ctx, "srv-d")
	assert.Error(t, err)

	t.Run("foreign server reads as not found", func(t *testing.T) {
		other := env.seedUser(t, "usr-s6", 0)
		mine := &model.Server{
			ID: "srv-e", UserID: other.ID, Name: "Private", RAM: 1024, CPU: 100, Storage: 5120,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		require.NoError(t, env.serverRepo.CreateWithCapacityCheck(ctx, mine, other))

		err := svc.Delete(ctx, owner.ID, "srv-e")
		assert.ErrorIs(t, err, apierror.ErrNotFound)
	})
}

func TestServerResize(t *testing.T) {
	t.Parallel()

	env := setupTestEnv(t)
	svc := NewServerService(env.userRepo, env.serverRepo, env.panelRepo, env.mockAPI)
	ctx := context.Background()

	owner := env.seedUser(t, "usr-s7", 0)
	srv := &model.Server{
		ID: "srv-r", UserID: owner.ID, Name: "Resizable", RAM: 2048, CPU: 100, Storage: 10240,
		PterodactylID: 90, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, env.serverRepo.CreateWithCapacityCheck(ctx, srv, owner))

	t.Run("remote failure reverts local record", func(t *testing.T) {
		env.mockAPI.On("IsConfigured", mock.Anything).Return(true)
		env.mockAPI.On("UpdateBuild", mock.Anything, int64(90), mock.Anything).
			Return(nil, &pterodactyl.APIError{StatusCode: 502, Detail: "panel down"}).Once()

		_, err := svc.Resize(ctx, owner.ID, "srv-r", &entity.ResizeServerRequest{RAM: 4096, CPU: 200, Storage: 10240})
		assert.ErrorIs(t, err, apierror.ErrPanelAPIError)

		got, err := env.serverRepo.GetByID(ctx, "srv-r")
		require.NoError(t, err)
		assert.Equal(t, int64(2048), got.RAM)
	})

	t.Run("successful resize persists", func(t *testing.T) {
		env.mockAPI.On("UpdateBuild", mock.Anything, int64(90), mock.Anything).
			Return(createdServerPayload(90), nil).Once()

		view, err := svc.Resize(ctx, owner.ID, "srv-r", &entity.ResizeServerRequest{RAM: 4096, CPU: 200, Storage: 10240})
		require.NoError(t, err)
		assert.Equal(t, int64(4096), view.RAM)

		got, err := env.serverRepo.GetByID(ctx, "srv-r")
		require.NoError(t, err)
		assert.Equal(t, int64(4096), got.RAM)
	})

	t.Run("resize beyond quota", func(t *testing.T) {
		_, err := svc.Resize(ctx, owner.ID, "srv-r", &entity.ResizeServerRequest{RAM: 16384, CPU: 200, Storage: 10240})
		assert.ErrorIs(t, err, apierror.ErrInsufficientResourceCapacity)
	})
}
