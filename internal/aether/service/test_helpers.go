package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/config"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/pterodactyl"
	"github.com/stretchr/testify/require"
)

// testEnv 测试用的服务环境：真实 SQLite 仓库 + mock 面板客户端
type testEnv struct {
	repo         *repository.Repository
	userRepo     repository.UserRepository
	serverRepo   repository.ServerRepository
	purchaseRepo repository.PurchaseRepository
	priceRepo    repository.PriceRepository
	panelRepo    repository.PanelRepository
	rewardRepo   repository.RewardRepository
	mockAPI      *pterodactyl.MockAPI
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := repository.New(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = repo.Close()
		_ = os.RemoveAll(tmpDir)
	})

	db := repo.DB()
	return &testEnv{
		repo:         repo,
		userRepo:     repository.NewUserRepository(db),
		serverRepo:   repository.NewServerRepository(db),
		purchaseRepo: repository.NewPurchaseRepository(db),
		priceRepo:    repository.NewPriceRepository(db),
		panelRepo:    repository.NewPanelRepository(db),
		rewardRepo:   repository.NewRewardRepository(db),
		mockAPI:      new(pterodactyl.MockAPI),
	}
}

// seedUser 插入一个测试用户
func (env *testEnv) seedUser(t *testing.T, id string, coins int64) *model.User {
	t.Helper()
	user := &model.User{
		ID:           id,
		Email:        id + "@example.com",
		Username:     id,
		PasswordHash: "$2a$10$fake",
		Coins:        coins,
		TotalRAM:     8192,
		TotalCPU:     400,
		TotalStorage: 40960,
		TotalSlots:   3,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, env.userRepo.Create(context.Background(), user))
	return user
}

// testDefaults 测试用的初始配额
func testDefaults() config.Defaults {
	return config.Defaults{Coins: 100, RAM: 4096, CPU: 200, Storage: 20480, Slots: 2}
}

// testRewards 测试用的奖励配置
func testRewards() config.Rewards {
	return config.Rewards{DailyCoins: 25, LinkvertiseCoins: 10, CooldownHours: 24}
}
