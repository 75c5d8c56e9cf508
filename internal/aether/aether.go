// Package aether 提供仪表盘服务的主入口和初始化逻辑
package aether

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/api"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/config"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/service"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/pterodactyl"
	"github.com/jimmicro/grace"
	"github.com/rs/zerolog"
)

type Server struct {
	cfg  *config.Config
	repo *repository.Repository
	api  *api.API
}

func New(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	// 1. 打开数据库，建表
	repo, err := repository.New(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Info().Str("path", cfg.DatabasePath()).Msg("database ready")

	userRepo := repository.NewUserRepository(repo.DB())
	serverRepo := repository.NewServerRepository(repo.DB())
	purchaseRepo := repository.NewPurchaseRepository(repo.DB())
	priceRepo := repository.NewPriceRepository(repo.DB())
	panelRepo := repository.NewPanelRepository(repo.DB())
	rewardRepo := repository.NewRewardRepository(repo.DB())

	// 2. 面板凭据解析器和客户端
	// 凭据优先取数据库配置，回退到环境变量
	configStore := service.NewPanelConfigStore(panelRepo, cfg.Secret)
	resolver := pterodactyl.NewResolver(configStore, cfg.PterodactylURL, cfg.PterodactylKey)
	client := pterodactyl.NewClient(resolver)

	// 3. 业务服务
	authService := service.NewAuthService(userRepo, cfg.Secret, cfg.Defaults)
	ledgerService := service.NewLedgerService(userRepo, serverRepo, purchaseRepo, priceRepo)
	serverService := service.NewServerService(userRepo, serverRepo, panelRepo, client)
	panelService := service.NewPanelService(panelRepo, userRepo, client, resolver, cfg.Secret)
	rewardService := service.NewRewardService(rewardRepo, userRepo, cfg.Rewards)
	adminService := service.NewAdminService(userRepo, serverRepo, panelRepo, rewardRepo, client)

	// 4. API
	apiInstance, err := api.New(
		cfg.Address,
		authService,
		ledgerService,
		serverService,
		panelService,
		rewardService,
		adminService,
	)
	if err != nil {
		return nil, err
	}

	server := &Server{
		cfg:  cfg,
		repo: repo,
		api:  apiInstance,
	}
	return server, nil
}

func (s *Server) Run(ctx context.Context) error {
	// 使用 grace.Shepherd 管理服务生命周期
	services := []grace.Grace{
		s.api,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(ctx)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.api.Shutdown(ctx); err != nil {
		return err
	}
	return s.repo.Close()
}

// Name 实现 grace.Grace 接口
func (s *Server) Name() string {
	return "Aether Dashboard"
}

// zerologLogger 实现 grace.Logger 接口
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}
