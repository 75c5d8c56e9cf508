package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/apierror"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/pterodactyl"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/secretbox"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// PanelConfigStore 把数据库里的面板配置适配成凭据解析器的来源
// 密钥在库里是密文，这里解密后交给解析器
type PanelConfigStore struct {
	panelRepo repository.PanelRepository
	secret    string
}

// NewPanelConfigStore 创建配置来源适配器
func NewPanelConfigStore(panelRepo repository.PanelRepository, secret string) *PanelConfigStore {
	return &PanelConfigStore{panelRepo: panelRepo, secret: secret}
}

// PanelConfig 实现 pterodactyl.ConfigStore
func (s *PanelConfigStore) PanelConfig(ctx context.Context) (*pterodactyl.StoredConfig, error) {
	cfg, err := s.panelRepo.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, nil
	}
	key, err := secretbox.Parse(cfg.APIKeyCipher).Reveal(s.secret)
	if err != nil {
		return nil, err
	}
	return &pterodactyl.StoredConfig{URL: cfg.URL, APIKey: key}, nil
}

// PanelService 面板连接管理与数据同步
type PanelService struct {
	panelRepo repository.PanelRepository
	userRepo  repository.UserRepository
	client    pterodactyl.API
	resolver  *pterodactyl.Resolver
	secret    string
}

// NewPanelService 创建面板服务
func NewPanelService(
	panelRepo repository.PanelRepository,
	userRepo repository.UserRepository,
	client pterodactyl.API,
	resolver *pterodactyl.Resolver,
	secret string,
) *PanelService {
	return &PanelService{
		panelRepo: panelRepo,
		userRepo:  userRepo,
		client:    client,
		resolver:  resolver,
		secret:    secret,
	}
}

// Status 面板连接状态
func (s *PanelService) Status(ctx context.Context) (*entity.PanelStatus, error) {
	cfg, err := s.panelRepo.GetConfig(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	if cfg != nil {
		return &entity.PanelStatus{Connected: true, URL: cfg.URL, Source: "database"}, nil
	}
	if s.client.IsConfigured(ctx) {
		return &entity.PanelStatus{Connected: true, Source: "environment"}, nil
	}
	return &entity.PanelStatus{Connected: false}, nil
}

// Connect 连接面板
// 已连接时拒绝覆盖，必须先断开，防止误操作换掉生产面板
// 凭据先探活再落库，密钥加密存储
func (s *PanelService) Connect(ctx context.Context, req *entity.ConnectPanelRequest) (*entity.PanelStatus, error) {
	logger := zerolog.Ctx(ctx)

	existing, err := s.panelRepo.GetConfig(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	if existing != nil {
		return nil, apierror.ErrPanelAlreadyConnected
	}

	if err := s.client.TestConnection(ctx, req.URL, req.APIKey); err != nil {
		return nil, apierror.NewErrorWithStatus("PanelConnectionFailed", err.Error(), 400)
	}

	cipher, err := secretbox.Encrypt(req.APIKey, s.secret)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	now := time.Now()
	if err := s.panelRepo.SaveConfig(ctx, &model.PanelConfig{
		URL:          req.URL,
		APIKeyCipher: cipher,
		ConnectedAt:  now,
		UpdatedAt:    now,
	}); err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	// 新凭据立刻生效，不等缓存过期
	s.resolver.Invalidate()

	logger.Info().Str("url", req.URL).Msg("panel connected")
	return &entity.PanelStatus{Connected: true, URL: req.URL, Source: "database"}, nil
}

// Test 用给定凭据探活面板，不落库
func (s *PanelService) Test(ctx context.Context, req *entity.ConnectPanelRequest) error {
	if err := s.client.TestConnection(ctx, req.URL, req.APIKey); err != nil {
		return apierror.NewErrorWithStatus("PanelConnectionFailed", err.Error(), 400)
	}
	return nil
}

// Disconnect 断开面板
func (s *PanelService) Disconnect(ctx context.Context) error {
	if err := s.panelRepo.DeleteConfig(ctx); err != nil {
		return apierror.Wrap(apierror.ErrInternalError, err)
	}
	s.resolver.Invalidate()
	zerolog.Ctx(ctx).Info().Msg("panel disconnected")
	return nil
}

// SyncEggs 从面板全量同步 Egg 模板
func (s *PanelService) SyncEggs(ctx context.Context) (*entity.SyncResult, error) {
	eggs, err := s.client.AllEggs(ctx)
	if err != nil {
		return nil, panelError(err)
	}

	now := time.Now()
	rows := make([]*model.PanelEgg, 0, len(eggs))
	for _, egg := range eggs {
		variables, err := json.Marshal(egg.Variables)
		if err != nil {
			return nil, apierror.Wrap(apierror.ErrInternalError, err)
		}
		rows = append(rows, &model.PanelEgg{
			EggID:         egg.ID.Int64(),
			NestID:        egg.NestID,
			NestName:      egg.NestName,
			Name:          egg.Name,
			Description:   egg.Description,
			DockerImage:   egg.DockerImage,
			Startup:       egg.Startup,
			VariablesJSON: string(variables),
			Enabled:       true,
			SyncedAt:      now,
		})
	}
	if err := s.panelRepo.ReplaceEggs(ctx, rows); err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	zerolog.Ctx(ctx).Info().Int("count", len(rows)).Msg("eggs synced")
	return &entity.SyncResult{Synced: len(rows)}, nil
}

// SyncAllocations 从面板全量同步可用分配
func (s *PanelService) SyncAllocations(ctx context.Context) (*entity.SyncResult, error) {
	allocations, err := s.client.AllAllocations(ctx)
	if err != nil {
		return nil, panelError(err)
	}

	now := time.Now()
	rows := make([]*model.PanelAllocation, 0, len(allocations))
	for _, a := range allocations {
		rows = append(rows, &model.PanelAllocation{
			AllocationID: a.ID.Int64(),
			NodeID:       a.NodeID,
			NodeName:     a.NodeName,
			IP:           a.IP,
			Alias:        a.IPAlias,
			Port:         a.Port,
			SyncedAt:     now,
		})
	}
	if err := s.panelRepo.ReplaceAllocations(ctx, rows); err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	zerolog.Ctx(ctx).Info().Int("count", len(rows)).Msg("allocations synced")
	return &entity.SyncResult{Synced: len(rows)}, nil
}

// SyncUsers 把本地用户镜像到面板
// 按邮箱对齐，面板上已有的回填 ID，没有的创建新账号
// 面板密码随机生成且不保存，用户通过面板的找回密码流程自行设置
func (s *PanelService) SyncUsers(ctx context.Context) (*entity.SyncResult, error) {
	logger := zerolog.Ctx(ctx)

	panelUsers, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, panelError(err)
	}
	byEmail := make(map[string]int64, len(panelUsers))
	for _, u := range panelUsers {
		byEmail[u.Email] = u.ID.Int64()
	}

	locals, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	synced := 0
	for _, u := range locals {
		if u.PterodactylUserID != 0 {
			continue
		}
		remoteID, ok := byEmail[u.Email]
		if !ok {
			password := make([]byte, 16)
			if _, err := rand.Read(password); err != nil {
				return nil, apierror.Wrap(apierror.ErrInternalError, err)
			}
			remote, err := s.client.CreateUser(ctx, &pterodactyl.CreateUserRequest{
				Email:     u.Email,
				Username:  u.Username,
				FirstName: u.Username,
				LastName:  "User",
				Password:  hex.EncodeToString(password),
			})
			if err != nil {
				// 单个账号建不出来不中断整场同步
				logger.Error().Err(err).Str("email", u.Email).Msg("create panel user failed")
				continue
			}
			remoteID = remote.ID.Int64()
		}
		if err := s.userRepo.SetPterodactylUserID(ctx, u.ID, remoteID); err != nil {
			return nil, apierror.Wrap(apierror.ErrInternalError, err)
		}
		synced++
	}

	logger.Info().Int("count", synced).Msg("users synced")
	return &entity.SyncResult{Synced: synced}, nil
}

// Eggs 本地缓存的 Egg 模板
func (s *PanelService) Eggs(ctx context.Context) ([]*entity.EggTemplate, error) {
	eggs, err := s.panelRepo.ListEggs(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	out := make([]*entity.EggTemplate, 0, len(eggs))
	for _, egg := range eggs {
		out = append(out, &entity.EggTemplate{
			EggID:       egg.EggID,
			NestID:      egg.NestID,
			NestName:    egg.NestName,
			Name:        egg.Name,
			Description: egg.Description,
			DockerImage: egg.DockerImage,
		})
	}
	return out, nil
}

// Allocations 本地缓存的分配，按挑选顺序排列
func (s *PanelService) Allocations(ctx context.Context) ([]*entity.PanelAllocation, error) {
	allocations, err := s.panelRepo.ListAllocations(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	out := make([]*entity.PanelAllocation, 0, len(allocations))
	for _, a := range allocations {
		e, err := allocationModelToEntity(a)
		if err != nil {
			return nil, apierror.Wrap(apierror.ErrInternalError, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// SetAllocationPriority 调整某条分配的挑选优先级
func (s *PanelService) SetAllocationPriority(ctx context.Context, req *entity.AllocationPriorityRequest) error {
	err := s.panelRepo.SetAllocationPriority(ctx, req.AllocationID, req.Priority)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.ErrNotFound
		}
		return apierror.Wrap(apierror.ErrInternalError, err)
	}
	return nil
}

// panelError 把面板客户端的错误翻译成对外错误
func panelError(err error) error {
	if errors.Is(err, pterodactyl.ErrNotConfigured) {
		return apierror.ErrPanelNotConfigured
	}
	return apierror.Wrap(apierror.ErrPanelAPIError, err)
}
