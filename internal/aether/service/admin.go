package service

import (
	"context"
	"errors"
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/apierror"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/idgen"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/pterodactyl"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// AdminService 管理面操作
type AdminService struct {
	userRepo   repository.UserRepository
	serverRepo repository.ServerRepository
	panelRepo  repository.PanelRepository
	rewardRepo repository.RewardRepository
	client     pterodactyl.API
	idGen      *idgen.Generator
}

// NewAdminService 创建管理服务
func NewAdminService(
	userRepo repository.UserRepository,
	serverRepo repository.ServerRepository,
	panelRepo repository.PanelRepository,
	rewardRepo repository.RewardRepository,
	client pterodactyl.API,
) *AdminService {
	return &AdminService{
		userRepo:   userRepo,
		serverRepo: serverRepo,
		panelRepo:  panelRepo,
		rewardRepo: rewardRepo,
		client:     client,
		idGen:      idgen.New(),
	}
}

// Stats 总览统计
func (s *AdminService) Stats(ctx context.Context) (*entity.AdminStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	servers, err := s.serverRepo.Count(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	cfg, err := s.panelRepo.GetConfig(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	return &entity.AdminStats{
		Users:       users,
		Servers:     servers,
		PanelLinked: cfg != nil,
	}, nil
}

// Users 全部用户
func (s *AdminService) Users(ctx context.Context) ([]*entity.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		view, err := userModelToEntity(u)
		if err != nil {
			return nil, apierror.Wrap(apierror.ErrInternalError, err)
		}
		out = append(out, view)
	}
	return out, nil
}

// Servers 全部服务器
func (s *AdminService) Servers(ctx context.Context) ([]*entity.Server, error) {
	servers, err := s.serverRepo.List(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	out := make([]*entity.Server, 0, len(servers))
	for _, srv := range servers {
		view, err := serverModelToEntity(srv)
		if err != nil {
			return nil, apierror.Wrap(apierror.ErrInternalError, err)
		}
		out = append(out, view)
	}
	return out, nil
}

// DeleteServer 管理员删除任意服务器
func (s *AdminService) DeleteServer(ctx context.Context, serverID string) error {
	server, err := s.serverRepo.GetByID(ctx, serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.ErrNotFound
		}
		return apierror.Wrap(apierror.ErrInternalError, err)
	}
	return s.removeServer(ctx, server)
}

// DeleteUser 删除用户，名下服务器一起清掉
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	logger := zerolog.Ctx(ctx)

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.ErrNotFound
		}
		return apierror.Wrap(apierror.ErrInternalError, err)
	}

	servers, err := s.serverRepo.ListByUser(ctx, userID)
	if err != nil {
		return apierror.Wrap(apierror.ErrInternalError, err)
	}
	for _, server := range servers {
		if err := s.removeServer(ctx, server); err != nil {
			return err
		}
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return apierror.Wrap(apierror.ErrInternalError, err)
	}

	logger.Info().Str("user_id", userID).Int("servers", len(servers)).Msg("user deleted")
	return nil
}

// removeServer 面板实体尽力删，删不掉不阻塞本地删除
func (s *AdminService) removeServer(ctx context.Context, server *model.Server) error {
	logger := zerolog.Ctx(ctx)

	if server.PterodactylID != 0 && s.client.IsConfigured(ctx) {
		if err := s.client.DeleteServer(ctx, server.PterodactylID); err != nil {
			var apiErr *pterodactyl.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == 404 {
				logger.Info().Str("server_id", server.ID).Msg("remote server already gone")
			} else {
				logger.Error().Err(err).Str("server_id", server.ID).Msg("delete remote server failed, continuing with local delete")
			}
		}
	}

	if err := s.serverRepo.Delete(ctx, server.ID); err != nil {
		return apierror.Wrap(apierror.ErrInternalError, err)
	}

	logger.Info().Str("server_id", server.ID).Msg("server deleted")
	return nil
}

// SuspendServer 挂起服务器
func (s *AdminService) SuspendServer(ctx context.Context, serverID string) error {
	return s.setSuspended(ctx, serverID, true)
}

// UnsuspendServer 解除挂起
func (s *AdminService) UnsuspendServer(ctx context.Context, serverID string) error {
	return s.setSuspended(ctx, serverID, false)
}

func (s *AdminService) setSuspended(ctx context.Context, serverID string, suspended bool) error {
	server, err := s.serverRepo.GetByID(ctx, serverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.ErrNotFound
		}
		return apierror.Wrap(apierror.ErrInternalError, err)
	}
	if server.Suspended == suspended {
		return nil
	}

	// 先改面板再落库，面板失败本地状态不动
	if server.PterodactylID != 0 && s.client.IsConfigured(ctx) {
		if suspended {
			err = s.client.SuspendServer(ctx, server.PterodactylID)
		} else {
			err = s.client.UnsuspendServer(ctx, server.PterodactylID)
		}
		if err != nil {
			return panelError(err)
		}
	}

	server.Suspended = suspended
	server.UpdatedAt = time.Now()
	if err := s.serverRepo.Update(ctx, server); err != nil {
		return apierror.Wrap(apierror.ErrInternalError, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("server_id", serverID).
		Bool("suspended", suspended).
		Msg("server suspension changed")
	return nil
}

// GrantCoins 给用户加金币，留一条来源为 admin 的流水
func (s *AdminService) GrantCoins(ctx context.Context, req *entity.GrantCoinsRequest) error {
	logger := zerolog.Ctx(ctx)

	if err := s.userRepo.AddCoins(ctx, req.UserID, req.Coins); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.ErrNotFound
		}
		return apierror.Wrap(apierror.ErrInternalError, err)
	}

	id, err := s.idGen.GenerateRewardID()
	if err != nil {
		return apierror.Wrap(apierror.ErrInternalError, err)
	}
	if err := s.rewardRepo.Create(ctx, &model.RewardClaim{
		ID:        id,
		UserID:    req.UserID,
		Source:    "admin",
		Coins:     req.Coins,
		CreatedAt: time.Now(),
	}); err != nil {
		logger.Error().Err(err).Str("user_id", req.UserID).Msg("write admin grant record failed")
	}

	logger.Info().Str("user_id", req.UserID).Int64("coins", req.Coins).Msg("coins granted")
	return nil
}
