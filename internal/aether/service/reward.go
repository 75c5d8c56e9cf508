package service

import (
	"context"
	"errors"
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/config"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/apierror"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/idgen"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// RewardService 金币奖励发放
type RewardService struct {
	rewardRepo repository.RewardRepository
	userRepo   repository.UserRepository
	cfg        config.Rewards
	idGen      *idgen.Generator
}

// NewRewardService 创建奖励服务
func NewRewardService(rewardRepo repository.RewardRepository, userRepo repository.UserRepository, cfg config.Rewards) *RewardService {
	return &RewardService{
		rewardRepo: rewardRepo,
		userRepo:   userRepo,
		cfg:        cfg,
		idGen:      idgen.New(),
	}
}

// coinsFor 某个来源的单次发放量
func (s *RewardService) coinsFor(source string) int64 {
	switch source {
	case entity.RewardSourceDaily:
		return s.cfg.DailyCoins
	case entity.RewardSourceLinkvertise:
		return s.cfg.LinkvertiseCoins
	}
	return 0
}

// cooldown 领取冷却时长
func (s *RewardService) cooldown() time.Duration {
	return time.Duration(s.cfg.CooldownHours) * time.Hour
}

// Status 各个来源的可领取状态
func (s *RewardService) Status(ctx context.Context, userID string) ([]*entity.RewardStatus, error) {
	sources := []string{entity.RewardSourceDaily, entity.RewardSourceLinkvertise}
	out := make([]*entity.RewardStatus, 0, len(sources))
	for _, source := range sources {
		latest, err := s.rewardRepo.Latest(ctx, userID, source)
		if err != nil {
			return nil, apierror.Wrap(apierror.ErrInternalError, err)
		}
		status := &entity.RewardStatus{
			Source:    source,
			Coins:     s.coinsFor(source),
			Claimable: true,
		}
		if latest != nil {
			status.LastClaimAt = latest.CreatedAt.Format(time.RFC3339)
			next := latest.CreatedAt.Add(s.cooldown())
			if time.Now().Before(next) {
				status.Claimable = false
				status.NextClaimAt = next.Format(time.RFC3339)
			}
		}
		out = append(out, status)
	}
	return out, nil
}

// Claim 领取一次奖励
// 冷却没过时拒绝，发放和流水都落库
func (s *RewardService) Claim(ctx context.Context, userID string, req *entity.ClaimRewardRequest) (*entity.ClaimRewardResult, error) {
	logger := zerolog.Ctx(ctx)

	latest, err := s.rewardRepo.Latest(ctx, userID, req.Source)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	if latest != nil {
		if next := latest.CreatedAt.Add(s.cooldown()); time.Now().Before(next) {
			return nil, apierror.NewErrorWithStatus(
				"RewardOnCooldown",
				"reward not claimable yet, try again at "+next.Format(time.RFC3339),
				429,
			)
		}
	}

	coins := s.coinsFor(req.Source)
	if err := s.userRepo.AddCoins(ctx, userID, coins); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrNotFound
		}
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	id, err := s.idGen.GenerateRewardID()
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	if err := s.rewardRepo.Create(ctx, &model.RewardClaim{
		ID:        id,
		UserID:    userID,
		Source:    req.Source,
		Coins:     coins,
		CreatedAt: time.Now(),
	}); err != nil {
		// 流水写失败会让用户提前再领一次，比扣回金币的伤害小，记日志即可
		logger.Error().Err(err).Str("user_id", userID).Str("source", req.Source).Msg("write reward claim failed")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	logger.Info().Str("user_id", userID).Str("source", req.Source).Int64("coins", coins).Msg("reward claimed")
	return &entity.ClaimRewardResult{
		Source:    req.Source,
		Coins:     coins,
		CoinsLeft: user.Coins,
	}, nil
}
