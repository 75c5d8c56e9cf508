package api

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/ginx"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RewardServiceInterface 奖励服务接口
type RewardServiceInterface interface {
	Status(ctx context.Context, userID string) ([]*entity.RewardStatus, error)
	Claim(ctx context.Context, userID string, req *entity.ClaimRewardRequest) (*entity.ClaimRewardResult, error)
}

// Rewards 奖励相关的 API 处理器
type Rewards struct {
	service RewardServiceInterface
}

func NewRewards(service RewardServiceInterface) *Rewards {
	return &Rewards{service: service}
}

func (r *Rewards) RegisterRoutes(router *gin.RouterGroup) {
	rewardRouter := router.Group("/rewards")
	rewardRouter.GET("", ginx.Adapt3(r.Status))
	rewardRouter.POST("/claim", ginx.Adapt5(r.Claim))
}

func (r *Rewards) Status(ctx *gin.Context) ([]*entity.RewardStatus, error) {
	return r.service.Status(ctx, currentUserID(ctx))
}

func (r *Rewards) Claim(ctx *gin.Context, req *entity.ClaimRewardRequest) (*entity.ClaimRewardResult, error) {
	result, err := r.service.Claim(ctx, currentUserID(ctx), req)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("source", result.Source).
		Int64("coins", result.Coins).
		Msg("reward claimed")
	return result, nil
}
