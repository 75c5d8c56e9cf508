package api

import (
	"context"
	"strconv"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/ginx"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const defaultHistoryLimit = 50

// LedgerServiceInterface 资源商店服务接口
type LedgerServiceInterface interface {
	Prices(ctx context.Context) ([]*entity.ResourcePrice, error)
	Purchase(ctx context.Context, userID string, req *entity.PurchaseRequest) (*entity.PurchaseResult, error)
	History(ctx context.Context, userID string, limit int) ([]*entity.PurchaseRecord, error)
}

// Store 资源商店处理器
type Store struct {
	service LedgerServiceInterface
}

func NewStore(service LedgerServiceInterface) *Store {
	return &Store{service: service}
}

func (s *Store) RegisterRoutes(router *gin.RouterGroup) {
	storeRouter := router.Group("/store")
	storeRouter.GET("/prices", ginx.Adapt3(s.Prices))
	storeRouter.POST("/purchase", ginx.Adapt5(s.Purchase))
	storeRouter.GET("/history", ginx.Adapt3(s.History))
}

func (s *Store) Prices(ctx *gin.Context) ([]*entity.ResourcePrice, error) {
	return s.service.Prices(ctx)
}

func (s *Store) Purchase(ctx *gin.Context, req *entity.PurchaseRequest) (*entity.PurchaseResult, error) {
	result, err := s.service.Purchase(ctx, currentUserID(ctx), req)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("resource", req.Resource).
			Int64("amount", req.Amount).
			Msg("purchase failed")
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("resource", result.Resource).
		Int64("cost", result.Cost).
		Msg("resource purchased")
	return result, nil
}

func (s *Store) History(ctx *gin.Context) ([]*entity.PurchaseRecord, error) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.service.History(ctx, currentUserID(ctx), limit)
}
