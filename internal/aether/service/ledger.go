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
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// LedgerService 金币与资源配额的账本服务
// 余额和配额的唯一权威在数据库里，这里不缓存任何余额
type LedgerService struct {
	userRepo     repository.UserRepository
	serverRepo   repository.ServerRepository
	purchaseRepo repository.PurchaseRepository
	priceRepo    repository.PriceRepository
	idGen        *idgen.Generator
}

// NewLedgerService 创建账本服务
func NewLedgerService(
	userRepo repository.UserRepository,
	serverRepo repository.ServerRepository,
	purchaseRepo repository.PurchaseRepository,
	priceRepo repository.PriceRepository,
) *LedgerService {
	return &LedgerService{
		userRepo:     userRepo,
		serverRepo:   serverRepo,
		purchaseRepo: purchaseRepo,
		priceRepo:    priceRepo,
		idGen:        idgen.New(),
	}
}

// Summary 用户的金币与资源总览
// 已用量实时汇总自服务器表，所以 available 永远等于 total - used
func (s *LedgerService) Summary(ctx context.Context, userID string) (*entity.ResourceSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrNotFound
		}
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	usage, err := s.serverRepo.Usage(ctx, userID)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	line := func(total, used int64) entity.ResourceLine {
		return entity.ResourceLine{Total: total, Used: used, Available: total - used}
	}
	return &entity.ResourceSummary{
		Coins:   user.Coins,
		RAM:     line(user.TotalRAM, usage.RAM),
		CPU:     line(user.TotalCPU, usage.CPU),
		Storage: line(user.TotalStorage, usage.Storage),
		Slots:   line(user.TotalSlots, usage.Servers),
	}, nil
}

// PurchaseCost 按定价计算实付金币
// 按量比例计价，乘完再向上取整，只在最后一步进到整数金币
func PurchaseCost(amount int64, price *model.ResourcePrice) int64 {
	return (amount*price.CoinsPerSet + price.UnitsPerSet - 1) / price.UnitsPerSet
}

// Purchase 花金币购买资源配额
// 扣款和配额到账在同一个数据库事务里，之后才记流水
func (s *LedgerService) Purchase(ctx context.Context, userID string, req *entity.PurchaseRequest) (*entity.PurchaseResult, error) {
	logger := zerolog.Ctx(ctx)

	price, err := s.priceRepo.Get(ctx, req.Resource)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewErrorWithStatus(
				"InvalidParameter",
				"resource is not for sale",
				400,
			)
		}
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	cost := PurchaseCost(req.Amount, price)

	if err := s.userRepo.PurchaseCapacity(ctx, userID, req.Resource, req.Amount, cost); err != nil {
		if errors.Is(err, repository.ErrInsufficientCoins) {
			return nil, apierror.ErrInsufficientCoins
		}
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	purchaseID, err := s.idGen.GeneratePurchaseID()
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	record := &model.Purchase{
		ID:        purchaseID,
		UserID:    userID,
		Resource:  req.Resource,
		Amount:    req.Amount,
		Cost:      cost,
		CreatedAt: time.Now(),
	}
	if err := s.purchaseRepo.Create(ctx, record); err != nil {
		// 流水只是审计凭证，写失败不回滚购买本身
		logger.Error().Err(err).Str("purchase_id", purchaseID).Msg("write purchase record failed")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	logger.Info().
		Str("user_id", userID).
		Str("resource", req.Resource).
		Int64("amount", req.Amount).
		Int64("cost", cost).
		Msg("resource purchased")

	return &entity.PurchaseResult{
		Resource:  req.Resource,
		Amount:    req.Amount,
		Cost:      cost,
		CoinsLeft: user.Coins,
	}, nil
}

// History 用户的购买流水
func (s *LedgerService) History(ctx context.Context, userID string, limit int) ([]*entity.PurchaseRecord, error) {
	records, err := s.purchaseRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	out := make([]*entity.PurchaseRecord, 0, len(records))
	for _, r := range records {
		e, err := purchaseModelToEntity(r)
		if err != nil {
			return nil, apierror.Wrap(apierror.ErrInternalError, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Prices 当前全部定价
func (s *LedgerService) Prices(ctx context.Context) ([]*entity.ResourcePrice, error) {
	prices, err := s.priceRepo.List(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	out := make([]*entity.ResourcePrice, 0, len(prices))
	for _, p := range prices {
		out = append(out, priceModelToEntity(p))
	}
	return out, nil
}

// SetPrice 设置某种资源的定价
func (s *LedgerService) SetPrice(ctx context.Context, req *entity.SetPriceRequest) error {
	err := s.priceRepo.Upsert(ctx, &model.ResourcePrice{
		Resource:    req.Resource,
		UnitsPerSet: req.UnitsPerSet,
		CoinsPerSet: req.CoinsPerSet,
		UpdatedAt:   time.Now(),
	})
	if err != nil {
		return apierror.Wrap(apierror.ErrInternalError, err)
	}
	return nil
}
