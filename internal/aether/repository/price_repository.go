package repository

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceRepository 商店定价仓库接口
type PriceRepository interface {
	Get(ctx context.Context, resource string) (*model.ResourcePrice, error)
	List(ctx context.Context) ([]*model.ResourcePrice, error)
	Upsert(ctx context.Context, price *model.ResourcePrice) error
}

type priceRepository struct {
	db *gorm.DB
}

// NewPriceRepository 创建定价仓库
func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

// Get 读取某种资源的定价
func (r *priceRepository) Get(ctx context.Context, resource string) (*model.ResourcePrice, error) {
	var price model.ResourcePrice
	if err := r.db.WithContext(ctx).Where("resource = ?", resource).First(&price).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

// List 列出全部定价
func (r *priceRepository) List(ctx context.Context) ([]*model.ResourcePrice, error) {
	var prices []*model.ResourcePrice
	if err := r.db.WithContext(ctx).Order("resource ASC").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// Upsert 写入或覆盖某种资源的定价
func (r *priceRepository) Upsert(ctx context.Context, price *model.ResourcePrice) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "resource"}},
		DoUpdates: clause.AssignmentColumns([]string{"units_per_set", "coins_per_set", "updated_at"}),
	}).Create(price).Error
}
