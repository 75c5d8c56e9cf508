package repository

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"gorm.io/gorm"
)

// PurchaseRepository 购买流水仓库接口
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.Purchase, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建购买流水仓库
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

// Create 追加一条购买流水
func (r *purchaseRepository) Create(ctx context.Context, purchase *model.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

// ListByUser 按时间倒序列出用户的购买流水
func (r *purchaseRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Purchase, error) {
	var purchases []*model.Purchase
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
