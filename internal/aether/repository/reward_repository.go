package repository

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"gorm.io/gorm"
)

// RewardRepository 奖励流水仓库接口
type RewardRepository interface {
	Create(ctx context.Context, claim *model.RewardClaim) error
	Latest(ctx context.Context, userID string, source string) (*model.RewardClaim, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.RewardClaim, error)
}

type rewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository 创建奖励流水仓库
func NewRewardRepository(db *gorm.DB) RewardRepository {
	return &rewardRepository{db: db}
}

// Create 追加一条领取流水
func (r *rewardRepository) Create(ctx context.Context, claim *model.RewardClaim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

// Latest 某用户某来源的最近一次领取
// 没有记录时返回 (nil, nil)
func (r *rewardRepository) Latest(ctx context.Context, userID string, source string) (*model.RewardClaim, error) {
	var claim model.RewardClaim
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND source = ?", userID, source).
		Order("created_at DESC").
		First(&claim).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

// ListByUser 按时间倒序列出用户的领取流水
func (r *rewardRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*model.RewardClaim, error) {
	var claims []*model.RewardClaim
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}
