package model

import (
	"time"
)

// RewardClaim 奖励领取流水表
// 冷却判定依赖同一用户同一来源的最近一条记录
type RewardClaim struct {
	ID        string    `gorm:"primaryKey;type:text;column:id" json:"id"`
	UserID    string    `gorm:"type:text;not null;index:idx_reward_claims_user_id;column:user_id" json:"user_id"`
	Source    string    `gorm:"type:text;not null;column:source" json:"source"` // daily / linkvertise / admin
	Coins     int64     `gorm:"type:integer;not null;column:coins" json:"coins"`
	CreatedAt time.Time `gorm:"type:datetime;not null;index:idx_reward_claims_created_at;column:created_at" json:"created_at"`
}

// TableName 指定表名
func (RewardClaim) TableName() string {
	return "reward_claims"
}
