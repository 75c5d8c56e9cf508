package model

import (
	"time"
)

// Purchase 商店购买流水表
// 只追加不修改，是金币扣减的审计凭证
type Purchase struct {
	ID        string    `gorm:"primaryKey;type:text;column:id" json:"id"`
	UserID    string    `gorm:"type:text;not null;index:idx_purchases_user_id;column:user_id" json:"user_id"`
	Resource  string    `gorm:"type:text;not null;column:resource" json:"resource"` // ram / cpu / storage / slots
	Amount    int64     `gorm:"type:integer;not null;column:amount" json:"amount"`  // 购入的资源单位数
	Cost      int64     `gorm:"type:integer;not null;column:cost" json:"cost"`      // 实付金币
	CreatedAt time.Time `gorm:"type:datetime;not null;index:idx_purchases_created_at;column:created_at" json:"created_at"`
}

// TableName 指定表名
func (Purchase) TableName() string {
	return "purchases"
}
