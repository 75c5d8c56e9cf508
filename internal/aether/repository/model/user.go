package model

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
// Total* 字段是用户名下的资源配额（初始配额 + 商店购入的累加），
// 已用量不落库，始终从 servers 表实时汇总
type User struct {
	ID                string         `gorm:"primaryKey;type:text;column:id" json:"id"` // usr-{id}
	Email             string         `gorm:"type:text;not null;uniqueIndex:idx_users_email;column:email" json:"email"`
	Username          string         `gorm:"type:text;not null;column:username" json:"username"`
	PasswordHash      string         `gorm:"type:text;not null;column:password_hash" json:"-"` // bcrypt
	IsAdmin           bool           `gorm:"type:integer;not null;default:0;column:is_admin" json:"is_admin"`
	Coins             int64          `gorm:"type:integer;not null;default:0;column:coins" json:"coins"`
	TotalRAM          int64          `gorm:"type:integer;not null;default:0;column:total_ram" json:"total_ram"`             // MB
	TotalCPU          int64          `gorm:"type:integer;not null;default:0;column:total_cpu" json:"total_cpu"`             // 百分比，100 = 一核
	TotalStorage      int64          `gorm:"type:integer;not null;default:0;column:total_storage" json:"total_storage"`     // MB
	TotalSlots        int64          `gorm:"type:integer;not null;default:0;column:total_slots" json:"total_slots"`         // 可建服务器数
	PterodactylUserID int64          `gorm:"type:integer;not null;default:0;column:pterodactyl_user_id" json:"pterodactyl_user_id"` // 0 表示尚未在面板建号
	CreatedAt         time.Time      `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"type:datetime;index:idx_users_deleted_at;column:deleted_at" json:"deleted_at,omitempty"` // 软删除
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
