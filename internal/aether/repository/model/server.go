package model

import (
	"time"

	"gorm.io/gorm"
)

// Server 服务器表
// PterodactylID 为 0 表示只有本地记录，面板上没有对应实体（面板未配置时创建的）
// PublicAddress 为空表示还没从面板解析出地址，列表时惰性回填
type Server struct {
	ID            string         `gorm:"primaryKey;type:text;column:id" json:"id"` // srv-{id}
	UserID        string         `gorm:"type:text;not null;index:idx_servers_user_id;column:user_id" json:"user_id"`
	Name          string         `gorm:"type:text;not null;column:name" json:"name"`
	RAM           int64          `gorm:"type:integer;not null;column:ram" json:"ram"`         // MB
	CPU           int64          `gorm:"type:integer;not null;column:cpu" json:"cpu"`         // 百分比
	Storage       int64          `gorm:"type:integer;not null;column:storage" json:"storage"` // MB
	EggID         int64          `gorm:"type:integer;not null;default:0;column:egg_id" json:"egg_id"`
	PterodactylID int64          `gorm:"type:integer;not null;default:0;index:idx_servers_pterodactyl_id;column:pterodactyl_id" json:"pterodactyl_id"`
	Identifier    string         `gorm:"type:text;column:identifier" json:"identifier"` // 面板短标识
	PublicAddress string         `gorm:"type:text;column:public_address" json:"public_address"`
	Suspended     bool           `gorm:"type:integer;not null;default:0;column:suspended" json:"suspended"`
	CreatedAt     time.Time      `gorm:"type:datetime;not null;index:idx_servers_created_at;column:created_at" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"type:datetime;index:idx_servers_deleted_at;column:deleted_at" json:"deleted_at,omitempty"` // 软删除
}

// TableName 指定表名
func (Server) TableName() string {
	return "servers"
}
