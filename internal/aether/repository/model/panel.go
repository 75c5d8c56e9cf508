package model

import (
	"time"
)

// PanelConfig 面板连接配置，单行表
// APIKeyCipher 是 secretbox 封装后的密钥密文
type PanelConfig struct {
	ID           uint      `gorm:"primaryKey;column:id" json:"id"`
	URL          string    `gorm:"type:text;not null;column:url" json:"url"`
	APIKeyCipher string    `gorm:"type:text;not null;column:api_key_cipher" json:"-"`
	ConnectedAt  time.Time `gorm:"type:datetime;not null;column:connected_at" json:"connected_at"`
	UpdatedAt    time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (PanelConfig) TableName() string {
	return "panel_configs"
}

// PanelEgg 从面板同步下来的 Egg 模板缓存
// VariablesJSON 是 []EggVariable 的 JSON 序列化
type PanelEgg struct {
	EggID         int64     `gorm:"primaryKey;column:egg_id" json:"egg_id"`
	NestID        int64     `gorm:"type:integer;not null;column:nest_id" json:"nest_id"`
	NestName      string    `gorm:"type:text;column:nest_name" json:"nest_name"`
	Name          string    `gorm:"type:text;not null;column:name" json:"name"`
	Description   string    `gorm:"type:text;column:description" json:"description"`
	DockerImage   string    `gorm:"type:text;column:docker_image" json:"docker_image"`
	Startup       string    `gorm:"type:text;column:startup" json:"startup"`
	VariablesJSON string    `gorm:"type:text;column:variables_json" json:"-"`
	Enabled       bool      `gorm:"type:integer;not null;default:1;column:enabled" json:"enabled"`
	SyncedAt      time.Time `gorm:"type:datetime;not null;column:synced_at" json:"synced_at"`
}

// TableName 指定表名
func (PanelEgg) TableName() string {
	return "panel_eggs"
}

// PanelAllocation 从面板同步下来的可用分配缓存
// 建服务器时按 priority 降序、position 升序取第一条
// Position 记录同步进来的先后顺序，同优先级时先同步的先被取走
type PanelAllocation struct {
	AllocationID int64     `gorm:"primaryKey;column:allocation_id" json:"allocation_id"`
	NodeID       int64     `gorm:"type:integer;not null;column:node_id" json:"node_id"`
	NodeName     string    `gorm:"type:text;column:node_name" json:"node_name"`
	IP           string    `gorm:"type:text;not null;column:ip" json:"ip"`
	Alias        string    `gorm:"type:text;column:alias" json:"alias"`
	Port         int       `gorm:"type:integer;not null;column:port" json:"port"`
	Priority     int       `gorm:"type:integer;not null;default:0;index:idx_panel_allocations_priority;column:priority" json:"priority"`
	Position     int64     `gorm:"type:integer;not null;default:0;column:position" json:"-"`
	SyncedAt     time.Time `gorm:"type:datetime;not null;column:synced_at" json:"synced_at"`
}

// TableName 指定表名
func (PanelAllocation) TableName() string {
	return "panel_allocations"
}

// ResourcePrice 商店定价表
// 成套售卖：coins_per_set 个金币买 units_per_set 个单位
type ResourcePrice struct {
	Resource    string    `gorm:"primaryKey;type:text;column:resource" json:"resource"` // ram / cpu / storage / slots
	UnitsPerSet int64     `gorm:"type:integer;not null;column:units_per_set" json:"units_per_set"`
	CoinsPerSet int64     `gorm:"type:integer;not null;column:coins_per_set" json:"coins_per_set"`
	UpdatedAt   time.Time `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (ResourcePrice) TableName() string {
	return "resource_prices"
}
