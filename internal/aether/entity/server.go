package entity

import (
	"fmt"
	"regexp"
	"strings"
)

// 建服务器的最低规格，低于这个值的服务器起不来
const (
	MinServerRAM     = 1024 // MB
	MinServerCPU     = 100  // 百分比，一整核
	MinServerStorage = 5120 // MB
	MaxServerNameLen = 50
)

// 服务器名只允许字母、数字、空格、下划线和连字符
var serverNamePattern = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

// Server 服务器信息
type Server struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	RAM           int64  `json:"ram"`     // MB
	CPU           int64  `json:"cpu"`     // 百分比
	Storage       int64  `json:"storage"` // MB
	EggID         int64  `json:"egg_id,omitempty"`
	PterodactylID int64  `json:"pterodactyl_id,omitempty"`
	Identifier    string `json:"identifier,omitempty"`
	PublicAddress string `json:"public_address,omitempty"`
	Suspended     bool   `json:"suspended"`
	CreatedAt     string `json:"created_at"`
}

// validateServerName 校验服务器名称
func validateServerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("server name is required")
	}
	if len(name) > MaxServerNameLen {
		return fmt.Errorf("server name must be at most %d characters", MaxServerNameLen)
	}
	if !serverNamePattern.MatchString(name) {
		return fmt.Errorf("server name may only contain letters, numbers, spaces, underscores and hyphens")
	}
	return nil
}

// validateServerSpec 校验资源规格下限
func validateServerSpec(ram int64, cpu int64, storage int64) error {
	if ram < MinServerRAM {
		return fmt.Errorf("ram must be at least %d MB", MinServerRAM)
	}
	if cpu < MinServerCPU {
		return fmt.Errorf("cpu must be at least %d%%", MinServerCPU)
	}
	if storage < MinServerStorage {
		return fmt.Errorf("storage must be at least %d MB", MinServerStorage)
	}
	return nil
}

// CreateServerRequest 创建服务器请求
type CreateServerRequest struct {
	Name    string `json:"name"`
	EggID   int64  `json:"egg_id"`
	RAM     int64  `json:"ram"`
	CPU     int64  `json:"cpu"`
	Storage int64  `json:"storage"`
}

// IsValid 校验创建参数
func (r *CreateServerRequest) IsValid() error {
	if err := validateServerName(r.Name); err != nil {
		return err
	}
	return validateServerSpec(r.RAM, r.CPU, r.Storage)
}

// ResizeServerRequest 调整服务器规格请求
type ResizeServerRequest struct {
	RAM     int64 `json:"ram"`
	CPU     int64 `json:"cpu"`
	Storage int64 `json:"storage"`
}

// IsValid 校验调整参数
func (r *ResizeServerRequest) IsValid() error {
	return validateServerSpec(r.RAM, r.CPU, r.Storage)
}

// ServerListResponse 服务器列表响应
type ServerListResponse struct {
	Servers []*Server `json:"servers"`
}

// EggTemplate 可选的服务器模板
type EggTemplate struct {
	EggID       int64  `json:"egg_id"`
	NestID      int64  `json:"nest_id"`
	NestName    string `json:"nest_name,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DockerImage string `json:"docker_image,omitempty"`
}
