package entity

import (
	"fmt"
	"net/url"
	"strings"
)

// PanelStatus 面板连接状态
type PanelStatus struct {
	Connected bool   `json:"connected"`
	URL       string `json:"url,omitempty"`
	Source    string `json:"source,omitempty"` // database / environment
}

// ConnectPanelRequest 连接面板请求
type ConnectPanelRequest struct {
	URL    string `json:"url"`
	APIKey string `json:"api_key"`
}

// IsValid 校验连接参数
func (r *ConnectPanelRequest) IsValid() error {
	u, err := url.Parse(strings.TrimSpace(r.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be a valid http(s) address")
	}
	if strings.TrimSpace(r.APIKey) == "" {
		return fmt.Errorf("api_key is required")
	}
	return nil
}

// PanelAllocation 同步到本地的分配
type PanelAllocation struct {
	AllocationID int64  `json:"allocation_id"`
	NodeID       int64  `json:"node_id"`
	NodeName     string `json:"node_name,omitempty"`
	IP           string `json:"ip"`
	Alias        string `json:"alias,omitempty"`
	Port         int    `json:"port"`
	Priority     int    `json:"priority"`
}

// AllocationPriorityRequest 设置分配优先级请求
type AllocationPriorityRequest struct {
	AllocationID int64 `json:"allocation_id" uri:"id"`
	Priority     int   `json:"priority"`
}

// IsValid 校验优先级参数
func (r *AllocationPriorityRequest) IsValid() error {
	if r.AllocationID <= 0 {
		return fmt.Errorf("allocation_id is required")
	}
	return nil
}

// SyncResult 一次同步的结果
type SyncResult struct {
	Synced int `json:"synced"`
}

// GrantCoinsRequest 管理员给用户加金币请求
type GrantCoinsRequest struct {
	UserID string `json:"user_id" uri:"id"`
	Coins  int64  `json:"coins"`
}

// IsValid 校验加币参数
func (r *GrantCoinsRequest) IsValid() error {
	if r.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if r.Coins <= 0 {
		return fmt.Errorf("coins must be positive")
	}
	return nil
}

// AdminStats 管理面总览
type AdminStats struct {
	Users       int64 `json:"users"`
	Servers     int64 `json:"servers"`
	PanelLinked bool  `json:"panel_linked"`
}
