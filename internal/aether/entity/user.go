// Package entity 定义业务实体
package entity

import (
	"fmt"
	"net/mail"
	"strings"
)

// User 用户信息
type User struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	IsAdmin           bool   `json:"is_admin"`
	Coins             int64  `json:"coins"`
	TotalRAM          int64  `json:"total_ram"`     // MB
	TotalCPU          int64  `json:"total_cpu"`     // 百分比
	TotalStorage      int64  `json:"total_storage"` // MB
	TotalSlots        int64  `json:"total_slots"`
	PterodactylUserID int64  `json:"pterodactyl_user_id,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// SignupRequest 注册请求
type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// IsValid 校验注册参数
func (r *SignupRequest) IsValid() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("invalid email address")
	}
	if name := strings.TrimSpace(r.Username); name == "" || len(name) > 32 {
		return fmt.Errorf("username must be 1-32 characters")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IsValid 校验登录参数
func (r *LoginRequest) IsValid() error {
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// ResourceLine 单种资源的余量
type ResourceLine struct {
	Total     int64 `json:"total"`
	Used      int64 `json:"used"`
	Available int64 `json:"available"`
}

// ResourceSummary 用户的资源总览
// Used 全部来自服务器表的实时汇总
type ResourceSummary struct {
	Coins   int64        `json:"coins"`
	RAM     ResourceLine `json:"ram"`
	CPU     ResourceLine `json:"cpu"`
	Storage ResourceLine `json:"storage"`
	Slots   ResourceLine `json:"slots"`
}

// DashboardResponse 仪表盘首页响应，聚合资源总览和服务器列表
type DashboardResponse struct {
	Summary *ResourceSummary `json:"summary"`
	Servers []*Server        `json:"servers"`
}
