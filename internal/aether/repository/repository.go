// Package repository 提供数据持久化层实现
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 纯 Go SQLite 驱动，不需要 CGO
)

// 业务层据此区分 "条件不满足" 和真正的数据库错误
var (
	// ErrInsufficientCoins 余额不足，条件扣减没有命中任何行
	ErrInsufficientCoins = errors.New("repository: insufficient coins")
	// ErrInsufficientCapacity 资源配额不足
	ErrInsufficientCapacity = errors.New("repository: insufficient resource capacity")
	// ErrSlotLimitExceeded 服务器数量已达上限
	ErrSlotLimitExceeded = errors.New("repository: server slot limit exceeded")
)

// CapacityError 某种资源的配额余量不够，带上短缺明细
// Need 是这次要占用的量，Have 是当前还剩的量
type CapacityError struct {
	Resource string
	Need     int64
	Have     int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("repository: insufficient %s capacity: need %d, have %d", e.Resource, e.Need, e.Have)
}

// Is 让 errors.Is(err, ErrInsufficientCapacity) 按类别也能匹配
func (e *CapacityError) Is(target error) bool {
	return target == ErrInsufficientCapacity
}

// Repository 数据库仓库
type Repository struct {
	db *gorm.DB
}

// New 创建新的 Repository 实例
func New(dbPath string) (*Repository, error) {
	// 确保数据库目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// 连接数据库（使用纯 Go SQLite 驱动，不需要 CGO）
	// 直接使用 database/sql + modernc.org/sqlite 创建连接，然后传递给 GORM
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// 使用 GORM 的 Dialector 包装已创建的 sql.DB 连接
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	// 自动迁移
	if err := db.AutoMigrate(
		&model.User{},
		&model.Server{},
		&model.Purchase{},
		&model.RewardClaim{},
		&model.PanelConfig{},
		&model.PanelEgg{},
		&model.PanelAllocation{},
		&model.ResourcePrice{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Repository{db: db}, nil
}

// DB 返回 GORM 数据库实例（用于 Repository 实现）
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithContext 返回带上下文的数据库实例
func (r *Repository) WithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Close 关闭数据库连接
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
