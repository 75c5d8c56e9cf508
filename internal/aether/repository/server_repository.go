package repository

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"gorm.io/gorm"
)

// ResourceUsage 某个用户名下所有服务器占用的资源汇总
type ResourceUsage struct {
	RAM     int64
	CPU     int64
	Storage int64
	Servers int64
}

// ServerRepository 服务器仓库接口
type ServerRepository interface {
	GetByID(ctx context.Context, id string) (*model.Server, error)
	GetByRemoteID(ctx context.Context, remoteID int64) (*model.Server, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Server, error)
	List(ctx context.Context) ([]*model.Server, error)
	Update(ctx context.Context, server *model.Server) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	Usage(ctx context.Context, userID string) (*ResourceUsage, error)
	CreateWithCapacityCheck(ctx context.Context, server *model.Server, owner *model.User) error
	UpdateResourcesWithCapacityCheck(ctx context.Context, serverID string, owner *model.User, ram int64, cpu int64, storage int64) error
}

type serverRepository struct {
	db *gorm.DB
}

// NewServerRepository 创建服务器仓库
func NewServerRepository(db *gorm.DB) ServerRepository {
	return &serverRepository{db: db}
}

// GetByID 根据 ID 获取服务器
func (r *serverRepository) GetByID(ctx context.Context, id string) (*model.Server, error) {
	var server model.Server
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&server).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

// GetByRemoteID 根据面板侧 ID 获取服务器
func (r *serverRepository) GetByRemoteID(ctx context.Context, remoteID int64) (*model.Server, error) {
	var server model.Server
	if err := r.db.WithContext(ctx).Where("pterodactyl_id = ?", remoteID).First(&server).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

// ListByUser 列出某个用户的服务器
func (r *serverRepository) ListByUser(ctx context.Context, userID string) ([]*model.Server, error) {
	var servers []*model.Server
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&servers).Error; err != nil {
		return nil, err
	}
	return servers, nil
}

// List 列出全部服务器
func (r *serverRepository) List(ctx context.Context) ([]*model.Server, error) {
	var servers []*model.Server
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&servers).Error; err != nil {
		return nil, err
	}
	return servers, nil
}

// Update 更新服务器
func (r *serverRepository) Update(ctx context.Context, server *model.Server) error {
	return r.db.WithContext(ctx).Save(server).Error
}

// Delete 软删除服务器
func (r *serverRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Server{}, "id = ?", id).Error
}

// Count 统计服务器总数
func (r *serverRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Server{}).Count(&count).Error
	return count, err
}

// Usage 汇总用户名下所有服务器的资源占用
// 已用量不落库，每次实时算，保证和 servers 表永远一致
func (r *serverRepository) Usage(ctx context.Context, userID string) (*ResourceUsage, error) {
	return usageTx(r.db.WithContext(ctx), userID)
}

func usageTx(tx *gorm.DB, userID string) (*ResourceUsage, error) {
	var usage ResourceUsage
	err := tx.Model(&model.Server{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(ram), 0) AS ram, COALESCE(SUM(cpu), 0) AS cpu, COALESCE(SUM(storage), 0) AS storage, COUNT(*) AS servers").
		Scan(&usage).Error
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

// capacityShortfall 逐项检查配额，返回第一个不够用的资源及短缺量
func capacityShortfall(usage *ResourceUsage, owner *model.User, ram int64, cpu int64, storage int64) error {
	switch {
	case usage.RAM+ram > owner.TotalRAM:
		return &CapacityError{Resource: "ram", Need: ram, Have: owner.TotalRAM - usage.RAM}
	case usage.CPU+cpu > owner.TotalCPU:
		return &CapacityError{Resource: "cpu", Need: cpu, Have: owner.TotalCPU - usage.CPU}
	case usage.Storage+storage > owner.TotalStorage:
		return &CapacityError{Resource: "storage", Need: storage, Have: owner.TotalStorage - usage.Storage}
	}
	return nil
}

// CreateWithCapacityCheck 在一个事务里复核配额并插入记录
// 预检和插入之间别的请求可能也在建服务器，所以汇总必须和插入同事务
func (r *serverRepository) CreateWithCapacityCheck(ctx context.Context, server *model.Server, owner *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		usage, err := usageTx(tx, owner.ID)
		if err != nil {
			return err
		}
		if usage.Servers >= owner.TotalSlots {
			return ErrSlotLimitExceeded
		}
		if err := capacityShortfall(usage, owner, server.RAM, server.CPU, server.Storage); err != nil {
			return err
		}
		return tx.Create(server).Error
	})
}

// UpdateResourcesWithCapacityCheck 在一个事务里复核配额并更新服务器规格
// 汇总时排除目标服务器自身当前的占用
func (r *serverRepository) UpdateResourcesWithCapacityCheck(ctx context.Context, serverID string, owner *model.User, ram int64, cpu int64, storage int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var usage ResourceUsage
		err := tx.Model(&model.Server{}).
			Where("user_id = ? AND id != ?", owner.ID, serverID).
			Select("COALESCE(SUM(ram), 0) AS ram, COALESCE(SUM(cpu), 0) AS cpu, COALESCE(SUM(storage), 0) AS storage, COUNT(*) AS servers").
			Scan(&usage).Error
		if err != nil {
			return err
		}
		if err := capacityShortfall(&usage, owner, ram, cpu, storage); err != nil {
			return err
		}
		return tx.Model(&model.Server{}).
			Where("id = ?", serverID).
			Updates(map[string]interface{}{"ram": ram, "cpu": cpu, "storage": storage}).Error
	})
}
