package repository

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"gorm.io/gorm"
)

// PanelRepository 面板配置与同步缓存仓库接口
type PanelRepository interface {
	GetConfig(ctx context.Context) (*model.PanelConfig, error)
	SaveConfig(ctx context.Context, cfg *model.PanelConfig) error
	DeleteConfig(ctx context.Context) error

	ReplaceEggs(ctx context.Context, eggs []*model.PanelEgg) error
	ListEggs(ctx context.Context) ([]*model.PanelEgg, error)
	GetEgg(ctx context.Context, eggID int64) (*model.PanelEgg, error)

	ReplaceAllocations(ctx context.Context, allocations []*model.PanelAllocation) error
	ListAllocations(ctx context.Context) ([]*model.PanelAllocation, error)
	PickAllocation(ctx context.Context) (*model.PanelAllocation, error)
	SetAllocationPriority(ctx context.Context, allocationID int64, priority int) error
	RemoveAllocation(ctx context.Context, allocationID int64) error
}

type panelRepository struct {
	db *gorm.DB
}

// NewPanelRepository 创建面板仓库
func NewPanelRepository(db *gorm.DB) PanelRepository {
	return &panelRepository{db: db}
}

// GetConfig 读取面板配置
// 没有配置时返回 (nil, nil)，上层把它当未配置处理
func (r *panelRepository) GetConfig(ctx context.Context) (*model.PanelConfig, error) {
	var cfg model.PanelConfig
	err := r.db.WithContext(ctx).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig 保存面板配置，单行表，先清后写
func (r *panelRepository) SaveConfig(ctx context.Context, cfg *model.PanelConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.PanelConfig{}).Error; err != nil {
			return err
		}
		return tx.Create(cfg).Error
	})
}

// DeleteConfig 删除面板配置（断开面板）
func (r *panelRepository) DeleteConfig(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.PanelConfig{}).Error
}

// ReplaceEggs 全量替换 Egg 缓存
// 同步是全量拉取，增量合并不值得做
func (r *panelRepository) ReplaceEggs(ctx context.Context, eggs []*model.PanelEgg) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.PanelEgg{}).Error; err != nil {
			return err
		}
		if len(eggs) == 0 {
			return nil
		}
		return tx.Create(eggs).Error
	})
}

// ListEggs 列出启用的 Egg 模板
func (r *panelRepository) ListEggs(ctx context.Context) ([]*model.PanelEgg, error) {
	var eggs []*model.PanelEgg
	if err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("egg_id ASC").
		Find(&eggs).Error; err != nil {
		return nil, err
	}
	return eggs, nil
}

// GetEgg 根据面板侧 ID 获取 Egg 模板
func (r *panelRepository) GetEgg(ctx context.Context, eggID int64) (*model.PanelEgg, error) {
	var egg model.PanelEgg
	if err := r.db.WithContext(ctx).Where("egg_id = ?", eggID).First(&egg).Error; err != nil {
		return nil, err
	}
	return &egg, nil
}

// ReplaceAllocations 全量替换分配缓存，保留已设置的优先级
func (r *panelRepository) ReplaceAllocations(ctx context.Context, allocations []*model.PanelAllocation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先把旧优先级捞出来，替换后回填
		var old []*model.PanelAllocation
		if err := tx.Find(&old).Error; err != nil {
			return err
		}
		priorities := make(map[int64]int, len(old))
		for _, a := range old {
			if a.Priority != 0 {
				priorities[a.AllocationID] = a.Priority
			}
		}

		if err := tx.Where("1 = 1").Delete(&model.PanelAllocation{}).Error; err != nil {
			return err
		}
		if len(allocations) == 0 {
			return nil
		}
		for i, a := range allocations {
			if p, ok := priorities[a.AllocationID]; ok {
				a.Priority = p
			}
			// 面板返回的顺序就是管理员看到的顺序，记下来做平局排序
			a.Position = int64(i + 1)
		}
		return tx.Create(allocations).Error
	})
}

// ListAllocations 按优先级降序、同步顺序升序列出分配
func (r *panelRepository) ListAllocations(ctx context.Context) ([]*model.PanelAllocation, error) {
	var allocations []*model.PanelAllocation
	if err := r.db.WithContext(ctx).
		Order("priority DESC, position ASC").
		Find(&allocations).Error; err != nil {
		return nil, err
	}
	return allocations, nil
}

// PickAllocation 取优先级最高的一条分配，平局时取先同步进来的
func (r *panelRepository) PickAllocation(ctx context.Context) (*model.PanelAllocation, error) {
	var allocation model.PanelAllocation
	if err := r.db.WithContext(ctx).
		Order("priority DESC, position ASC").
		First(&allocation).Error; err != nil {
		return nil, err
	}
	return &allocation, nil
}

// SetAllocationPriority 设置某条分配的优先级
func (r *panelRepository) SetAllocationPriority(ctx context.Context, allocationID int64, priority int) error {
	result := r.db.WithContext(ctx).Model(&model.PanelAllocation{}).
		Where("allocation_id = ?", allocationID).
		Update("priority", priority)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveAllocation 从缓存里移除一条分配（已被占用）
func (r *panelRepository) RemoveAllocation(ctx context.Context, allocationID int64) error {
	return r.db.WithContext(ctx).
		Where("allocation_id = ?", allocationID).
		Delete(&model.PanelAllocation{}).Error
}
