package repository

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"gorm.io/gorm"
)

// UserRepository 用户仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)

	SpendCoins(ctx context.Context, id string, amount int64) error
	AddCoins(ctx context.Context, id string, amount int64) error
	PurchaseCapacity(ctx context.Context, id string, resource string, amount int64, cost int64) error
	SetPterodactylUserID(ctx context.Context, id string, remoteID int64) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据 ID 获取用户
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List 列出全部用户
func (r *userRepository) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update 更新用户
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete 软删除用户
func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}

// Count 统计用户总数
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

// SpendCoins 条件扣减金币
// 余额检查和扣减放在同一条 UPDATE 里，靠 WHERE 条件保证不会扣成负数
// 没有命中任何行说明读到扣之间余额变了，返回 ErrInsufficientCoins
func (r *userRepository) SpendCoins(ctx context.Context, id string, amount int64) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND coins >= ?", id, amount).
		Update("coins", gorm.Expr("coins - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientCoins
	}
	return nil
}

// AddCoins 增加金币
func (r *userRepository) AddCoins(ctx context.Context, id string, amount int64) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("coins", gorm.Expr("coins + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PurchaseCapacity 在一个事务里扣金币并追加资源配额
// 扣款和到账要么都生效要么都不生效，不存在扣了款配额没到的中间态
// resource 取 ram / cpu / storage / slots，列名白名单映射，不拼接外部输入
func (r *userRepository) PurchaseCapacity(ctx context.Context, id string, resource string, amount int64, cost int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.User{}).
			Where("id = ? AND coins >= ?", id, cost).
			Update("coins", gorm.Expr("coins - ?", cost))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientCoins
		}
		// 列名解析放在事务里，非法资源名连同扣款一起回滚
		column, ok := capacityColumn(resource)
		if !ok {
			return gorm.ErrInvalidField
		}
		return tx.Model(&model.User{}).
			Where("id = ?", id).
			Update(column, gorm.Expr(column+" + ?", amount)).Error
	})
}

// capacityColumn 资源名到配额列的映射
func capacityColumn(resource string) (string, bool) {
	switch resource {
	case "ram":
		return "total_ram", true
	case "cpu":
		return "total_cpu", true
	case "storage":
		return "total_storage", true
	case "slots":
		return "total_slots", true
	}
	return "", false
}

// SetPterodactylUserID 记录面板侧的用户 ID
func (r *userRepository) SetPterodactylUserID(ctx context.Context, id string, remoteID int64) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("pterodactyl_user_id", remoteID).Error
}
