// Package service 提供业务逻辑层的服务实现
package service

import (
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"github.com/jinzhu/copier"
)

// userModelToEntity 将 model.User 转换为 entity.User
func userModelToEntity(m *model.User) (*entity.User, error) {
	e := &entity.User{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	// 处理时间字段
	e.CreatedAt = m.CreatedAt.Format(time.RFC3339)

	return e, nil
}

// serverModelToEntity 将 model.Server 转换为 entity.Server
func serverModelToEntity(m *model.Server) (*entity.Server, error) {
	e := &entity.Server{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	// 处理时间字段
	e.CreatedAt = m.CreatedAt.Format(time.RFC3339)

	return e, nil
}

// purchaseModelToEntity 将 model.Purchase 转换为 entity.PurchaseRecord
func purchaseModelToEntity(m *model.Purchase) (*entity.PurchaseRecord, error) {
	e := &entity.PurchaseRecord{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}
	e.CreatedAt = m.CreatedAt.Format(time.RFC3339)
	return e, nil
}

// priceModelToEntity 将 model.ResourcePrice 转换为 entity.ResourcePrice
func priceModelToEntity(m *model.ResourcePrice) *entity.ResourcePrice {
	return &entity.ResourcePrice{
		Resource:    m.Resource,
		UnitsPerSet: m.UnitsPerSet,
		CoinsPerSet: m.CoinsPerSet,
	}
}

// allocationModelToEntity 将 model.PanelAllocation 转换为 entity.PanelAllocation
func allocationModelToEntity(m *model.PanelAllocation) (*entity.PanelAllocation, error) {
	e := &entity.PanelAllocation{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}
	return e, nil
}
