package entity

import (
	"fmt"
)

// 商店可售的资源种类
const (
	ResourceRAM     = "ram"
	ResourceCPU     = "cpu"
	ResourceStorage = "storage"
	ResourceSlots   = "slots"
)

// ValidResource 资源名是否可售
func ValidResource(resource string) bool {
	switch resource {
	case ResourceRAM, ResourceCPU, ResourceStorage, ResourceSlots:
		return true
	}
	return false
}

// ResourcePrice 某种资源的定价
type ResourcePrice struct {
	Resource    string `json:"resource"`
	UnitsPerSet int64  `json:"units_per_set"`
	CoinsPerSet int64  `json:"coins_per_set"`
}

// PurchaseRequest 购买资源请求
// Amount 是资源单位数，不是套数，按量计价后向上取整到整数金币
// 槽位只能一个一个买，Amount 固定为 1
type PurchaseRequest struct {
	Resource string `json:"resource"`
	Amount   int64  `json:"amount"`
}

// IsValid 校验购买参数
func (r *PurchaseRequest) IsValid() error {
	if !ValidResource(r.Resource) {
		return fmt.Errorf("unknown resource %q", r.Resource)
	}
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if r.Resource == ResourceSlots && r.Amount != 1 {
		return fmt.Errorf("slots are purchased one at a time")
	}
	return nil
}

// PurchaseResult 购买结果
type PurchaseResult struct {
	Resource  string `json:"resource"`
	Amount    int64  `json:"amount"`
	Cost      int64  `json:"cost"`
	CoinsLeft int64  `json:"coins_left"`
}

// PurchaseRecord 一条购买流水
type PurchaseRecord struct {
	ID        string `json:"id"`
	Resource  string `json:"resource"`
	Amount    int64  `json:"amount"`
	Cost      int64  `json:"cost"`
	CreatedAt string `json:"created_at"`
}

// SetPriceRequest 设置定价请求
type SetPriceRequest struct {
	Resource    string `json:"resource"`
	UnitsPerSet int64  `json:"units_per_set"`
	CoinsPerSet int64  `json:"coins_per_set"`
}

// IsValid 校验定价参数
func (r *SetPriceRequest) IsValid() error {
	if !ValidResource(r.Resource) {
		return fmt.Errorf("unknown resource %q", r.Resource)
	}
	if r.UnitsPerSet <= 0 {
		return fmt.Errorf("units_per_set must be positive")
	}
	if r.CoinsPerSet < 0 {
		return fmt.Errorf("coins_per_set must not be negative")
	}
	return nil
}
