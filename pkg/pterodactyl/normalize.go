package pterodactyl

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoAllocationData 响应里没有任何可用的分配信息
var ErrNoAllocationData = errors.New("pterodactyl: no allocation data in response")

// decodeAllocationList 解包 JSON-API 列表里的分配条目
// 单条解析失败直接跳过，不让一条脏数据毁掉整个列表
func decodeAllocationList(data []json.RawMessage) []AllocationAttributes {
	out := make([]AllocationAttributes, 0, len(data))
	for _, raw := range data {
		var env attributesEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}
		var attrs AllocationAttributes
		if err := json.Unmarshal(env.Attributes, &attrs); err != nil {
			continue
		}
		out = append(out, attrs)
	}
	return out
}

// Allocations 收集响应里全部的分配条目
// 依次检查 attributes.relationships、顶层 relationships、顶层 included，
// 取第一个非空的来源，不做合并
func (p *ServerPayload) Allocations() []AllocationAttributes {
	if rel := p.Attributes.Relationships; rel != nil && rel.Allocations != nil && len(rel.Allocations.Data) > 0 {
		if list := decodeAllocationList(rel.Allocations.Data); len(list) > 0 {
			return list
		}
	}
	if rel := p.Relationships; rel != nil && rel.Allocations != nil && len(rel.Allocations.Data) > 0 {
		if list := decodeAllocationList(rel.Allocations.Data); len(list) > 0 {
			return list
		}
	}
	if len(p.Included) > 0 {
		out := make([]AllocationAttributes, 0, len(p.Included))
		for _, inc := range p.Included {
			if inc.Type != "allocation" && inc.Object != "allocation" {
				continue
			}
			var attrs AllocationAttributes
			if err := json.Unmarshal(inc.Attributes, &attrs); err != nil {
				continue
			}
			out = append(out, attrs)
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// PublicAddress 提取服务器的对外连接地址
// 优先取标记为默认的分配，没有默认标记就取第一条
// 什么都提取不到时返回空字符串，调用方把空串当 "暂不可知" 处理
func (p *ServerPayload) PublicAddress() string {
	list := p.Allocations()
	if len(list) == 0 {
		return ""
	}
	pick := list[0]
	for _, a := range list {
		if a.IsDefault.Bool() {
			pick = a
			break
		}
	}
	return pick.Address()
}

// PrimaryAllocation 解析服务器的主分配
// attributes.allocation 是主分配 ID 的权威来源，
// is_default 标志只在 ID 缺失时作为兜底
// ID 存在但在关联数据里找不到对应条目视为面板数据不一致
func (p *ServerPayload) PrimaryAllocation() (*PrimaryAllocation, error) {
	list := p.Allocations()
	if len(list) == 0 {
		return nil, ErrNoAllocationData
	}

	want := p.Attributes.Allocation.Int64()
	if want == 0 {
		for _, a := range list {
			if a.IsDefault.Bool() {
				return primaryFrom(a), nil
			}
		}
		return nil, ErrNoAllocationData
	}

	for _, a := range list {
		if a.ID.Int64() == want {
			return primaryFrom(a), nil
		}
	}
	return nil, fmt.Errorf("pterodactyl: allocation %d referenced by server %d not present in response", want, p.Attributes.ID.Int64())
}

func primaryFrom(a AllocationAttributes) *PrimaryAllocation {
	return &PrimaryAllocation{
		ID:    a.ID.Int64(),
		Alias: a.IPAlias,
		IP:    a.IP,
		Port:  a.Port,
	}
}
