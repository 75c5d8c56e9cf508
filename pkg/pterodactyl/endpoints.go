package pterodactyl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// 列表端点统一一次拉满，面板默认分页 50 条太小
const listPageSize = 500

// decodeAttributesList 解包列表响应的每条 attributes
func decodeAttributesList[T any](raw json.RawMessage) ([]T, error) {
	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode list envelope: %w", err)
	}
	out := make([]T, 0, len(env.Data))
	for _, item := range env.Data {
		var inner attributesEnvelope
		if err := json.Unmarshal(item, &inner); err != nil {
			return nil, fmt.Errorf("decode list item: %w", err)
		}
		var attrs T
		if err := json.Unmarshal(inner.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("decode attributes: %w", err)
		}
		out = append(out, attrs)
	}
	return out, nil
}

// ServerDetails 拉取服务器详情，带分配关联数据
func (c *Client) ServerDetails(ctx context.Context, serverID int64) (*ServerPayload, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/servers/%d?include=allocations", serverID), nil)
	if err != nil {
		return nil, err
	}
	var payload ServerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode server: %w", err)
	}
	return &payload, nil
}

// ListServers 拉取全部服务器
func (c *Client) ListServers(ctx context.Context) ([]ServerAttributes, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/servers?per_page=%d", listPageSize), nil)
	if err != nil {
		return nil, err
	}
	return decodeAttributesList[ServerAttributes](raw)
}

// CreateServer 在面板上创建服务器
func (c *Client) CreateServer(ctx context.Context, req *CreateServerRequest) (*ServerPayload, error) {
	raw, err := c.Call(ctx, http.MethodPost, "/servers", req)
	if err != nil {
		return nil, err
	}
	var payload ServerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode created server: %w", err)
	}
	return &payload, nil
}

// DeleteServer 删除面板上的服务器
func (c *Client) DeleteServer(ctx context.Context, serverID int64) error {
	_, err := c.Call(ctx, http.MethodDelete, fmt.Sprintf("/servers/%d", serverID), nil)
	return err
}

// SuspendServer 挂起服务器
func (c *Client) SuspendServer(ctx context.Context, serverID int64) error {
	_, err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/servers/%d/suspend", serverID), nil)
	return err
}

// UnsuspendServer 解除挂起
func (c *Client) UnsuspendServer(ctx context.Context, serverID int64) error {
	_, err := c.Call(ctx, http.MethodPost, fmt.Sprintf("/servers/%d/unsuspend", serverID), nil)
	return err
}

// ServerPrimaryAllocation 拉取服务器详情并解析主分配
func (c *Client) ServerPrimaryAllocation(ctx context.Context, serverID int64) (*PrimaryAllocation, error) {
	payload, err := c.ServerDetails(ctx, serverID)
	if err != nil {
		return nil, err
	}
	return payload.PrimaryAllocation()
}

// ListUsers 拉取全部面板用户
func (c *Client) ListUsers(ctx context.Context) ([]UserAttributes, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/users?per_page=%d", listPageSize), nil)
	if err != nil {
		return nil, err
	}
	return decodeAttributesList[UserAttributes](raw)
}

// UserByEmail 按邮箱精确查找面板用户
// 找不到时返回 (nil, nil)
func (c *Client) UserByEmail(ctx context.Context, email string) (*UserAttributes, error) {
	raw, err := c.Call(ctx, http.MethodGet, "/users?filter%5Bemail%5D="+url.QueryEscape(email), nil)
	if err != nil {
		return nil, err
	}
	users, err := decodeAttributesList[UserAttributes](raw)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

// CreateUser 创建面板用户
func (c *Client) CreateUser(ctx context.Context, req *CreateUserRequest) (*UserAttributes, error) {
	raw, err := c.Call(ctx, http.MethodPost, "/users", req)
	if err != nil {
		return nil, err
	}
	var env attributesEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode created user: %w", err)
	}
	var attrs UserAttributes
	if err := json.Unmarshal(env.Attributes, &attrs); err != nil {
		return nil, fmt.Errorf("decode user attributes: %w", err)
	}
	return &attrs, nil
}

// ListNests 拉取全部 Nest
func (c *Client) ListNests(ctx context.Context) ([]NestAttributes, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/nests?per_page=%d", listPageSize), nil)
	if err != nil {
		return nil, err
	}
	return decodeAttributesList[NestAttributes](raw)
}

// EggsForNest 拉取某个 Nest 下的 Egg 模板及其变量
func (c *Client) EggsForNest(ctx context.Context, nestID int64) ([]Egg, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/nests/%d/eggs?include=variables", nestID), nil)
	if err != nil {
		return nil, err
	}
	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode egg list: %w", err)
	}
	out := make([]Egg, 0, len(env.Data))
	for _, item := range env.Data {
		egg, err := decodeEgg(item)
		if err != nil {
			return nil, err
		}
		out = append(out, egg)
	}
	return out, nil
}

// decodeEgg 解包单个 Egg 及其侧载的变量列表
func decodeEgg(raw json.RawMessage) (Egg, error) {
	var env struct {
		Attributes struct {
			EggAttributes
			Relationships struct {
				Variables struct {
					Data []json.RawMessage `json:"data"`
				} `json:"variables"`
			} `json:"relationships"`
		} `json:"attributes"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Egg{}, fmt.Errorf("decode egg: %w", err)
	}
	egg := Egg{EggAttributes: env.Attributes.EggAttributes}
	egg.NestID = env.Attributes.Nest.Int64()
	for _, v := range env.Attributes.Relationships.Variables.Data {
		var inner attributesEnvelope
		if err := json.Unmarshal(v, &inner); err != nil {
			continue
		}
		var variable EggVariable
		if err := json.Unmarshal(inner.Attributes, &variable); err != nil {
			continue
		}
		egg.Variables = append(egg.Variables, variable)
	}
	return egg, nil
}

// AllEggs 遍历全部 Nest 拉取所有 Egg 模板
func (c *Client) AllEggs(ctx context.Context) ([]Egg, error) {
	nests, err := c.ListNests(ctx)
	if err != nil {
		return nil, err
	}
	var out []Egg
	for _, nest := range nests {
		eggs, err := c.EggsForNest(ctx, nest.ID.Int64())
		if err != nil {
			return nil, err
		}
		for i := range eggs {
			eggs[i].NestName = nest.Name
		}
		out = append(out, eggs...)
	}
	return out, nil
}

// ListLocations 拉取全部 Location
func (c *Client) ListLocations(ctx context.Context) ([]LocationAttributes, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/locations?per_page=%d", listPageSize), nil)
	if err != nil {
		return nil, err
	}
	return decodeAttributesList[LocationAttributes](raw)
}

// ListNodes 拉取全部 Node
func (c *Client) ListNodes(ctx context.Context) ([]NodeAttributes, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/nodes?per_page=%d", listPageSize), nil)
	if err != nil {
		return nil, err
	}
	return decodeAttributesList[NodeAttributes](raw)
}

// NodeAllocations 拉取某个 Node 下未被占用的分配
func (c *Client) NodeAllocations(ctx context.Context, nodeID int64) ([]AllocationAttributes, error) {
	raw, err := c.Call(ctx, http.MethodGet, fmt.Sprintf("/nodes/%d/allocations?per_page=%d", nodeID, listPageSize), nil)
	if err != nil {
		return nil, err
	}
	all, err := decodeAttributesList[AllocationAttributes](raw)
	if err != nil {
		return nil, err
	}
	out := make([]AllocationAttributes, 0, len(all))
	for _, a := range all {
		if !a.Assigned {
			out = append(out, a)
		}
	}
	return out, nil
}

// AllAllocations 遍历全部 Node 拉取所有未占用的分配
func (c *Client) AllAllocations(ctx context.Context) ([]NodeAllocation, error) {
	nodes, err := c.ListNodes(ctx)
	if err != nil {
		return nil, err
	}
	var out []NodeAllocation
	for _, node := range nodes {
		allocs, err := c.NodeAllocations(ctx, node.ID.Int64())
		if err != nil {
			return nil, err
		}
		for _, a := range allocs {
			out = append(out, NodeAllocation{
				AllocationAttributes: a,
				NodeID:               node.ID.Int64(),
				NodeName:             node.Name,
			})
		}
	}
	return out, nil
}
