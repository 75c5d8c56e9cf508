package pterodactyl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// buildRequest PATCH /servers/{id}/build 的请求体
// 面板要求限制字段平铺在顶层
type buildRequest struct {
	Allocation    int64         `json:"allocation,omitempty"`
	Memory        int64         `json:"memory"`
	Swap          int64         `json:"swap"`
	Disk          int64         `json:"disk"`
	IO            int64         `json:"io"`
	CPU           int64         `json:"cpu"`
	FeatureLimits FeatureLimits `json:"feature_limits"`
}

// requiresAllocation 判断构建更新失败是否因为缺少分配字段
// 面板不同版本对这个校验错误没有稳定的错误码，只能按错误文本匹配，
// 这是一个启发式判断，集中放在这里方便面板升级后调整
func requiresAllocation(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if strings.Contains(strings.ToLower(apiErr.Detail), "allocation") {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Raw), "allocation")
}

// UpdateBuild 更新服务器的资源限制（扩缩容）
// 先拉取远端当前配置，未指定的字段沿用远端值，不会降级成默认值
// 第一次提交不带分配字段，面板校验要求分配时带上主分配 ID 重试一次
func (c *Client) UpdateBuild(ctx context.Context, serverID int64, update BuildUpdate) (*ServerPayload, error) {
	current, err := c.ServerDetails(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("fetch current build: %w", err)
	}

	req := buildRequest{
		Memory:        update.Memory,
		CPU:           update.CPU,
		Disk:          update.Disk,
		Swap:          current.Attributes.Limits.Swap,
		IO:            current.Attributes.Limits.IO,
		FeatureLimits: current.Attributes.FeatureLimits,
	}
	if update.Swap != nil {
		req.Swap = *update.Swap
	}
	if update.IO != nil {
		req.IO = *update.IO
	}

	path := fmt.Sprintf("/servers/%d/build", serverID)
	raw, err := c.Call(ctx, http.MethodPatch, path, req)
	if err != nil && requiresAllocation(err) {
		alloc := current.Attributes.Allocation.Int64()
		if alloc == 0 {
			if primary, perr := current.PrimaryAllocation(); perr == nil {
				alloc = primary.ID
			}
		}
		if alloc == 0 {
			return nil, fmt.Errorf("panel requires an allocation but server %d has none: %w", serverID, err)
		}
		zerolog.Ctx(ctx).Info().
			Int64("server_id", serverID).
			Int64("allocation_id", alloc).
			Msg("build update rejected without allocation, retrying with primary allocation")
		req.Allocation = alloc
		raw, err = c.Call(ctx, http.MethodPatch, path, req)
	}
	if err != nil {
		return nil, err
	}

	var payload ServerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode updated server: %w", err)
	}
	return &payload, nil
}
