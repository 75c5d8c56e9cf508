package pterodactyl

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// 面板的 Application API 返回 JSON-API 风格的响应：
// 资源带 object/attributes 包装，关联数据出现在 attributes.relationships
// 或顶层 relationships 中，部分端点还会通过顶层 included 侧载完整对象。
// 这些响应不受本系统版本控制，必须防御性解析。

// FlexID 数字或字符串形式的资源 ID
// 面板在不同响应里对同一 ID 会给出 5 或 "5"，统一按 int64 处理
// 零值表示 ID 缺失
type FlexID int64

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("pterodactyl: invalid id %q: %w", s, err)
	}
	*f = FlexID(n)
	return nil
}

// Int64 返回 int64 形式的 ID
func (f FlexID) Int64() int64 { return int64(f) }

// FlexBool 布尔或整数形式的标志位
// 面板对 is_default 会给出 true 或 1，统一按 bool 处理
type FlexBool bool

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexBool) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch s {
	case "true", "1":
		*f = true
	case "false", "0", "null":
		*f = false
	default:
		return fmt.Errorf("pterodactyl: invalid bool %q", s)
	}
	return nil
}

// Bool 返回 bool 值
func (f FlexBool) Bool() bool { return bool(f) }

// Limits 服务器的资源限制
type Limits struct {
	Memory int64 `json:"memory"`
	Swap   int64 `json:"swap"`
	Disk   int64 `json:"disk"`
	IO     int64 `json:"io"`
	CPU    int64 `json:"cpu"`
}

// FeatureLimits 服务器的功能限制
type FeatureLimits struct {
	Databases   int `json:"databases"`
	Allocations int `json:"allocations"`
	Backups     int `json:"backups"`
}

// AllocationAttributes 分配（IP:端口对）属性
type AllocationAttributes struct {
	ID        FlexID   `json:"id"`
	IP        string   `json:"ip"`
	IPAlias   string   `json:"ip_alias"`
	Port      int      `json:"port"`
	Assigned  bool     `json:"assigned"`
	IsDefault FlexBool `json:"is_default"`
}

// Address 组合出对外地址：优先 alias:port，其次 ip:port
// 端口缺失时返回空字符串
func (a AllocationAttributes) Address() string {
	if a.Port == 0 {
		return ""
	}
	host := a.IPAlias
	if host == "" {
		host = a.IP
	}
	if host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", host, a.Port)
}

// ServerAttributes 服务器属性
// Allocation 字段是主分配 ID 的权威来源，
// 与关联数据里的 is_default 标志是两回事
type ServerAttributes struct {
	ID            FlexID        `json:"id"`
	ExternalID    string        `json:"external_id"`
	UUID          string        `json:"uuid"`
	Identifier    string        `json:"identifier"`
	Name          string        `json:"name"`
	Suspended     bool          `json:"suspended"`
	Allocation    FlexID        `json:"allocation"`
	User          FlexID        `json:"user"`
	Egg           FlexID        `json:"egg"`
	Limits        Limits        `json:"limits"`
	FeatureLimits FeatureLimits `json:"feature_limits"`
	Relationships *Relationships `json:"relationships,omitempty"`
}

// Relationships JSON-API 关联数据容器
type Relationships struct {
	Allocations *ResourceList `json:"allocations,omitempty"`
}

// ResourceList JSON-API 列表容器
type ResourceList struct {
	Object string            `json:"object"`
	Data   []json.RawMessage `json:"data"`
}

// IncludedResource 顶层 included 中侧载的完整对象
type IncludedResource struct {
	Type       string          `json:"type"`
	Object     string          `json:"object"`
	ID         FlexID          `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

// ServerPayload 服务器资源响应
// 同一个服务器在不同端点下会以不同形态出现：
// 关联数据可能在 attributes.relationships，也可能在顶层 relationships，
// 还可能只通过顶层 included 侧载
type ServerPayload struct {
	Object        string             `json:"object"`
	Attributes    ServerAttributes   `json:"attributes"`
	Relationships *Relationships     `json:"relationships,omitempty"`
	Included      []IncludedResource `json:"included,omitempty"`
}

// UserAttributes 面板用户属性
type UserAttributes struct {
	ID        FlexID `json:"id"`
	UUID      string `json:"uuid"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	RootAdmin bool   `json:"root_admin"`
}

// NestAttributes 面板 Nest（服务器模板分组）属性
type NestAttributes struct {
	ID          FlexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EggVariable Egg 模板的环境变量定义
type EggVariable struct {
	Name         string `json:"name"`
	EnvVariable  string `json:"env_variable"`
	DefaultValue string `json:"default_value"`
}

// EggAttributes Egg（服务器模板）属性
type EggAttributes struct {
	ID          FlexID `json:"id"`
	Nest        FlexID `json:"nest"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DockerImage string `json:"docker_image"`
	Startup     string `json:"startup"`
}

// Egg Egg 模板及其变量列表
type Egg struct {
	EggAttributes
	NestID    int64         `json:"nest_id"`
	NestName  string        `json:"nest_name"`
	Variables []EggVariable `json:"variables"`
}

// LocationAttributes 面板 Location 属性
type LocationAttributes struct {
	ID        FlexID `json:"id"`
	Short     string `json:"short"`
	Long      string `json:"long"`
	ShortCode string `json:"short_code"`
}

// NodeAttributes 面板 Node 属性
type NodeAttributes struct {
	ID       FlexID `json:"id"`
	Name     string `json:"name"`
	FQDN     string `json:"fqdn"`
	Memory   int64  `json:"memory"`
	Disk     int64  `json:"disk"`
	Location FlexID `json:"location_id"`
}

// NodeAllocation 某个 Node 下的一个未分配的 Allocation
type NodeAllocation struct {
	AllocationAttributes
	NodeID   int64  `json:"node_id"`
	NodeName string `json:"node_name"`
}

// PrimaryAllocation 服务器的主分配
type PrimaryAllocation struct {
	ID    int64  `json:"id"`
	Alias string `json:"alias"`
	IP    string `json:"ip"`
	Port  int    `json:"port"`
}

// AllocationSelect 创建服务器时指定的默认分配
type AllocationSelect struct {
	Default int64 `json:"default"`
}

// Deploy 创建服务器时的部署约束
type Deploy struct {
	Locations   []int64  `json:"locations"`
	DedicatedIP bool     `json:"dedicated_ip"`
	PortRange   []string `json:"port_range"`
}

// CreateServerRequest 创建服务器请求
type CreateServerRequest struct {
	Name          string            `json:"name"`
	User          int64             `json:"user"`
	Egg           int64             `json:"egg"`
	DockerImage   string            `json:"docker_image"`
	Startup       string            `json:"startup"`
	Environment   map[string]string `json:"environment"`
	Limits        Limits            `json:"limits"`
	FeatureLimits FeatureLimits     `json:"feature_limits"`
	Allocation    *AllocationSelect `json:"allocation,omitempty"`
	Deploy        *Deploy           `json:"deploy,omitempty"`
}

// CreateUserRequest 创建面板用户请求
type CreateUserRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password,omitempty"`
}

// BuildUpdate 更新服务器构建配置（扩缩容）的输入
// Memory / CPU / Disk 必填；Swap / IO 为 nil 时保留远端当前值，
// 绝不把远端已有的值降级成硬编码默认值
type BuildUpdate struct {
	Memory int64
	CPU    int64
	Disk   int64
	Swap   *int64
	IO     *int64
}

// listEnvelope 列表响应信封
type listEnvelope struct {
	Object string            `json:"object"`
	Data   []json.RawMessage `json:"data"`
}

// attributesEnvelope 单资源响应信封
type attributesEnvelope struct {
	Object     string          `json:"object"`
	Attributes json.RawMessage `json:"attributes"`
}
