package pterodactyl

import "context"

// API 面板客户端的能力集合
// 上层业务依赖这个接口而不是具体 Client，方便在测试里替换成 mock
type API interface {
	IsConfigured(ctx context.Context) bool
	TestConnection(ctx context.Context, rawURL string, apiKey string) error

	ServerDetails(ctx context.Context, serverID int64) (*ServerPayload, error)
	ListServers(ctx context.Context) ([]ServerAttributes, error)
	CreateServer(ctx context.Context, req *CreateServerRequest) (*ServerPayload, error)
	DeleteServer(ctx context.Context, serverID int64) error
	SuspendServer(ctx context.Context, serverID int64) error
	UnsuspendServer(ctx context.Context, serverID int64) error
	UpdateBuild(ctx context.Context, serverID int64, update BuildUpdate) (*ServerPayload, error)
	ServerPrimaryAllocation(ctx context.Context, serverID int64) (*PrimaryAllocation, error)

	ListUsers(ctx context.Context) ([]UserAttributes, error)
	UserByEmail(ctx context.Context, email string) (*UserAttributes, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*UserAttributes, error)

	ListNests(ctx context.Context) ([]NestAttributes, error)
	EggsForNest(ctx context.Context, nestID int64) ([]Egg, error)
	AllEggs(ctx context.Context) ([]Egg, error)

	ListLocations(ctx context.Context) ([]LocationAttributes, error)
	ListNodes(ctx context.Context) ([]NodeAttributes, error)
	NodeAllocations(ctx context.Context, nodeID int64) ([]AllocationAttributes, error)
	AllAllocations(ctx context.Context) ([]NodeAllocation, error)
}

var _ API = (*Client)(nil)
