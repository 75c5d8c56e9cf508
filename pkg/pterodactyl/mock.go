package pterodactyl

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAPI API 接口的 testify mock，测试专用
type MockAPI struct {
	mock.Mock
}

var _ API = (*MockAPI)(nil)

func (m *MockAPI) IsConfigured(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockAPI) TestConnection(ctx context.Context, rawURL string, apiKey string) error {
	args := m.Called(ctx, rawURL, apiKey)
	return args.Error(0)
}

func (m *MockAPI) ServerDetails(ctx context.Context, serverID int64) (*ServerPayload, error) {
	args := m.Called(ctx, serverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ServerPayload), args.Error(1)
}

func (m *MockAPI) ListServers(ctx context.Context) ([]ServerAttributes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ServerAttributes), args.Error(1)
}

func (m *MockAPI) CreateServer(ctx context.Context, req *CreateServerRequest) (*ServerPayload, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ServerPayload), args.Error(1)
}

func (m *MockAPI) DeleteServer(ctx context.Context, serverID int64) error {
	args := m.Called(ctx, serverID)
	return args.Error(0)
}

func (m *MockAPI) SuspendServer(ctx context.Context, serverID int64) error {
	args := m.Called(ctx, serverID)
	return args.Error(0)
}

func (m *MockAPI) UnsuspendServer(ctx context.Context, serverID int64) error {
	args := m.Called(ctx, serverID)
	return args.Error(0)
}

func (m *MockAPI) UpdateBuild(ctx context.Context, serverID int64, update BuildUpdate) (*ServerPayload, error) {
	args := m.Called(ctx, serverID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ServerPayload), args.Error(1)
}

func (m *MockAPI) ServerPrimaryAllocation(ctx context.Context, serverID int64) (*PrimaryAllocation, error) {
	args := m.Called(ctx, serverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PrimaryAllocation), args.Error(1)
}

func (m *MockAPI) ListUsers(ctx context.Context) ([]UserAttributes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]UserAttributes), args.Error(1)
}

func (m *MockAPI) UserByEmail(ctx context.Context, email string) (*UserAttributes, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserAttributes), args.Error(1)
}

func (m *MockAPI) CreateUser(ctx context.Context, req *CreateUserRequest) (*UserAttributes, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserAttributes), args.Error(1)
}

func (m *MockAPI) ListNests(ctx context.Context) ([]NestAttributes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]NestAttributes), args.Error(1)
}

func (m *MockAPI) EggsForNest(ctx context.Context, nestID int64) ([]Egg, error) {
	args := m.Called(ctx, nestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Egg), args.Error(1)
}

func (m *MockAPI) AllEggs(ctx context.Context) ([]Egg, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Egg), args.Error(1)
}

func (m *MockAPI) ListLocations(ctx context.Context) ([]LocationAttributes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LocationAttributes), args.Error(1)
}

func (m *MockAPI) ListNodes(ctx context.Context) ([]NodeAttributes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]NodeAttributes), args.Error(1)
}

func (m *MockAPI) NodeAllocations(ctx context.Context, nodeID int64) ([]AllocationAttributes, error) {
	args := m.Called(ctx, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AllocationAttributes), args.Error(1)
}

func (m *MockAPI) AllAllocations(ctx context.Context) ([]NodeAllocation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]NodeAllocation), args.Error(1)
}
