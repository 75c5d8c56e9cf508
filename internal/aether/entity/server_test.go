package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateServerRequestIsValid(t *testing.T) {
	t.Parallel()

	valid := CreateServerRequest{Name: "My Server_01", EggID: 1, RAM: 2048, CPU: 100, Storage: 10240}

	tests := []struct {
		name    string
		mutate  func(r *CreateServerRequest)
		wantErr string
	}{
		{name: "valid request", mutate: func(r *CreateServerRequest) {}},
		{
			name:    "empty name",
			mutate:  func(r *CreateServerRequest) { r.Name = "   " },
			wantErr: "name is required",
		},
		{
			name:    "name too long",
			mutate:  func(r *CreateServerRequest) { r.Name = strings.Repeat("a", 51) },
			wantErr: "at most 50",
		},
		{
			name:    "name with forbidden characters",
			mutate:  func(r *CreateServerRequest) { r.Name = "srv;drop table" },
			wantErr: "may only contain",
		},
		{
			name:    "ram below minimum",
			mutate:  func(r *CreateServerRequest) { r.RAM = 512 },
			wantErr: "ram must be at least",
		},
		{
			name:    "cpu below minimum",
			mutate:  func(r *CreateServerRequest) { r.CPU = 50 },
			wantErr: "cpu must be at least",
		},
		{
			name:    "storage below minimum",
			mutate:  func(r *CreateServerRequest) { r.Storage = 1024 },
			wantErr: "storage must be at least",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := valid
			tt.mutate(&req)
			err := req.IsValid()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPurchaseRequestIsValid(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&PurchaseRequest{Resource: ResourceRAM, Amount: 1024}).IsValid())
	assert.Error(t, (&PurchaseRequest{Resource: "bandwidth", Amount: 10}).IsValid())
	assert.Error(t, (&PurchaseRequest{Resource: ResourceCPU, Amount: 0}).IsValid())

	// 槽位一次只能买一个
	assert.NoError(t, (&PurchaseRequest{Resource: ResourceSlots, Amount: 1}).IsValid())
	assert.ErrorContains(t, (&PurchaseRequest{Resource: ResourceSlots, Amount: 2}).IsValid(), "one at a time")
}
