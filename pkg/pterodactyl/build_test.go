package pterodactyl

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buildServerDetail = `{
	"object": "server",
	"attributes": {
		"id": 5,
		"allocation": 17,
		"limits": {"memory": 2048, "swap": 512, "disk": 10240, "io": 500, "cpu": 100},
		"feature_limits": {"databases": 2, "allocations": 1, "backups": 3},
		"relationships": {
			"allocations": {
				"object": "list",
				"data": [
					{"object": "allocation", "attributes": {"id": 17, "ip": "10.0.0.1", "port": 25565, "is_default": true}}
				]
			}
		}
	}
}`

func TestRequiresAllocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "panel detail mentions allocation",
			err:  &APIError{StatusCode: 422, Detail: "The allocation field is required."},
			want: true,
		},
		{
			name: "raw body mentions allocation",
			err:  &APIError{StatusCode: 422, Raw: `{"errors":[{"detail":"No default Allocation set"}]}`},
			want: true,
		},
		{
			name: "unrelated validation error",
			err:  &APIError{StatusCode: 422, Detail: "The memory field must be an integer."},
			want: false,
		},
		{
			name: "plain network error",
			err:  errors.New("connection refused, allocation unknown"),
			want: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, requiresAllocation(tt.err))
		})
	}
}

func TestUpdateBuild(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("preserves remote swap and io", func(t *testing.T) {
		t.Parallel()
		var patched buildRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.Write([]byte(buildServerDetail))
			case http.MethodPatch:
				body, _ := io.ReadAll(r.Body)
				require.NoError(t, json.Unmarshal(body, &patched))
				w.Write([]byte(buildServerDetail))
			}
		}))
		defer srv.Close()

		_, err := testClient(srv).UpdateBuild(ctx, 5, BuildUpdate{Memory: 4096, CPU: 100, Disk: 20480})
		require.NoError(t, err)
		assert.Equal(t, int64(4096), patched.Memory)
		assert.Equal(t, int64(512), patched.Swap)
		assert.Equal(t, int64(500), patched.IO)
		assert.Equal(t, 2, patched.FeatureLimits.Databases)
		assert.Zero(t, patched.Allocation)
	})

	t.Run("explicit swap overrides remote value", func(t *testing.T) {
		t.Parallel()
		var patched buildRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.Write([]byte(buildServerDetail))
			case http.MethodPatch:
				body, _ := io.ReadAll(r.Body)
				require.NoError(t, json.Unmarshal(body, &patched))
				w.Write([]byte(buildServerDetail))
			}
		}))
		defer srv.Close()

		swap := int64(0)
		_, err := testClient(srv).UpdateBuild(ctx, 5, BuildUpdate{Memory: 2048, CPU: 100, Disk: 10240, Swap: &swap})
		require.NoError(t, err)
		assert.Zero(t, patched.Swap)
	})

	t.Run("retries once with primary allocation", func(t *testing.T) {
		t.Parallel()
		var patches []buildRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.Write([]byte(buildServerDetail))
			case http.MethodPatch:
				body, _ := io.ReadAll(r.Body)
				var req buildRequest
				require.NoError(t, json.Unmarshal(body, &req))
				patches = append(patches, req)
				if req.Allocation == 0 {
					w.WriteHeader(http.StatusUnprocessableEntity)
					w.Write([]byte(`{"errors":[{"code":"ValidationException","status":"422","detail":"The allocation field is required."}]}`))
					return
				}
				w.Write([]byte(buildServerDetail))
			}
		}))
		defer srv.Close()

		_, err := testClient(srv).UpdateBuild(ctx, 5, BuildUpdate{Memory: 4096, CPU: 100, Disk: 20480})
		require.NoError(t, err)
		require.Len(t, patches, 2)
		assert.Zero(t, patches[0].Allocation)
		assert.Equal(t, int64(17), patches[1].Allocation)
	})

	t.Run("unrelated error is not retried", func(t *testing.T) {
		t.Parallel()
		var patchCount int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.Write([]byte(buildServerDetail))
			case http.MethodPatch:
				patchCount++
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"errors":[{"code":"ValidationException","status":"422","detail":"The memory field must be an integer."}]}`))
			}
		}))
		defer srv.Close()

		_, err := testClient(srv).UpdateBuild(ctx, 5, BuildUpdate{Memory: 4096, CPU: 100, Disk: 20480})
		require.Error(t, err)
		assert.Equal(t, 1, patchCount)
	})
}
