package pterodactyl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(NewResolver(nil, srv.URL, "ptla_test_key"))
}

func TestClientCall(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("sends bearer token and accept header", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer ptla_test_key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "/api/application/servers/5", r.URL.Path)
			w.Write([]byte(`{"object":"server","attributes":{"id":5}}`))
		}))
		defer srv.Close()

		raw, err := testClient(srv).Call(ctx, http.MethodGet, "/servers/5", nil)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"id":5`)
	})

	t.Run("non 2xx becomes APIError with panel detail", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"errors":[{"code":"ValidationException","status":"422","detail":"The name field is required."}]}`))
		}))
		defer srv.Close()

		_, err := testClient(srv).Call(ctx, http.MethodPost, "/servers", map[string]string{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
		assert.Equal(t, "The name field is required.", apiErr.Detail)
		assert.Equal(t, []string{"The name field is required."}, apiErr.Details())
	})

	t.Run("non json error body keeps raw text", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream timeout"))
		}))
		defer srv.Close()

		_, err := testClient(srv).Call(ctx, http.MethodGet, "/servers", nil)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "upstream timeout", apiErr.Raw)
		assert.Empty(t, apiErr.Detail)
	})

	t.Run("unconfigured resolver short circuits", func(t *testing.T) {
		t.Parallel()
		c := NewClient(NewResolver(nil, "", ""))
		_, err := c.Call(ctx, http.MethodGet, "/servers", nil)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestTestConnection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid key", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/application/users", r.URL.Path)
			w.Write([]byte(`{"object":"list","data":[]}`))
		}))
		defer srv.Close()

		c := NewClient(NewResolver(nil, "", ""))
		assert.NoError(t, c.TestConnection(ctx, srv.URL, "ptla_good"))
	})

	t.Run("rejected key", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":[{"code":"AuthenticationException","status":"401","detail":"bad key"}]}`))
		}))
		defer srv.Close()

		c := NewClient(NewResolver(nil, "", ""))
		err := c.TestConnection(ctx, srv.URL, "ptla_bad")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rejected the API key")
	})

	t.Run("wrong path", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClient(NewResolver(nil, "", ""))
		err := c.TestConnection(ctx, srv.URL, "ptla_key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "application API")
	})

	t.Run("unreachable host", func(t *testing.T) {
		t.Parallel()
		c := NewClient(NewResolver(nil, "", ""))
		err := c.TestConnection(ctx, "http://127.0.0.1:1", "ptla_key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unreachable")
	})
}
