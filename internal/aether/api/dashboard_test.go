package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSummaryService 是 SummaryServiceInterface 的 mock 实现
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Summary(ctx context.Context, userID string) (*entity.ResourceSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ResourceSummary), args.Error(1)
}

func TestDashboard_Overview(t *testing.T) {
	t.Parallel()

	mockLedger := new(MockSummaryService)
	mockLedger.On("Summary", mock.Anything, "usr-1").Return(&entity.ResourceSummary{
		Coins: 120,
		RAM:   entity.ResourceLine{Total: 8192, Used: 2048, Available: 6144},
		Slots: entity.ResourceLine{Total: 3, Used: 1, Available: 2},
	}, nil)

	mockServers := new(MockServerService)
	mockServers.On("List", mock.Anything, "usr-1").Return(&entity.ServerListResponse{
		Servers: []*entity.Server{{ID: "srv-1", Name: "lobby"}},
	}, nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api")
	group.Use(asUser("usr-1"))
	NewDashboard(mockLedger, mockServers).RegisterRoutes(group)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var got entity.DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.Summary)
	assert.Equal(t, int64(120), got.Summary.Coins)
	assert.Len(t, got.Servers, 1)
	mockLedger.AssertExpectations(t)
	mockServers.AssertExpectations(t)
}
