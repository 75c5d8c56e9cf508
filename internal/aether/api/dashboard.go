package api

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/ginx"
	"github.com/gin-gonic/gin"
)

// SummaryServiceInterface 资源总览服务接口
type SummaryServiceInterface interface {
	Summary(ctx context.Context, userID string) (*entity.ResourceSummary, error)
}

// ServerListServiceInterface 服务器列表服务接口
type ServerListServiceInterface interface {
	List(ctx context.Context, userID string) (*entity.ServerListResponse, error)
}

// Dashboard 仪表盘首页处理器
type Dashboard struct {
	ledger  SummaryServiceInterface
	servers ServerListServiceInterface
}

func NewDashboard(ledger SummaryServiceInterface, servers ServerListServiceInterface) *Dashboard {
	return &Dashboard{ledger: ledger, servers: servers}
}

func (d *Dashboard) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", ginx.Adapt3(d.Overview))
}

func (d *Dashboard) Overview(ctx *gin.Context) (*entity.DashboardResponse, error) {
	userID := currentUserID(ctx)
	summary, err := d.ledger.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	servers, err := d.servers.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &entity.DashboardResponse{
		Summary: summary,
		Servers: servers.Servers,
	}, nil
}
