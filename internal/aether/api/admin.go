package api

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/ginx"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminServiceInterface 管理后台服务接口
type AdminServiceInterface interface {
	Stats(ctx context.Context) (*entity.AdminStats, error)
	Users(ctx context.Context) ([]*entity.User, error)
	Servers(ctx context.Context) ([]*entity.Server, error)
	GrantCoins(ctx context.Context, req *entity.GrantCoinsRequest) error
	SuspendServer(ctx context.Context, serverID string) error
	UnsuspendServer(ctx context.Context, serverID string) error
	DeleteServer(ctx context.Context, serverID string) error
	DeleteUser(ctx context.Context, userID string) error
}

// PanelServiceInterface 面板连接与同步服务接口
type PanelServiceInterface interface {
	Status(ctx context.Context) (*entity.PanelStatus, error)
	Connect(ctx context.Context, req *entity.ConnectPanelRequest) (*entity.PanelStatus, error)
	Test(ctx context.Context, req *entity.ConnectPanelRequest) error
	Disconnect(ctx context.Context) error
	SyncEggs(ctx context.Context) (*entity.SyncResult, error)
	SyncAllocations(ctx context.Context) (*entity.SyncResult, error)
	SyncUsers(ctx context.Context) (*entity.SyncResult, error)
	Allocations(ctx context.Context) ([]*entity.PanelAllocation, error)
	SetAllocationPriority(ctx context.Context, req *entity.AllocationPriorityRequest) error
}

// PriceAdminServiceInterface 商店定价管理接口
type PriceAdminServiceInterface interface {
	SetPrice(ctx context.Context, req *entity.SetPriceRequest) error
}

// Admin 管理后台处理器
type Admin struct {
	service AdminServiceInterface
	panel   PanelServiceInterface
	prices  PriceAdminServiceInterface
}

func NewAdmin(service AdminServiceInterface, panel PanelServiceInterface, prices PriceAdminServiceInterface) *Admin {
	return &Admin{service: service, panel: panel, prices: prices}
}

func (a *Admin) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats", ginx.Adapt3(a.Stats))
	router.GET("/users", ginx.Adapt3(a.Users))
	router.GET("/servers", ginx.Adapt3(a.Servers))
	router.POST("/servers/:id/suspend", ginx.Adapt1(a.SuspendServer))
	router.POST("/servers/:id/unsuspend", ginx.Adapt1(a.UnsuspendServer))
	router.DELETE("/servers/:id", ginx.Adapt1(a.DeleteServer))
	router.POST("/users/:id/coins", ginx.Adapt4(a.GrantCoins))
	router.DELETE("/users/:id", ginx.Adapt1(a.DeleteUser))
	router.POST("/store/prices", ginx.Adapt4(a.SetPrice))

	panelRouter := router.Group("/panel")
	panelRouter.GET("", ginx.Adapt3(a.PanelStatus))
	panelRouter.POST("/connect", ginx.Adapt5(a.ConnectPanel))
	panelRouter.POST("/test", ginx.Adapt4(a.TestPanel))
	panelRouter.POST("/disconnect", ginx.Adapt1(a.DisconnectPanel))
	panelRouter.POST("/sync/eggs", ginx.Adapt3(a.SyncEggs))
	panelRouter.POST("/sync/allocations", ginx.Adapt3(a.SyncAllocations))
	panelRouter.POST("/sync/users", ginx.Adapt3(a.SyncUsers))
	panelRouter.GET("/allocations", ginx.Adapt3(a.Allocations))
	panelRouter.PATCH("/allocations/:id", ginx.Adapt4(a.SetAllocationPriority))
}

func (a *Admin) Stats(ctx *gin.Context) (*entity.AdminStats, error) {
	return a.service.Stats(ctx)
}

func (a *Admin) Users(ctx *gin.Context) ([]*entity.User, error) {
	return a.service.Users(ctx)
}

func (a *Admin) Servers(ctx *gin.Context) ([]*entity.Server, error) {
	return a.service.Servers(ctx)
}

func (a *Admin) SuspendServer(ctx *gin.Context) error {
	return a.service.SuspendServer(ctx, ctx.Param("id"))
}

func (a *Admin) UnsuspendServer(ctx *gin.Context) error {
	return a.service.UnsuspendServer(ctx, ctx.Param("id"))
}

func (a *Admin) DeleteServer(ctx *gin.Context) error {
	return a.service.DeleteServer(ctx, ctx.Param("id"))
}

func (a *Admin) DeleteUser(ctx *gin.Context) error {
	return a.service.DeleteUser(ctx, ctx.Param("id"))
}

func (a *Admin) GrantCoins(ctx *gin.Context, req *entity.GrantCoinsRequest) error {
	if err := a.service.GrantCoins(ctx, req); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().
		Str("user_id", req.UserID).
		Int64("coins", req.Coins).
		Msg("coins granted")
	return nil
}

func (a *Admin) SetPrice(ctx *gin.Context, req *entity.SetPriceRequest) error {
	return a.prices.SetPrice(ctx, req)
}

func (a *Admin) PanelStatus(ctx *gin.Context) (*entity.PanelStatus, error) {
	return a.panel.Status(ctx)
}

func (a *Admin) ConnectPanel(ctx *gin.Context, req *entity.ConnectPanelRequest) (*entity.PanelStatus, error) {
	status, err := a.panel.Connect(ctx, req)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("url", req.URL).Msg("panel connect failed")
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("url", status.URL).Msg("panel connected")
	return status, nil
}

func (a *Admin) TestPanel(ctx *gin.Context, req *entity.ConnectPanelRequest) error {
	return a.panel.Test(ctx, req)
}

func (a *Admin) DisconnectPanel(ctx *gin.Context) error {
	if err := a.panel.Disconnect(ctx); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Msg("panel disconnected")
	return nil
}

func (a *Admin) SyncEggs(ctx *gin.Context) (*entity.SyncResult, error) {
	return a.panel.SyncEggs(ctx)
}

func (a *Admin) SyncAllocations(ctx *gin.Context) (*entity.SyncResult, error) {
	return a.panel.SyncAllocations(ctx)
}

func (a *Admin) SyncUsers(ctx *gin.Context) (*entity.SyncResult, error) {
	return a.panel.SyncUsers(ctx)
}

func (a *Admin) Allocations(ctx *gin.Context) ([]*entity.PanelAllocation, error) {
	return a.panel.Allocations(ctx)
}

func (a *Admin) SetAllocationPriority(ctx *gin.Context, req *entity.AllocationPriorityRequest) error {
	return a.panel.SetAllocationPriority(ctx, req)
}
