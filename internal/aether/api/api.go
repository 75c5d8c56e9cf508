// Package api 提供 HTTP 接口层
package api

import (
	"context"
	"net/http"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/service"
	"github.com/gin-gonic/gin"
)

type API struct {
	engine *gin.Engine
	server *http.Server

	auth      *Auth
	dashboard *Dashboard
	servers   *Servers
	store     *Store
	rewards   *Rewards
	admin     *Admin
}

func New(
	addr string,
	authService *service.AuthService,
	ledgerService *service.LedgerService,
	serverService *service.ServerService,
	panelService *service.PanelService,
	rewardService *service.RewardService,
	adminService *service.AdminService,
) (*API, error) {
	engine := gin.Default()
	api := &API{
		engine:    engine,
		auth:      NewAuth(authService),
		dashboard: NewDashboard(ledgerService, serverService),
		servers:   NewServers(serverService, panelService),
		store:     NewStore(ledgerService),
		rewards:   NewRewards(rewardService),
		admin:     NewAdmin(adminService, panelService, ledgerService),
	}

	root := engine.Group("/api")
	api.auth.RegisterRoutes(root)

	authed := root.Group("")
	authed.Use(RequireAuth(authService))
	api.dashboard.RegisterRoutes(authed)
	api.servers.RegisterRoutes(authed)
	api.store.RegisterRoutes(authed)
	api.rewards.RegisterRoutes(authed)

	adminGroup := authed.Group("/admin")
	adminGroup.Use(RequireAdmin())
	api.admin.RegisterRoutes(adminGroup)

	api.server = &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	return api, nil
}

// Engine 返回底层 gin 引擎，测试用
func (a *API) Engine() *gin.Engine {
	return a.engine
}

func (a *API) Run(ctx context.Context) error {
	return a.server.ListenAndServe()
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Name 实现 grace.Grace 接口
func (a *API) Name() string {
	return "API Server"
}
