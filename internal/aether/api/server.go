package api

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/ginx"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ServerServiceInterface 服务器生命周期服务接口
type ServerServiceInterface interface {
	Create(ctx context.Context, userID string, req *entity.CreateServerRequest) (*entity.Server, error)
	List(ctx context.Context, userID string) (*entity.ServerListResponse, error)
	Get(ctx context.Context, userID string, serverID string) (*entity.Server, error)
	Delete(ctx context.Context, userID string, serverID string) error
	Resize(ctx context.Context, userID string, serverID string, req *entity.ResizeServerRequest) (*entity.Server, error)
}

// EggServiceInterface 服务器模板查询接口
type EggServiceInterface interface {
	Eggs(ctx context.Context) ([]*entity.EggTemplate, error)
}

// Servers 服务器相关的 API 处理器
type Servers struct {
	service ServerServiceInterface
	eggs    EggServiceInterface
}

func NewServers(service ServerServiceInterface, eggs EggServiceInterface) *Servers {
	return &Servers{service: service, eggs: eggs}
}

func (s *Servers) RegisterRoutes(router *gin.RouterGroup) {
	serverRouter := router.Group("/servers")
	serverRouter.POST("", ginx.Adapt5(s.Create))
	serverRouter.GET("", ginx.Adapt3(s.List))
	serverRouter.GET("/:id", ginx.Adapt3(s.Get))
	serverRouter.DELETE("/:id", ginx.Adapt1(s.Delete))
	serverRouter.PATCH("/:id/resize", ginx.Adapt5(s.Resize))

	router.GET("/eggs", ginx.Adapt3(s.Eggs))
}

func (s *Servers) Create(ctx *gin.Context, req *entity.CreateServerRequest) (*entity.Server, error) {
	server, err := s.service.Create(ctx, currentUserID(ctx), req)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("name", req.Name).Msg("create server failed")
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("server_id", server.ID).Msg("server created")
	return server, nil
}

func (s *Servers) List(ctx *gin.Context) (*entity.ServerListResponse, error) {
	return s.service.List(ctx, currentUserID(ctx))
}

func (s *Servers) Get(ctx *gin.Context) (*entity.Server, error) {
	return s.service.Get(ctx, currentUserID(ctx), ctx.Param("id"))
}

func (s *Servers) Delete(ctx *gin.Context) error {
	serverID := ctx.Param("id")
	if err := s.service.Delete(ctx, currentUserID(ctx), serverID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("server_id", serverID).Msg("delete server failed")
		return err
	}
	zerolog.Ctx(ctx).Info().Str("server_id", serverID).Msg("server deleted")
	return nil
}

func (s *Servers) Resize(ctx *gin.Context, req *entity.ResizeServerRequest) (*entity.Server, error) {
	server, err := s.service.Resize(ctx, currentUserID(ctx), ctx.Param("id"), req)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("server_id", ctx.Param("id")).Msg("resize server failed")
		return nil, err
	}
	return server, nil
}

func (s *Servers) Eggs(ctx *gin.Context) ([]*entity.EggTemplate, error) {
	return s.eggs.Eggs(ctx)
}
