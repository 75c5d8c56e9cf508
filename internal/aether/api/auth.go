package api

import (
	"context"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/ginx"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthServiceInterface 认证服务接口
type AuthServiceInterface interface {
	Signup(ctx context.Context, req *entity.SignupRequest) (*entity.LoginResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error)
}

// Auth 认证相关的 API 处理器
type Auth struct {
	service AuthServiceInterface
}

func NewAuth(service AuthServiceInterface) *Auth {
	return &Auth{service: service}
}

func (a *Auth) RegisterRoutes(router *gin.RouterGroup) {
	authRouter := router.Group("/auth")
	authRouter.POST("/signup", ginx.Adapt5(a.Signup))
	authRouter.POST("/login", ginx.Adapt5(a.Login))
}

func (a *Auth) Signup(ctx *gin.Context, req *entity.SignupRequest) (*entity.LoginResponse, error) {
	resp, err := a.service.Signup(ctx, req)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("email", req.Email).Msg("signup failed")
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("user_id", resp.User.ID).Msg("user signed up")
	return resp, nil
}

func (a *Auth) Login(ctx *gin.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	resp, err := a.service.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
