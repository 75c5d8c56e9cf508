package service

import (
	"context"
	"errors"
	"time"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/config"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/entity"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository"
	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/repository/model"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/apierror"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/idgen"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// tokenTTL 登录令牌有效期
const tokenTTL = 24 * time.Hour

// Claims JWT 载荷
type Claims struct {
	IsAdmin bool `json:"adm"`
	jwt.RegisteredClaims
}

// AuthService 注册登录与令牌签发
type AuthService struct {
	userRepo repository.UserRepository
	secret   []byte
	defaults config.Defaults
	idGen    *idgen.Generator
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.UserRepository, secret string, defaults config.Defaults) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		defaults: defaults,
		idGen:    idgen.New(),
	}
}

// Signup 注册新用户
// 第一个注册的用户自动成为管理员
func (s *AuthService) Signup(ctx context.Context, req *entity.SignupRequest) (*entity.LoginResponse, error) {
	logger := zerolog.Ctx(ctx)

	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apierror.NewErrorWithStatus(
			"EmailTaken",
			"an account with this email already exists",
			409,
		)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	id, err := s.idGen.GenerateUserID()
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	user := &model.User{
		ID:           id,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		IsAdmin:      count == 0,
		Coins:        s.defaults.Coins,
		TotalRAM:     s.defaults.RAM,
		TotalCPU:     s.defaults.CPU,
		TotalStorage: s.defaults.Storage,
		TotalSlots:   s.defaults.Slots,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	logger.Info().Str("user_id", user.ID).Bool("admin", user.IsAdmin).Msg("user signed up")
	return s.loginResponse(user)
}

// Login 校验密码并签发令牌
// 账号不存在和密码错误返回同一个错误，不泄露账号是否注册过
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.ErrUnauthorized
		}
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.ErrUnauthorized
	}

	zerolog.Ctx(ctx).Info().Str("user_id", user.ID).Msg("user logged in")
	return s.loginResponse(user)
}

// loginResponse 组装令牌和用户视图
func (s *AuthService) loginResponse(user *model.User) (*entity.LoginResponse, error) {
	now := time.Now()
	claims := &Claims{
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}

	view, err := userModelToEntity(user)
	if err != nil {
		return nil, apierror.Wrap(apierror.ErrInternalError, err)
	}
	return &entity.LoginResponse{Token: token, User: view}, nil
}

// ParseToken 校验令牌并返回载荷
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.ErrUnauthorized
	}
	return claims, nil
}
