package api

import (
	"strings"

	"github.com/Shaf2665/AETHER-DASHBOARD/internal/aether/service"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/apierror"
	"github.com/Shaf2665/AETHER-DASHBOARD/pkg/ginx"
	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUserID  = "aether.user_id"
	ctxKeyIsAdmin = "aether.is_admin"
)

// TokenParser 校验访问令牌并返回其声明
type TokenParser interface {
	ParseToken(token string) (*service.Claims, error)
}

// RequireAuth 校验 Authorization 头中的 Bearer 令牌
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ginx.AbortWithError(ctx, apierror.WrapError(apierror.ErrUnauthorized, "missing bearer token", nil))
			return
		}
		claims, err := parser.ParseToken(token)
		if err != nil {
			ginx.AbortWithError(ctx, err)
			return
		}
		ctx.Set(ctxKeyUserID, claims.Subject)
		ctx.Set(ctxKeyIsAdmin, claims.IsAdmin)
		ctx.Next()
	}
}

// RequireAdmin 只允许管理员通过，必须在 RequireAuth 之后使用
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !ctx.GetBool(ctxKeyIsAdmin) {
			ginx.AbortWithError(ctx, apierror.ErrForbidden)
			return
		}
		ctx.Next()
	}
}

func currentUserID(ctx *gin.Context) string {
	return ctx.GetString(ctxKeyUserID)
}
