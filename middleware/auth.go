package middleware

import (
	"net/http"
	"strings"

	"Shopcore/pkg/context"
	"Shopcore/pkg/jwt"
	"Shopcore/pkg/log"
	"Shopcore/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const RoleAdmin = "admin"

func bearer(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Auth 必须登录
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			response.Abort(c, http.StatusUnauthorized, "缺少 Authorization")
			return
		}
		token, ok := bearer(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "Authorization 格式错误")
			return
		}

		claims, err := jwt.ParseToken(secret, jwt.TypeAccess, token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(context.CtxUserID, claims.UserID)
		c.Set(context.CtxRole, claims.Role)

		c.Next()
	}
}

// OptionalAuth 携带合法 token 时解析用户，否则按游客处理
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearer(c); ok {
			claims, err := jwt.ParseToken(secret, jwt.TypeAccess, token)
			if err != nil {
				log.L.Debug("ignore invalid token", zap.Error(err))
			} else {
				c.Set(context.CtxUserID, claims.UserID)
				c.Set(context.CtxRole, claims.Role)
			}
		}
		c.Next()
	}
}

// Admin 必须挂在 Auth 之后
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := context.GetRole(c)
		if err != nil || role != RoleAdmin {
			response.Abort(c, http.StatusForbidden, "需要管理员权限")
			return
		}
		c.Next()
	}
}
