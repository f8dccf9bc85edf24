package context

import (
	"Shopcore/pkg/log"
	"Shopcore/pkg/response"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxUserID    = "user_id"
	CtxRole      = "role"
	CtxSessionID = "session_id"
)

type HandlerFunc func(*gin.Context) error

func Wrap(h func(*gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {

			// 如果已经写过响应，直接返回
			if c.Writer.Written() {
				return
			}
			be := response.FromError(err)
			if be.Code >= http.StatusInternalServerError {
				log.L.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
			}
			response.Fail(c, be.Code, be.Msg, be.Details...)
		}
	}
}

// GetUserID 取登录用户ID，未登录返回 false
func GetUserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	uid, ok := v.(uint64)
	return uid, ok && uid > 0
}

// MustUserID 必须登录的接口使用
func MustUserID(c *gin.Context) (uint64, error) {
	uid, ok := GetUserID(c)
	if !ok {
		return 0, response.NewError(http.StatusUnauthorized, "未登录")
	}
	return uid, nil
}

func GetSessionID(c *gin.Context) string {
	return c.GetString(CtxSessionID)
}

var errNoRole = errors.New("role 不存在")

func GetRole(c *gin.Context) (string, error) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", errNoRole
	}
	role, _ := v.(string)
	return role, nil
}
