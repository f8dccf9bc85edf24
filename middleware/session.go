package middleware

import (
	"Shopcore/pkg/context"
	"Shopcore/pkg/response"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-Id"
	// 与 carts.session_id 列宽一致
	MaxSessionIDLen = 64
)

// GuestSession 读取游客会话ID；未登录且没有会话时签发一个新的并通过响应头返回
func GuestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := strings.TrimSpace(c.GetHeader(SessionHeader))
		if len(sid) > MaxSessionIDLen {
			response.Abort(c, http.StatusBadRequest, SessionHeader+" 过长")
			return
		}
		if sid == "" {
			if _, ok := context.GetUserID(c); !ok {
				sid = uuid.NewString()
			}
		}
		if sid != "" {
			c.Set(context.CtxSessionID, sid)
			c.Header(SessionHeader, sid)
		}
		c.Next()
	}
}
