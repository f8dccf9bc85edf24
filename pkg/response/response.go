package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int      `json:"code"`
	Success bool     `json:"success"`
	Msg     string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Data    any      `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Success: true,
		Msg:     "ok",
		Data:    data,
	})
}

func Fail(c *gin.Context, code int, msg string, errs ...string) {
	status := code
	if status < 400 || status > 599 {
		status = http.StatusOK
	}
	c.JSON(status, Response{
		Code:   code,
		Msg:    msg,
		Errors: errs,
	})
}
