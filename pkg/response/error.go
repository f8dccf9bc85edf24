package response

import (
	"Shopcore/pkg/errs"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BizError struct {
	Code    int
	Msg     string
	Details []string
}

func (e *BizError) Error() string {
	return e.Msg
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

// 业务错误到 HTTP 状态码的映射，顺序即优先级
var errorCodes = []struct {
	err  error
	code int
}{
	{errs.ErrInvalidIdentity, http.StatusBadRequest},
	{errs.ErrProductNotFound, http.StatusNotFound},
	{errs.ErrNotFound, http.StatusNotFound},
	{errs.ErrProductUnavailable, http.StatusConflict},
	{errs.ErrInsufficientStock, http.StatusConflict},
	{errs.ErrForbidden, http.StatusForbidden},
	{errs.ErrAccessDenied, http.StatusForbidden},
	{errs.ErrCartInvalid, http.StatusUnprocessableEntity},
	{errs.ErrEmptyCart, http.StatusUnprocessableEntity},
	{errs.ErrIllegalTransition, http.StatusConflict},
	{errs.ErrNotCancellable, http.StatusConflict},
	{errs.ErrInvalidCoupon, http.StatusBadRequest},
	{errs.ErrInvalidQuantity, http.StatusBadRequest},
	{errs.ErrInvalidArgument, http.StatusBadRequest},
}

// FromError 把服务层错误转换成 BizError，未知错误按 500 处理
func FromError(err error) *BizError {
	var be *BizError
	if errors.As(err, &be) {
		return be
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return &BizError{Code: ec.code, Msg: err.Error(), Details: errs.Details(err)}
		}
	}
	return &BizError{Code: http.StatusInternalServerError, Msg: "系统异常"}
}

func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				c.JSON(http.StatusInternalServerError, Response{
					Code: 500,
					Msg:  "系统异常",
				})
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			be := FromError(c.Errors.Last().Err)
			Fail(c, be.Code, be.Msg, be.Details...)
			c.Abort()
		}
	}
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}
