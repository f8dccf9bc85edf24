// Package errs 定义购物车与订单核心的业务错误。
// 服务层统一返回这里的哨兵错误（或包装它们的类型），由 API 层转换为响应。
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidIdentity    = errors.New("必须提供用户ID或会话ID之一")
	ErrProductNotFound    = errors.New("商品不存在")
	ErrNotFound           = errors.New("记录不存在")
	ErrProductUnavailable = errors.New("商品不可售")
	ErrInsufficientStock  = errors.New("库存不足")
	ErrForbidden          = errors.New("无权操作该购物车")
	ErrAccessDenied       = errors.New("无权访问该订单")
	ErrCartInvalid        = errors.New("购物车校验失败")
	ErrEmptyCart          = errors.New("购物车为空")
	ErrIllegalTransition  = errors.New("订单状态流转不合法")
	ErrNotCancellable     = errors.New("当前订单状态不可取消")
	ErrInvalidCoupon      = errors.New("优惠券无效")

	ErrInvalidQuantity = errors.New("数量必须大于 0")
	ErrInvalidArgument = errors.New("参数错误")
)

// StockError 库存不足时携带具体商品，便于前端提示
type StockError struct {
	ProductID uint64
	VariantID uint64
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: %q 需要 %d 件，仅剩 %d 件", ErrInsufficientStock.Error(), e.Name, e.Requested, e.Available)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// CartInvalidError 聚合所有校验失败信息
type CartInvalidError struct {
	Messages []string
}

func (e *CartInvalidError) Error() string {
	return ErrCartInvalid.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *CartInvalidError) Unwrap() error { return ErrCartInvalid }

// TransitionError 非法状态流转
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition.Error(), e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// Details 取出错误附带的明细列表
func Details(err error) []string {
	var ci *CartInvalidError
	if errors.As(err, &ci) {
		return ci.Messages
	}
	return nil
}
