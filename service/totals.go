package service

import (
	"Shopcore/models"

	"github.com/shopspring/decimal"
)

// Totals 购物车金额汇总；运费和税在下单时才计算
type Totals struct {
	Subtotal  int64
	Discount  int64
	Total     int64
	ItemCount int
}

// CalculateTotals 按快照价汇总，total = subtotal - discount
func CalculateTotals(items []models.CartItem, coupon *models.AppliedCoupon) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.Price * int64(it.Quantity)
		t.ItemCount += it.Quantity
	}
	t.Discount = CouponDiscount(coupon, t.Subtotal)
	t.Total = t.Subtotal - t.Discount
	return t
}

// CouponDiscount 百分比券四舍五入到最小货币单位，满减券不超过小计
func CouponDiscount(coupon *models.AppliedCoupon, subtotal int64) int64 {
	if coupon == nil || subtotal <= 0 {
		return 0
	}
	var discount int64
	switch coupon.Type {
	case models.CouponTypePercentage:
		pct := min(max(coupon.Discount, 0), 100)
		discount = decimal.NewFromInt(subtotal).
			Mul(decimal.NewFromInt(pct)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case models.CouponTypeFixed:
		discount = max(coupon.Discount, 0)
	}
	return min(discount, subtotal)
}
