package models

// 元数据结构版本，结构变更时递增
const MetadataVersion = 1

const (
	CouponTypePercentage = "PERCENTAGE"
	CouponTypeFixed      = "FIXED"
)

// CartMetadata 购物车扩展信息
type CartMetadata struct {
	Version int            `json:"version"`
	Coupon  *AppliedCoupon `json:"coupon,omitempty"`
}

// AppliedCoupon 已应用的优惠券；Discount 对 PERCENTAGE 为百分比，对 FIXED 为金额
type AppliedCoupon struct {
	Code     string `json:"code"`
	Discount int64  `json:"discount"`
	Type     string `json:"type"`
}

// OrderItemMetadata 订单明细扩展信息
type OrderItemMetadata struct {
	Version         int              `json:"version"`
	ProductSnapshot *ProductSnapshot `json:"product_snapshot,omitempty"`
}

// ProductSnapshot 下单时的商品快照，商品之后被修改或删除也不影响
type ProductSnapshot struct {
	Name       string            `json:"name"`
	Slug       string            `json:"slug"`
	Images     []string          `json:"images"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Address 地址快照，下单时整体冻结
type Address struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}
