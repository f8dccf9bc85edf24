package types

import (
	"Shopcore/models"
	"time"
)

type AddCartItemRequest struct {
	ProductID uint64 `json:"product_id" binding:"required"`
	VariantID uint64 `json:"variant_id"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type ApplyCouponRequest struct {
	CouponCode string `json:"coupon_code" binding:"required"`
}

type MergeCartRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// CartLine 购物车明细视图
type CartLine struct {
	ID          uint64 `json:"id"`
	ProductID   uint64 `json:"product_id"`
	VariantID   uint64 `json:"variant_id,omitempty"`
	ProductName string `json:"product_name"`
	VariantName string `json:"variant_name,omitempty"`
	SKU         string `json:"sku"`
	Thumbnail   string `json:"thumbnail"`
	Price       int64  `json:"price"` // 加入时的快照价
	Quantity    int    `json:"quantity"`
	Subtotal    int64  `json:"subtotal"`
}

// Cart 购物车完整视图，也是缓存的内容
type Cart struct {
	ID          uint64                `json:"id"`
	UserID      *uint64               `json:"user_id,omitempty"`
	SessionID   *string               `json:"session_id,omitempty"`
	Items       []CartLine            `json:"items"`
	Subtotal    int64                 `json:"subtotal"`
	Discount    int64                 `json:"discount"`
	ShippingFee int64                 `json:"shipping_fee"`
	Tax         int64                 `json:"tax"`
	Total       int64                 `json:"total"`
	ItemCount   int                   `json:"item_count"`
	Coupon      *models.AppliedCoupon `json:"coupon,omitempty"`
	ExpiresAt   time.Time             `json:"expires_at"`
}

// ValidationResult 下单前校验结果
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
	Cart    *Cart    `json:"cart"`
}

type CleanupResult struct {
	DeletedCount int64 `json:"deleted_count"`
}
