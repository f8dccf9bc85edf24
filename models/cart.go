package models

import (
	"time"

	"gorm.io/datatypes"
)

// Cart 购物车，UserID 与 SessionID 二选一
type Cart struct {
	ID          uint64                           `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID      *uint64                          `gorm:"uniqueIndex:uk_cart_user;column:user_id" json:"user_id"`
	SessionID   *string                          `gorm:"size:64;uniqueIndex:uk_cart_session;column:session_id" json:"session_id"`
	Subtotal    int64                            `gorm:"not null;default:0;column:subtotal" json:"subtotal"`
	Discount    int64                            `gorm:"not null;default:0;column:discount" json:"discount"`
	ShippingFee int64                            `gorm:"not null;default:0;column:shipping_fee" json:"shipping_fee"`
	Tax         int64                            `gorm:"not null;default:0;column:tax" json:"tax"`
	Total       int64                            `gorm:"not null;default:0;column:total" json:"total"`
	ItemCount   int                              `gorm:"not null;default:0;column:item_count" json:"item_count"`
	Metadata    datatypes.JSONType[CartMetadata] `gorm:"column:metadata" json:"metadata"`
	ExpiresAt   time.Time                        `gorm:"not null;index:idx_cart_expires;column:expires_at" json:"expires_at"`
	CreatedAt   time.Time                        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time                        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车明细，Price 为加入时的价格快照；VariantID 为 0 表示无规格
type CartItem struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	CartID    uint64    `gorm:"not null;uniqueIndex:uk_cart_line,priority:1;column:cart_id" json:"cart_id"`
	ProductID uint64    `gorm:"not null;uniqueIndex:uk_cart_line,priority:2;column:product_id" json:"product_id"`
	VariantID uint64    `gorm:"not null;default:0;uniqueIndex:uk_cart_line,priority:3;column:variant_id" json:"variant_id"`
	Quantity  int       `gorm:"not null;column:quantity" json:"quantity"`
	Price     int64     `gorm:"not null;column:price" json:"price"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
