package models

import (
	"time"

	"gorm.io/datatypes"
)

// 订单业务状态
const (
	OrderStatusPending         = "PENDING"
	OrderStatusConfirmed       = "CONFIRMED"
	OrderStatusProcessing      = "PROCESSING"
	OrderStatusShipped         = "SHIPPED"
	OrderStatusOutForDelivery  = "OUT_FOR_DELIVERY"
	OrderStatusDelivered       = "DELIVERED"
	OrderStatusCompleted       = "COMPLETED"
	OrderStatusCancelled       = "CANCELLED"
	OrderStatusFailed          = "FAILED"
	OrderStatusReturnRequested = "RETURN_REQUESTED"
	OrderStatusReturned        = "RETURNED"
)

// 支付状态
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// 配送方式
const (
	ShippingStandard = "STANDARD"
	ShippingExpress  = "EXPRESS"
	ShippingSameDay  = "SAME_DAY"
	ShippingPickup   = "PICKUP"
)

// Order 订单主表，创建后只允许状态变更，不删除
type Order struct {
	ID              uint64                      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderNumber     string                      `gorm:"size:32;not null;uniqueIndex:uk_order_number;column:order_number" json:"order_number"`
	UserID          *uint64                     `gorm:"index:idx_order_user;column:user_id" json:"user_id"`
	GuestEmail      string                      `gorm:"size:255;index:idx_order_guest_email;column:guest_email" json:"guest_email,omitempty"`
	GuestName       string                      `gorm:"size:255;column:guest_name" json:"guest_name,omitempty"`
	GuestPhone      string                      `gorm:"size:32;column:guest_phone" json:"guest_phone,omitempty"`
	Status          string                      `gorm:"size:32;not null;index:idx_order_status;column:status" json:"status"`
	PaymentStatus   string                      `gorm:"size:32;not null;index:idx_order_payment_status;column:payment_status" json:"payment_status"`
	PaymentMethod   string                      `gorm:"size:32;column:payment_method" json:"payment_method"`
	ShippingMethod  string                      `gorm:"size:32;not null;column:shipping_method" json:"shipping_method"`
	Subtotal        int64                       `gorm:"not null;column:subtotal" json:"subtotal"`
	ShippingFee     int64                       `gorm:"not null;column:shipping_fee" json:"shipping_fee"`
	Tax             int64                       `gorm:"not null;column:tax" json:"tax"`
	Discount        int64                       `gorm:"not null;column:discount" json:"discount"`
	Total           int64                       `gorm:"not null;column:total" json:"total"`
	CouponCode      string                      `gorm:"size:64;column:coupon_code" json:"coupon_code,omitempty"`
	ShippingAddress datatypes.JSONType[Address] `gorm:"column:shipping_address" json:"shipping_address"`
	BillingAddress  datatypes.JSONType[Address] `gorm:"column:billing_address" json:"billing_address"`
	Notes           string                      `gorm:"size:500;column:notes" json:"notes,omitempty"`
	CancelReason    string                      `gorm:"size:500;column:cancel_reason" json:"cancel_reason,omitempty"`
	ConfirmedAt     *time.Time                  `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
	ShippedAt       *time.Time                  `gorm:"column:shipped_at" json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time                  `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	CompletedAt     *time.Time                  `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CancelledAt     *time.Time                  `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt       time.Time                   `gorm:"column:created_at;autoCreateTime;index:idx_order_created" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Items    []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	Tracking *OrderTracking `gorm:"foreignKey:OrderID" json:"tracking,omitempty"`
	Payment  *Payment       `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单明细，下单时冻结的商品信息
type OrderItem struct {
	ID          uint64                                `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderID     uint64                                `gorm:"not null;index:idx_order_item_order;column:order_id" json:"order_id"`
	ProductID   uint64                                `gorm:"not null;index:idx_order_item_product;column:product_id" json:"product_id"`
	VariantID   uint64                                `gorm:"not null;default:0;column:variant_id" json:"variant_id"`
	ProductName string                                `gorm:"size:255;not null;column:product_name" json:"product_name"`
	VariantName string                                `gorm:"size:255;column:variant_name" json:"variant_name,omitempty"`
	SKU         string                                `gorm:"size:64;column:sku" json:"sku"`
	Thumbnail   string                                `gorm:"size:512;column:thumbnail" json:"thumbnail"`
	Price       int64                                 `gorm:"not null;column:price" json:"price"`
	Quantity    int                                   `gorm:"not null;column:quantity" json:"quantity"`
	Subtotal    int64                                 `gorm:"not null;column:subtotal" json:"subtotal"`
	Metadata    datatypes.JSONType[OrderItemMetadata] `gorm:"column:metadata" json:"metadata"`
	CreatedAt   time.Time                             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Payment 支付记录，本服务只创建 PENDING 占位
type Payment struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderID        uint64    `gorm:"not null;uniqueIndex:uk_payment_order;column:order_id" json:"order_id"`
	Method         string    `gorm:"size:32;column:method" json:"method"`
	Amount         int64     `gorm:"not null;column:amount" json:"amount"`
	Status         string    `gorm:"size:32;not null;column:status" json:"status"`
	TransactionRef string    `gorm:"size:64;uniqueIndex:uk_payment_ref;column:transaction_ref" json:"transaction_ref"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// OrderSequence 按天的订单序号计数行
type OrderSequence struct {
	Day string `gorm:"primaryKey;size:8;column:day"`
	Seq int    `gorm:"not null;default:0;column:seq"`
}

func (OrderSequence) TableName() string {
	return "order_sequences"
}
