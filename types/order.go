package types

import (
	"Shopcore/models"
	"time"
)

type CreateOrderRequest struct {
	ShippingMethod  string          `json:"shipping_method" binding:"required,oneof=STANDARD EXPRESS SAME_DAY PICKUP"`
	PaymentMethod   string          `json:"payment_method"`
	ShippingAddress models.Address  `json:"shipping_address"`
	BillingAddress  *models.Address `json:"billing_address"`
	GuestEmail      string          `json:"guest_email" binding:"omitempty,email"`
	GuestName       string          `json:"guest_name"`
	GuestPhone      string          `json:"guest_phone"`
	Notes           string          `json:"notes" binding:"max=500"`
}

type CancelOrderRequest struct {
	OrderID uint64 `json:"-"`
	Reason  string `json:"reason" binding:"max=500"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

type AddTrackingEventRequest struct {
	Status            string     `json:"status"` // 为空时沿用当前物流状态
	Location          string     `json:"location"`
	Description       string     `json:"description" binding:"required"`
	Carrier           string     `json:"carrier"`
	TrackingNumber    string     `json:"tracking_number"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
}

// ListOrdersRequest 订单列表筛选，Skip/Take 分页
type ListOrdersRequest struct {
	UserID        *uint64    `form:"-"`
	Status        string     `form:"status"`
	PaymentStatus string     `form:"payment_status"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Search        string     `form:"search"`
	Skip          int        `form:"skip"`
	Take          int        `form:"take"`
}

type ListOrdersResponse struct {
	Orders  []*models.Order `json:"orders"`
	Total   int64           `json:"total"`
	HasMore bool            `json:"has_more"`
}

type StatisticsRequest struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

type OrderStatistics struct {
	TotalOrders     int64            `json:"total_orders"`
	TotalRevenue    int64            `json:"total_revenue"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByPaymentStatus map[string]int64 `json:"by_payment_status"`
}
