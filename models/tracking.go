package models

import "time"

// 物流头部状态，是订单状态的粗粒度投影
const (
	TrackingPending        = "PENDING"
	TrackingPreparing      = "PREPARING"
	TrackingInTransit      = "IN_TRANSIT"
	TrackingOutForDelivery = "OUT_FOR_DELIVERY"
	TrackingDelivered      = "DELIVERED"
	TrackingFailed         = "FAILED"
	TrackingReturning      = "RETURNING"
	TrackingReturned       = "RETURNED"
)

// 事件来源
const (
	EventSourceSystem  = "SYSTEM"
	EventSourceCarrier = "CARRIER"
)

// OrderTracking 物流头部，与订单一对一
type OrderTracking struct {
	ID                uint64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderID           uint64     `gorm:"not null;uniqueIndex:uk_tracking_order;column:order_id" json:"order_id"`
	Status            string     `gorm:"size:32;not null;column:status" json:"status"`
	Carrier           string     `gorm:"size:64;column:carrier" json:"carrier,omitempty"`
	TrackingNumber    string     `gorm:"size:64;column:tracking_number" json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time `gorm:"column:estimated_delivery" json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Events []OrderTrackingEvent `gorm:"foreignKey:TrackingID" json:"events"`
}

func (OrderTracking) TableName() string {
	return "order_trackings"
}

// OrderTrackingEvent 只追加的状态时间线
type OrderTrackingEvent struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	TrackingID  uint64    `gorm:"not null;index:idx_tracking_event;column:tracking_id" json:"tracking_id"`
	Status      string    `gorm:"size:32;not null;column:status" json:"status"`
	Description string    `gorm:"size:500;column:description" json:"description"`
	Location    string    `gorm:"size:255;column:location" json:"location,omitempty"`
	Source      string    `gorm:"size:16;not null;column:source" json:"source"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OrderTrackingEvent) TableName() string {
	return "order_tracking_events"
}
