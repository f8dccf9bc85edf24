package service

import "Shopcore/models"

// 订单状态流转表，未列出的流转一律非法
var transitions = map[string][]string{
	models.OrderStatusPending:         {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:       {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing:      {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:         {models.OrderStatusOutForDelivery},
	models.OrderStatusOutForDelivery:  {models.OrderStatusDelivered, models.OrderStatusFailed},
	models.OrderStatusDelivered:       {models.OrderStatusCompleted, models.OrderStatusReturnRequested},
	models.OrderStatusFailed:          {models.OrderStatusPending, models.OrderStatusCancelled},
	models.OrderStatusReturnRequested: {models.OrderStatusReturned},
	models.OrderStatusReturned:        nil,
	models.OrderStatusCancelled:       nil,
	models.OrderStatusCompleted:       nil,
}

// 用户自助取消只允许在发货准备之前
var cancellable = map[string]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusConfirmed: true,
}

// 订单状态 -> 物流头部状态
var trackingStatus = map[string]string{
	models.OrderStatusPending:         models.TrackingPending,
	models.OrderStatusConfirmed:       models.TrackingPreparing,
	models.OrderStatusProcessing:      models.TrackingPreparing,
	models.OrderStatusShipped:         models.TrackingInTransit,
	models.OrderStatusOutForDelivery:  models.TrackingOutForDelivery,
	models.OrderStatusDelivered:       models.TrackingDelivered,
	models.OrderStatusCompleted:       models.TrackingDelivered,
	models.OrderStatusCancelled:       models.TrackingFailed,
	models.OrderStatusFailed:          models.TrackingFailed,
	models.OrderStatusReturnRequested: models.TrackingReturning,
	models.OrderStatusReturned:        models.TrackingReturned,
}

var statusDescriptions = map[string]string{
	models.OrderStatusPending:         "订单已提交，等待确认",
	models.OrderStatusConfirmed:       "订单已确认",
	models.OrderStatusProcessing:      "商家正在备货",
	models.OrderStatusShipped:         "包裹已发出",
	models.OrderStatusOutForDelivery:  "快递员正在派送",
	models.OrderStatusDelivered:       "包裹已签收",
	models.OrderStatusCompleted:       "订单已完成",
	models.OrderStatusCancelled:       "订单已取消",
	models.OrderStatusFailed:          "派送失败",
	models.OrderStatusReturnRequested: "已申请退货",
	models.OrderStatusReturned:        "退货已完成",
}

func IsKnownStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

func CanTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func AllowedTransitions(from string) []string {
	return append([]string(nil), transitions[from]...)
}

func IsTerminal(status string) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

func IsCancellable(status string) bool {
	return cancellable[status]
}

func TrackingStatusFor(status string) string {
	if s, ok := trackingStatus[status]; ok {
		return s
	}
	return models.TrackingPending
}

func DescribeStatus(status string) string {
	if d, ok := statusDescriptions[status]; ok {
		return d
	}
	return status
}

func isTrackingStatus(status string) bool {
	for _, s := range trackingStatus {
		if s == status {
			return true
		}
	}
	return false
}
