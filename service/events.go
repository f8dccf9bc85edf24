package service

import (
	"Shopcore/pkg/jsonutil"
	"Shopcore/pkg/log"
	"Shopcore/pkg/rocketmq"
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderCancelled     = "order.cancelled"
)

type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     uint64    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to"`
	Total       int64     `json:"total"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher 事务提交后发布订单事件，失败只记录日志
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, OrderEvent) error { return nil }

type mqPublisher struct {
	mq *rocketmq.Rocketmq
}

func (p *mqPublisher) Publish(ctx context.Context, event OrderEvent) error {
	body, err := jsonutil.Encode(event)
	if err != nil {
		return err
	}
	return p.mq.SendMsg(ctx, event.Type, event.OrderNumber, []byte(body))
}

// NewEventPublisher 未配置 MQ 时退化为空实现
func NewEventPublisher(mq *rocketmq.Rocketmq) EventPublisher {
	if mq == nil {
		return nopPublisher{}
	}
	return &mqPublisher{mq: mq}
}

func publish(ctx context.Context, p EventPublisher, event OrderEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		log.L.Warn("publish order event failed",
			zap.String("type", event.Type),
			zap.String("order_number", event.OrderNumber),
			zap.Error(err))
	}
}
