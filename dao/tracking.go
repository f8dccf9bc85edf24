package dao

import (
	"Shopcore/models"
	"context"

	"gorm.io/gorm"
)

type Tracking struct {
	Repo[models.OrderTracking]
}

func NewTracking(db *gorm.DB) *Tracking {
	return &Tracking{Repo: NewRepo[models.OrderTracking](db)}
}

func (t *Tracking) WithTx(tx *gorm.DB) *Tracking {
	return &Tracking{Repo: t.Repo.WithTx(tx)}
}

func (t *Tracking) FindByOrder(ctx context.Context, orderID uint64) (*models.OrderTracking, error) {
	var tr models.OrderTracking
	if err := t.Db.WithContext(ctx).Where("order_id = ?", orderID).First(&tr).Error; err != nil {
		return nil, err
	}
	return &tr, nil
}

func (t *Tracking) AppendEvent(ctx context.Context, event *models.OrderTrackingEvent) error {
	return t.Db.WithContext(ctx).Create(event).Error
}

func (t *Tracking) Events(ctx context.Context, trackingID uint64) ([]models.OrderTrackingEvent, error) {
	var events []models.OrderTrackingEvent
	err := t.Db.WithContext(ctx).Where("tracking_id = ?", trackingID).Order("id ASC").Find(&events).Error
	return events, err
}
