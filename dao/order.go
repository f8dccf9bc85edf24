package dao

import (
	"Shopcore/models"
	"Shopcore/types"
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Order struct {
	Repo[models.Order]
}

func NewOrder(db *gorm.DB) *Order {
	return &Order{Repo: NewRepo[models.Order](db)}
}

func (o *Order) WithTx(tx *gorm.DB) *Order {
	return &Order{Repo: o.Repo.WithTx(tx)}
}

// CreateAggregate 订单、明细、物流头、支付记录一次写入
func (o *Order) CreateAggregate(ctx context.Context, order *models.Order) error {
	return o.Db.WithContext(ctx).Create(order).Error
}

func (o *Order) detail(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Payment").
		Preload("Tracking").
		Preload("Tracking.Events", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// FindDetail 带全部关联
func (o *Order) FindDetail(ctx context.Context, id uint64) (*models.Order, error) {
	var order models.Order
	if err := o.detail(o.Db.WithContext(ctx)).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Order) FindDetailByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := o.detail(o.Db.WithContext(ctx)).
		Where("order_number = ?", number).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *Order) Items(ctx context.Context, orderID uint64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := o.Db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error
	return items, err
}

func (o *Order) listScope(req *types.ListOrdersRequest) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if req.UserID != nil {
			db = db.Where("user_id = ?", *req.UserID)
		}
		if req.Status != "" {
			db = db.Where("status = ?", req.Status)
		}
		if req.PaymentStatus != "" {
			db = db.Where("payment_status = ?", req.PaymentStatus)
		}
		if req.From != nil {
			db = db.Where("created_at >= ?", *req.From)
		}
		if req.To != nil {
			db = db.Where("created_at < ?", endOfRange(*req.To))
		}
		if s := strings.TrimSpace(req.Search); s != "" {
			like := "%" + s + "%"
			db = db.Where("order_number LIKE ? OR guest_email LIKE ? OR guest_name LIKE ?", like, like, like)
		}
		return db
	}
}

// endOfRange 只有日期的结束时间按整天计入，返回次日零点作为开区间上界
func endOfRange(to time.Time) time.Time {
	if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 && to.Nanosecond() == 0 {
		return to.AddDate(0, 0, 1)
	}
	return to
}

// List 返回当前页和总数
func (o *Order) List(ctx context.Context, req *types.ListOrdersRequest) ([]*models.Order, int64, error) {
	var total int64
	base := o.Db.WithContext(ctx).Model(&models.Order{}).Scopes(o.listScope(req))
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*models.Order, 0, req.Take)
	err := o.Db.WithContext(ctx).
		Scopes(o.listScope(req)).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id DESC").
		Offset(req.Skip).
		Limit(req.Take).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

type GroupCount struct {
	GroupKey string
	Count    int64
	Amount   int64
}

// CountBy 按指定列分组统计数量和金额
func (o *Order) CountBy(ctx context.Context, column string, req *types.ListOrdersRequest) ([]GroupCount, error) {
	var rows []GroupCount
	err := o.Db.WithContext(ctx).Model(&models.Order{}).
		Scopes(o.listScope(req)).
		Select(column + " AS group_key, COUNT(*) AS count, COALESCE(SUM(total), 0) AS amount").
		Group(column).
		Scan(&rows).Error
	return rows, err
}
