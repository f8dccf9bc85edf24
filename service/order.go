package service

import (
	"Shopcore/config"
	"Shopcore/dao"
	"Shopcore/models"
	"Shopcore/pkg/errs"
	"Shopcore/pkg/log"
	"Shopcore/pkg/metrics"
	"Shopcore/pkg/snowflake"
	"Shopcore/types"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultTake = 20
	maxTake     = 100
)

type OrderService struct {
	Config       *config.Config
	DB           *gorm.DB
	CartService  *CartService
	CartDAO      *dao.Cart
	ProductDAO   *dao.Product
	OrderDAO     *dao.Order
	TrackingDAO  *dao.Tracking
	InventoryDAO *dao.Inventory
	SequenceDAO  *dao.Sequence
	Publisher    EventPublisher
}

var _ IOrderService = (*OrderService)(nil)

type IOrderService interface {
	CreateFromCart(ctx context.Context, owner types.Owner, req *types.CreateOrderRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, req *types.CancelOrderRequest, userID *uint64) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uint64, req *types.UpdateOrderStatusRequest) (*models.Order, error)
	AddTrackingEvent(ctx context.Context, orderID uint64, req *types.AddTrackingEventRequest) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uint64, userID *uint64) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, number string, userID *uint64, email string) (*models.Order, error)
	ListOrders(ctx context.Context, req *types.ListOrdersRequest) (*types.ListOrdersResponse, error)
	GetStatistics(ctx context.Context, req *types.StatisticsRequest) (*types.OrderStatistics, error)
}

// CreateFromCart 下单：校验、扣库存、记流水、生成订单、清空购物车，全部在一个事务内完成
func (s *OrderService) CreateFromCart(ctx context.Context, owner types.Owner, req *types.CreateOrderRequest) (*models.Order, error) {
	order, err := s.checkout(ctx, owner, req)
	metrics.CheckoutTotal.WithLabelValues(checkoutResult(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.CartService.invalidate(ctx, owner)
	publish(ctx, s.Publisher, OrderEvent{
		Type:        EventOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		To:          order.Status,
		Total:       order.Total,
		OccurredAt:  order.CreatedAt,
	})
	log.L.Info("order created",
		zap.Uint64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("owner", owner.String()),
		zap.Int64("total", order.Total))

	return s.OrderDAO.FindDetail(ctx, order.ID)
}

func (s *OrderService) checkout(ctx context.Context, owner types.Owner, req *types.CreateOrderRequest) (*models.Order, error) {
	if owner == nil {
		return nil, errs.ErrInvalidIdentity
	}
	if _, isGuest := owner.(types.Guest); isGuest && strings.TrimSpace(req.GuestEmail) == "" {
		return nil, fmt.Errorf("%w: 游客下单必须填写邮箱", errs.ErrInvalidArgument)
	}
	// 地址和配送方式先做一次无金额校验，避免进入事务后才失败
	if _, err := CalculateShippingFee(req.ShippingMethod, 0, req.ShippingAddress, s.Config.Shipping.Rates()); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartDAO := s.CartDAO.WithTx(tx)
		cart, err := cartDAO.LockByOwner(ctx, owner)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrEmptyCart
		}
		if err != nil {
			return err
		}

		problems, _, err := s.CartService.validate(ctx, tx, cart)
		if err != nil {
			return err
		}
		if len(problems) > 0 {
			return &errs.CartInvalidError{Messages: problems}
		}

		items, err := cartDAO.Items(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return errs.ErrEmptyCart
		}
		// 固定加锁顺序，避免两笔订单交叉锁同一批商品
		sort.Slice(items, func(i, j int) bool {
			if items[i].ProductID != items[j].ProductID {
				return items[i].ProductID < items[j].ProductID
			}
			return items[i].VariantID < items[j].VariantID
		})

		now := time.Now()
		number, err := s.nextOrderNumber(ctx, tx, now)
		if err != nil {
			return err
		}

		coupon := cart.Metadata.Data().Coupon
		totals := CalculateTotals(items, coupon)
		shippingFee, err := CalculateShippingFee(req.ShippingMethod, totals.Subtotal, req.ShippingAddress, s.Config.Shipping.Rates())
		if err != nil {
			return err
		}
		var tax int64

		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			product, variant, err := s.deduct(ctx, tx, it, number, owner.String())
			if err != nil {
				return err
			}
			orderItems = append(orderItems, orderItemOf(product, variant, it))
		}

		billing := req.ShippingAddress
		if req.BillingAddress != nil {
			billing = *req.BillingAddress
		}
		paymentMethod := req.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = "COD"
		}
		total := totals.Subtotal - totals.Discount + shippingFee + tax

		order = &models.Order{
			OrderNumber:     number,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			PaymentMethod:   paymentMethod,
			ShippingMethod:  req.ShippingMethod,
			Subtotal:        totals.Subtotal,
			ShippingFee:     shippingFee,
			Tax:             tax,
			Discount:        totals.Discount,
			Total:           total,
			ShippingAddress: datatypes.NewJSONType(req.ShippingAddress),
			BillingAddress:  datatypes.NewJSONType(billing),
			Notes:           req.Notes,
			Items:           orderItems,
			Tracking: &models.OrderTracking{
				Status: models.TrackingPending,
				Events: []models.OrderTrackingEvent{{
					Status:      models.TrackingPending,
					Description: DescribeStatus(models.OrderStatusPending),
					Source:      models.EventSourceSystem,
				}},
			},
			Payment: &models.Payment{
				Method:         paymentMethod,
				Amount:         total,
				Status:         models.PaymentStatusPending,
				TransactionRef: snowflake.GenString(),
			},
		}
		if coupon != nil {
			order.CouponCode = coupon.Code
		}
		switch o := owner.(type) {
		case types.User:
			id := o.ID
			order.UserID = &id
		case types.Guest:
			order.GuestEmail = strings.TrimSpace(req.GuestEmail)
			order.GuestName = req.GuestName
			order.GuestPhone = req.GuestPhone
		}

		if err := s.OrderDAO.WithTx(tx).CreateAggregate(ctx, order); err != nil {
			return err
		}

		// 购物车行保留复用，只清空明细和已用掉的优惠券
		if err := cartDAO.ClearItems(ctx, cart.ID); err != nil {
			return err
		}
		meta := cart.Metadata.Data()
		meta.Coupon = nil
		cart.Metadata = cartMetadata(meta)
		_, err = s.CartService.refresh(ctx, tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// deduct 事务内锁行复核库存并扣减，同时写 SALE 流水
func (s *OrderService) deduct(ctx context.Context, tx *gorm.DB, it models.CartItem, number, actor string) (*models.Product, *models.ProductVariant, error) {
	productDAO := s.ProductDAO.WithTx(tx)

	product, err := productDAO.LockProduct(ctx, it.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: #%d", errs.ErrProductNotFound, it.ProductID)
	}
	if err != nil {
		return nil, nil, err
	}
	var variant *models.ProductVariant
	if it.VariantID > 0 {
		variant, err = productDAO.LockVariant(ctx, it.ProductID, it.VariantID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: 规格 #%d", errs.ErrProductNotFound, it.VariantID)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	before := models.StockOf(product, variant)
	if before < it.Quantity {
		return nil, nil, stockError(product, variant, it.Quantity, before)
	}
	ok, err := productDAO.AdjustStock(ctx, it.ProductID, it.VariantID, -it.Quantity)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, stockError(product, variant, it.Quantity, before)
	}

	err = s.InventoryDAO.WithTx(tx).Append(ctx, &models.InventoryLog{
		ProductID:   it.ProductID,
		VariantID:   it.VariantID,
		Type:        models.InventorySale,
		Quantity:    -it.Quantity,
		BeforeStock: before,
		AfterStock:  before - it.Quantity,
		Reason:      fmt.Sprintf("订单 %s 下单扣减", number),
		Reference:   number,
		PerformedBy: actor,
	})
	if err != nil {
		return nil, nil, err
	}
	return product, variant, nil
}

// nextOrderNumber ORD-YYYYMMDD-NNNN，序号来自当天计数行
func (s *OrderService) nextOrderNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")
	seq, err := s.SequenceDAO.WithTx(tx).Next(ctx, day)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%s-%04d", day, seq), nil
}

// CancelOrder 用户取消：仅 PENDING/CONFIRMED 可取消，回补库存是下单扣减的补偿
func (s *OrderService) CancelOrder(ctx context.Context, req *types.CancelOrderRequest, userID *uint64) (*models.Order, error) {
	var from string
	var order *models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.lockOrder(ctx, tx, req.OrderID)
		if err != nil {
			return err
		}
		if userID != nil && (order.UserID == nil || *order.UserID != *userID) {
			return errs.ErrAccessDenied
		}
		if !IsCancellable(order.Status) {
			return fmt.Errorf("%w: 当前状态 %s", errs.ErrNotCancellable, order.Status)
		}
		from = order.Status
		actor := "system"
		if userID != nil {
			actor = fmt.Sprintf("user:%d", *userID)
		}
		return s.transition(ctx, tx, order, models.OrderStatusCancelled, req.Reason, actor)
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderCancelTotal.Inc()
	metrics.OrderTransitionTotal.WithLabelValues(models.OrderStatusCancelled).Inc()
	publish(ctx, s.Publisher, OrderEvent{
		Type:        EventOrderCancelled,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		From:        from,
		To:          models.OrderStatusCancelled,
		Total:       order.Total,
		OccurredAt:  time.Now(),
	})
	log.L.Info("order cancelled", zap.Uint64("order_id", order.ID), zap.String("from", from), zap.String("reason", req.Reason))

	return s.OrderDAO.FindDetail(ctx, order.ID)
}

// UpdateStatus 后台按状态机推进订单
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint64, req *types.UpdateOrderStatusRequest) (*models.Order, error) {
	to := strings.ToUpper(strings.TrimSpace(req.Status))
	if !IsKnownStatus(to) {
		return nil, fmt.Errorf("%w: 未知订单状态 %q", errs.ErrInvalidArgument, req.Status)
	}

	var from string
	var order *models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		from = order.Status
		return s.transition(ctx, tx, order, to, req.Note, "admin")
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderTransitionTotal.WithLabelValues(to).Inc()
	evtType := EventOrderStatusChanged
	if to == models.OrderStatusCancelled {
		metrics.OrderCancelTotal.Inc()
		evtType = EventOrderCancelled
	}
	publish(ctx, s.Publisher, OrderEvent{
		Type:        evtType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		From:        from,
		To:          to,
		Total:       order.Total,
		OccurredAt:  time.Now(),
	})

	return s.OrderDAO.FindDetail(ctx, order.ID)
}

// transition 校验流转并落库：状态与时间戳、物流头部投影、一条系统事件；取消时回补库存
func (s *OrderService) transition(ctx context.Context, tx *gorm.DB, order *models.Order, to, note, actor string) error {
	if !CanTransition(order.Status, to) {
		return &errs.TransitionError{From: order.Status, To: to}
	}

	now := time.Now()
	updates := map[string]any{"status": to}
	switch to {
	case models.OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case models.OrderStatusShipped:
		updates["shipped_at"] = now
	case models.OrderStatusDelivered:
		updates["delivered_at"] = now
	case models.OrderStatusCompleted:
		updates["completed_at"] = now
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = now
		updates["cancel_reason"] = note
		if err := s.restock(ctx, tx, order, note, actor); err != nil {
			return err
		}
	}
	if _, err := s.OrderDAO.WithTx(tx).UpdateById(ctx, order.ID, updates); err != nil {
		return err
	}

	trackingDAO := s.TrackingDAO.WithTx(tx)
	tracking, err := trackingDAO.FindByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	projected := TrackingStatusFor(to)
	if _, err := trackingDAO.UpdateById(ctx, tracking.ID, map[string]any{"status": projected}); err != nil {
		return err
	}
	desc := DescribeStatus(to)
	if note != "" {
		desc += "：" + note
	}
	if err := trackingDAO.AppendEvent(ctx, &models.OrderTrackingEvent{
		TrackingID:  tracking.ID,
		Status:      projected,
		Description: desc,
		Source:      models.EventSourceSystem,
	}); err != nil {
		return err
	}

	log.L.Info("order status changed",
		zap.Uint64("order_id", order.ID),
		zap.String("from", order.Status),
		zap.String("to", to),
		zap.String("actor", actor))
	order.Status = to
	return nil
}

// restock 按明细逐行锁定后回补库存并记 RETURN 流水
func (s *OrderService) restock(ctx context.Context, tx *gorm.DB, order *models.Order, reason, actor string) error {
	items, err := s.OrderDAO.WithTx(tx).Items(ctx, order.ID)
	if err != nil {
		return err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ProductID != items[j].ProductID {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].VariantID < items[j].VariantID
	})

	productDAO := s.ProductDAO.WithTx(tx)
	inventoryDAO := s.InventoryDAO.WithTx(tx)
	for _, it := range items {
		product, err := productDAO.LockProduct(ctx, it.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.L.Warn("restock skipped, product row missing", zap.String("order_number", order.OrderNumber), zap.Uint64("product_id", it.ProductID))
			continue
		}
		if err != nil {
			return err
		}
		var variant *models.ProductVariant
		if it.VariantID > 0 {
			variant, err = productDAO.LockVariant(ctx, it.ProductID, it.VariantID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.L.Warn("restock skipped, variant row missing", zap.String("order_number", order.OrderNumber), zap.Uint64("variant_id", it.VariantID))
				continue
			}
			if err != nil {
				return err
			}
		}

		before := models.StockOf(product, variant)
		if _, err := productDAO.AdjustStock(ctx, it.ProductID, it.VariantID, it.Quantity); err != nil {
			return err
		}
		r := fmt.Sprintf("订单 %s 取消回补", order.OrderNumber)
		if reason != "" {
			r += "：" + reason
		}
		if err := inventoryDAO.Append(ctx, &models.InventoryLog{
			ProductID:   it.ProductID,
			VariantID:   it.VariantID,
			Type:        models.InventoryReturn,
			Quantity:    it.Quantity,
			BeforeStock: before,
			AfterStock:  before + it.Quantity,
			Reason:      r,
			Reference:   order.OrderNumber,
			PerformedBy: actor,
		}); err != nil {
			return err
		}
	}
	return nil
}

// AddTrackingEvent 承运商更新物流信息，不改变订单业务状态
func (s *OrderService) AddTrackingEvent(ctx context.Context, orderID uint64, req *types.AddTrackingEventRequest) (*models.Order, error) {
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != "" && !isTrackingStatus(status) {
		return nil, fmt.Errorf("%w: 未知物流状态 %q", errs.ErrInvalidArgument, req.Status)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockOrder(ctx, tx, orderID); err != nil {
			return err
		}
		trackingDAO := s.TrackingDAO.WithTx(tx)
		tracking, err := trackingDAO.FindByOrder(ctx, orderID)
		if err != nil {
			return err
		}

		if status == "" {
			status = tracking.Status
		}
		updates := map[string]any{"status": status}
		if req.Carrier != "" {
			updates["carrier"] = req.Carrier
		}
		if req.TrackingNumber != "" {
			updates["tracking_number"] = req.TrackingNumber
		}
		if req.EstimatedDelivery != nil {
			updates["estimated_delivery"] = *req.EstimatedDelivery
		}
		if _, err := trackingDAO.UpdateById(ctx, tracking.ID, updates); err != nil {
			return err
		}
		return trackingDAO.AppendEvent(ctx, &models.OrderTrackingEvent{
			TrackingID:  tracking.ID,
			Status:      status,
			Description: req.Description,
			Location:    req.Location,
			Source:      models.EventSourceCarrier,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.OrderDAO.FindDetail(ctx, orderID)
}

// GetOrder userID 为空表示后台查询，不校验归属
func (s *OrderService) GetOrder(ctx context.Context, orderID uint64, userID *uint64) (*models.Order, error) {
	order, err := s.OrderDAO.FindDetail(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 订单 #%d", errs.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}
	if userID != nil && (order.UserID == nil || *order.UserID != *userID) {
		return nil, errs.ErrAccessDenied
	}
	return order, nil
}

// GetOrderByNumber 登录用户按用户ID校验，游客按下单邮箱校验
func (s *OrderService) GetOrderByNumber(ctx context.Context, number string, userID *uint64, email string) (*models.Order, error) {
	order, err := s.OrderDAO.FindDetailByNumber(ctx, strings.TrimSpace(number))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 订单 %s", errs.ErrNotFound, number)
	}
	if err != nil {
		return nil, err
	}

	if userID != nil && order.UserID != nil && *order.UserID == *userID {
		return order, nil
	}
	email = strings.TrimSpace(email)
	if email != "" && order.GuestEmail != "" && strings.EqualFold(order.GuestEmail, email) {
		return order, nil
	}
	return nil, errs.ErrAccessDenied
}

func (s *OrderService) ListOrders(ctx context.Context, req *types.ListOrdersRequest) (*types.ListOrdersResponse, error) {
	if req.Take <= 0 {
		req.Take = defaultTake
	}
	req.Take = min(req.Take, maxTake)
	req.Skip = max(req.Skip, 0)
	if req.Status != "" {
		req.Status = strings.ToUpper(req.Status)
	}
	if req.PaymentStatus != "" {
		req.PaymentStatus = strings.ToUpper(req.PaymentStatus)
	}

	orders, total, err := s.OrderDAO.List(ctx, req)
	if err != nil {
		return nil, err
	}
	return &types.ListOrdersResponse{
		Orders:  orders,
		Total:   total,
		HasMore: int64(req.Skip+len(orders)) < total,
	}, nil
}

// GetStatistics 营收不计已取消和已退货的订单
func (s *OrderService) GetStatistics(ctx context.Context, req *types.StatisticsRequest) (*types.OrderStatistics, error) {
	scope := &types.ListOrdersRequest{From: req.From, To: req.To}

	byStatus, err := s.OrderDAO.CountBy(ctx, "status", scope)
	if err != nil {
		return nil, err
	}
	byPayment, err := s.OrderDAO.CountBy(ctx, "payment_status", scope)
	if err != nil {
		return nil, err
	}

	stats := &types.OrderStatistics{
		ByStatus:        make(map[string]int64, len(byStatus)),
		ByPaymentStatus: make(map[string]int64, len(byPayment)),
	}
	for _, row := range byStatus {
		stats.ByStatus[row.GroupKey] = row.Count
		stats.TotalOrders += row.Count
		if row.GroupKey != models.OrderStatusCancelled && row.GroupKey != models.OrderStatusReturned {
			stats.TotalRevenue += row.Amount
		}
	}
	for _, row := range byPayment {
		stats.ByPaymentStatus[row.GroupKey] = row.Count
	}
	return stats, nil
}

func (s *OrderService) lockOrder(ctx context.Context, tx *gorm.DB, orderID uint64) (*models.Order, error) {
	order, err := s.OrderDAO.WithTx(tx).FindByIdForUpdate(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 订单 #%d", errs.ErrNotFound, orderID)
	}
	return order, err
}

func orderItemOf(p *models.Product, v *models.ProductVariant, it models.CartItem) models.OrderItem {
	item := models.OrderItem{
		ProductID:   it.ProductID,
		VariantID:   it.VariantID,
		ProductName: p.Name,
		SKU:         p.SKU,
		Thumbnail:   p.Thumbnail,
		Price:       it.Price,
		Quantity:    it.Quantity,
		Subtotal:    it.Price * int64(it.Quantity),
		Metadata: datatypes.NewJSONType(models.OrderItemMetadata{
			Version: models.MetadataVersion,
			ProductSnapshot: &models.ProductSnapshot{
				Name:       p.Name,
				Slug:       p.Slug,
				Images:     append([]string{}, p.Images...),
				Attributes: p.Attributes.Data(),
			},
		}),
	}
	if v != nil {
		item.VariantName = v.Name
		if v.SKU != "" {
			item.SKU = v.SKU
		}
	}
	return item
}

func checkoutResult(err error) string {
	var stock *errs.StockError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, errs.ErrCartInvalid):
		return "cart_invalid"
	case errors.Is(err, errs.ErrEmptyCart):
		return "empty_cart"
	case errors.As(err, &stock), errors.Is(err, errs.ErrInsufficientStock):
		return "insufficient_stock"
	}
	return "error"
}
