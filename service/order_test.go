package service

import (
	"Shopcore/models"
	"Shopcore/pkg/errs"
	"Shopcore/types"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-\d{4}$`)

func (e *testEnv) checkout(t *testing.T, owner types.Owner, items map[*models.Product]int) *models.Order {
	t.Helper()
	for p, qty := range items {
		_, err := e.carts.AddItem(e.ctx, owner, &types.AddCartItemRequest{ProductID: p.ID, Quantity: qty})
		require.NoError(t, err)
	}
	order, err := e.orders.CreateFromCart(e.ctx, owner, standardOrder())
	require.NoError(t, err)
	return order
}

func (e *testEnv) trackingEvents(t *testing.T, orderID uint64) []models.OrderTrackingEvent {
	t.Helper()
	tr, err := e.orders.TrackingDAO.FindByOrder(e.ctx, orderID)
	require.NoError(t, err)
	events, err := e.orders.TrackingDAO.Events(e.ctx, tr.ID)
	require.NoError(t, err)
	return events
}

func TestCreateFromCart(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 50000, 5)
	shirt := env.product(t, "shirt", 40000, 0)
	red := env.variant(t, shirt, "red", 50000, 3)
	owner := types.User{ID: 1}

	_, err := env.carts.AddItem(env.ctx, owner, &types.AddCartItemRequest{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.carts.AddItem(env.ctx, owner, &types.AddCartItemRequest{ProductID: shirt.ID, VariantID: red.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = env.carts.ApplyCoupon(env.ctx, owner, &types.ApplyCouponRequest{CouponCode: "SAVE10"})
	require.NoError(t, err)

	req := standardOrder()
	req.Notes = "放门口"
	order, err := env.orders.CreateFromCart(env.ctx, owner, req)
	require.NoError(t, err)

	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
	assert.Equal(t, fmt.Sprintf("ORD-%s-0001", time.Now().Format("20060102")), order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	require.NotNil(t, order.UserID)
	assert.Equal(t, uint64(1), *order.UserID)

	// 150000 - 15000 + 30000 运费
	assert.Equal(t, int64(150000), order.Subtotal)
	assert.Equal(t, int64(15000), order.Discount)
	assert.Equal(t, int64(30000), order.ShippingFee)
	assert.Zero(t, order.Tax)
	assert.Equal(t, int64(165000), order.Total)
	assert.Equal(t, "SAVE10", order.CouponCode)
	assert.Equal(t, "上海", order.ShippingAddress.Data().City)
	assert.Equal(t, "上海", order.BillingAddress.Data().City)

	require.Len(t, order.Items, 2)
	item := order.Items[0]
	assert.Equal(t, "A", item.ProductName)
	assert.Equal(t, int64(100000), item.Subtotal)
	snap := item.Metadata.Data().ProductSnapshot
	require.NotNil(t, snap)
	assert.Equal(t, a.Slug, snap.Slug)
	assert.Equal(t, []string{"https://img.example.com/A-1.png"}, snap.Images)
	assert.Equal(t, "red", order.Items[1].VariantName)

	require.NotNil(t, order.Payment)
	assert.Equal(t, order.Total, order.Payment.Amount)
	assert.NotEmpty(t, order.Payment.TransactionRef)
	require.NotNil(t, order.Tracking)
	assert.Equal(t, models.TrackingPending, order.Tracking.Status)
	assert.Len(t, order.Tracking.Events, 1)

	// 库存与流水
	assert.Equal(t, 3, env.stock(t, a.ID, 0))
	assert.Equal(t, 2, env.stock(t, shirt.ID, red.ID))
	assert.Equal(t, 0, env.stock(t, shirt.ID, 0))
	logs, err := env.inventory.ListByReference(env.ctx, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.InventorySale, logs[0].Type)
	assert.Equal(t, -2, logs[0].Quantity)
	assert.Equal(t, 5, logs[0].BeforeStock)
	assert.Equal(t, 3, logs[0].AfterStock)

	// 购物车清空但保留，券已用掉
	cart, err := env.carts.GetOrCreateCart(env.ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.Coupon)
	assert.Zero(t, cart.Total)
	assert.Equal(t, int64(1), env.count(t, &models.Cart{}))

	assert.Equal(t, []string{EventOrderCreated}, env.events.types())
}

func TestCreateFromCart_SequentialNumbers(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 10)

	first := env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 1})
	second := env.checkout(t, types.User{ID: 2}, map[*models.Product]int{a: 1})
	third := env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 1})

	day := time.Now().Format("20060102")
	assert.Equal(t, "ORD-"+day+"-0001", first.OrderNumber)
	assert.Equal(t, "ORD-"+day+"-0002", second.OrderNumber)
	assert.Equal(t, "ORD-"+day+"-0003", third.OrderNumber)
}

func TestCreateFromCart_EmptyCart(t *testing.T) {
	env := newTestEnv(t)
	owner := types.User{ID: 1}

	_, err := env.orders.CreateFromCart(env.ctx, owner, standardOrder())
	assert.ErrorIs(t, err, errs.ErrEmptyCart)

	_, err = env.carts.GetOrCreateCart(env.ctx, owner)
	require.NoError(t, err)
	_, err = env.orders.CreateFromCart(env.ctx, owner, standardOrder())
	assert.ErrorIs(t, err, errs.ErrEmptyCart)

	_, err = env.orders.CreateFromCart(env.ctx, nil, standardOrder())
	assert.ErrorIs(t, err, errs.ErrInvalidIdentity)
}

// 校验失败时不留下任何痕迹
func TestCreateFromCart_CartInvalidRollsBack(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 5)
	b := env.product(t, "B", 2000, 5)
	owner := types.User{ID: 1}

	_, err := env.carts.AddItem(env.ctx, owner, &types.AddCartItemRequest{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = env.carts.AddItem(env.ctx, owner, &types.AddCartItemRequest{ProductID: b.ID, Quantity: 3})
	require.NoError(t, err)
	env.setStock(t, b.ID, 2)

	_, err = env.orders.CreateFromCart(env.ctx, owner, standardOrder())
	require.ErrorIs(t, err, errs.ErrCartInvalid)
	details := errs.Details(err)
	require.Len(t, details, 1)
	assert.Contains(t, details[0], "B")

	assert.Zero(t, env.count(t, &models.Order{}))
	assert.Zero(t, env.count(t, &models.OrderItem{}))
	assert.Zero(t, env.count(t, &models.InventoryLog{}))
	assert.Zero(t, env.count(t, &models.OrderSequence{}))
	assert.Equal(t, 5, env.stock(t, a.ID, 0))
	assert.Equal(t, 2, env.stock(t, b.ID, 0))
	assert.Equal(t, int64(2), env.count(t, &models.CartItem{}))
	assert.Empty(t, env.events.types())
}

func TestCreateFromCart_InvalidShipping(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 5)
	owner := types.User{ID: 1}
	_, err := env.carts.AddItem(env.ctx, owner, &types.AddCartItemRequest{ProductID: a.ID, Quantity: 1})
	require.NoError(t, err)

	req := standardOrder()
	req.ShippingAddress.City = ""
	_, err = env.orders.CreateFromCart(env.ctx, owner, req)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	req = standardOrder()
	req.ShippingMethod = "DRONE"
	_, err = env.orders.CreateFromCart(env.ctx, owner, req)
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	// 自提不需要地址
	order, err := env.orders.CreateFromCart(env.ctx, owner, &types.CreateOrderRequest{ShippingMethod: models.ShippingPickup})
	require.NoError(t, err)
	assert.Zero(t, order.ShippingFee)
	assert.Equal(t, int64(1000), order.Total)
}

func TestCreateFromCart_FreeShippingAboveThreshold(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 250000, 5)

	order := env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 2})
	assert.Zero(t, order.ShippingFee)
	assert.Equal(t, int64(500000), order.Total)
}

func TestCreateFromCart_Guest(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 5)
	guest := types.Guest{SessionID: "anon"}

	_, err := env.carts.AddItem(env.ctx, guest, &types.AddCartItemRequest{ProductID: a.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = env.orders.CreateFromCart(env.ctx, guest, standardOrder())
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	req := standardOrder()
	req.GuestEmail = "Guest@Example.com"
	req.GuestName = "李四"
	order, err := env.orders.CreateFromCart(env.ctx, guest, req)
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
	assert.Equal(t, "Guest@Example.com", order.GuestEmail)

	got, err := env.orders.GetOrderByNumber(env.ctx, order.OrderNumber, nil, "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = env.orders.GetOrderByNumber(env.ctx, order.OrderNumber, nil, "other@example.com")
	assert.ErrorIs(t, err, errs.ErrAccessDenied)
	uid := uint64(5)
	_, err = env.orders.GetOrderByNumber(env.ctx, order.OrderNumber, &uid, "")
	assert.ErrorIs(t, err, errs.ErrAccessDenied)
	_, err = env.orders.GetOrderByNumber(env.ctx, "ORD-19700101-0001", nil, "guest@example.com")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

// 库存只剩 1 件，两笔下单并发，只能成功一笔
func TestCreateFromCart_ConcurrentLastUnit(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 10000, 1)
	owners := []types.Owner{types.User{ID: 1}, types.User{ID: 2}}
	for _, o := range owners {
		_, err := env.carts.AddItem(env.ctx, o, &types.AddCartItemRequest{ProductID: a.ID, Quantity: 1})
		require.NoError(t, err)
	}

	results := make([]error, len(owners))
	orders := make([]*models.Order, len(owners))
	var wg conc.WaitGroup
	for i, o := range owners {
		wg.Go(func() {
			orders[i], results[i] = env.orders.CreateFromCart(env.ctx, o, standardOrder())
		})
	}
	wg.Wait()

	succeeded := 0
	for i, err := range results {
		if err == nil {
			succeeded++
			assert.GreaterOrEqual(t, orders[i].Total, int64(10000))
			continue
		}
		assert.True(t, errors.Is(err, errs.ErrInsufficientStock) || errors.Is(err, errs.ErrCartInvalid), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, env.stock(t, a.ID, 0))
	assert.Equal(t, int64(1), env.count(t, &models.Order{}))
	assert.Equal(t, int64(1), env.count(t, &models.InventoryLog{}))
}

// 同一购物车并发下单：赢家清空购物车，输家看到空购物车
func TestCreateFromCart_SameOwnerRace(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 10000, 1)
	owner := types.User{ID: 1}
	_, err := env.carts.AddItem(env.ctx, owner, &types.AddCartItemRequest{ProductID: a.ID, Quantity: 1})
	require.NoError(t, err)

	results := make([]error, 2)
	orders := make([]*models.Order, 2)
	var wg conc.WaitGroup
	for i := range results {
		wg.Go(func() {
			orders[i], results[i] = env.orders.CreateFromCart(env.ctx, owner, standardOrder())
		})
	}
	wg.Wait()

	succeeded := 0
	for i, err := range results {
		if err == nil {
			succeeded++
			assert.GreaterOrEqual(t, orders[i].Total, int64(10000))
			continue
		}
		assert.ErrorIs(t, err, errs.ErrEmptyCart)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, env.stock(t, a.ID, 0))
	assert.Equal(t, int64(1), env.count(t, &models.Order{}))
}

// 多次并发下单，售出总量不超过库存
func TestCreateFromCart_NeverOversells(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 100, 7)

	const buyers = 6
	for i := 1; i <= buyers; i++ {
		_, err := env.carts.AddItem(env.ctx, types.User{ID: uint64(i)}, &types.AddCartItemRequest{ProductID: a.ID, Quantity: 2})
		require.NoError(t, err)
	}

	var wg conc.WaitGroup
	for i := 1; i <= buyers; i++ {
		owner := types.User{ID: uint64(i)}
		wg.Go(func() {
			_, _ = env.orders.CreateFromCart(env.ctx, owner, standardOrder())
		})
	}
	wg.Wait()

	sold, err := env.inventory.Balance(env.ctx, a.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-6), sold)
	assert.Equal(t, 1, env.stock(t, a.ID, 0))
	assert.Equal(t, int64(3), env.count(t, &models.Order{}))
}

func TestCancelOrder_RestoresStock(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 5)
	shirt := env.product(t, "shirt", 1000, 0)
	red := env.variant(t, shirt, "red", 1500, 4)
	owner := types.User{ID: 1}

	_, err := env.carts.AddItem(env.ctx, owner, &types.AddCartItemRequest{ProductID: a.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = env.carts.AddItem(env.ctx, owner, &types.AddCartItemRequest{ProductID: shirt.ID, VariantID: red.ID, Quantity: 4})
	require.NoError(t, err)
	order, err := env.orders.CreateFromCart(env.ctx, owner, standardOrder())
	require.NoError(t, err)
	assert.Equal(t, 2, env.stock(t, a.ID, 0))
	assert.Equal(t, 0, env.stock(t, shirt.ID, red.ID))

	uid := owner.ID
	cancelled, err := env.orders.CancelOrder(env.ctx, &types.CancelOrderRequest{OrderID: order.ID, Reason: "不想要了"}, &uid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "不想要了", cancelled.CancelReason)
	assert.Equal(t, models.TrackingFailed, cancelled.Tracking.Status)
	assert.Len(t, cancelled.Tracking.Events, 2)

	assert.Equal(t, 5, env.stock(t, a.ID, 0))
	assert.Equal(t, 4, env.stock(t, shirt.ID, red.ID))
	for _, line := range []struct{ product, variant uint64 }{{a.ID, 0}, {shirt.ID, red.ID}} {
		balance, err := env.inventory.Balance(env.ctx, line.product, line.variant)
		require.NoError(t, err)
		assert.Zero(t, balance)
	}
	logs, err := env.inventory.ListByReference(env.ctx, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, logs, 4)
	assert.Equal(t, models.InventoryReturn, logs[2].Type)
	assert.Contains(t, logs[2].Reason, "不想要了")
	assert.Equal(t, "user:1", logs[2].PerformedBy)

	assert.Equal(t, []string{EventOrderCreated, EventOrderCancelled}, env.events.types())

	// 重复取消
	_, err = env.orders.CancelOrder(env.ctx, &types.CancelOrderRequest{OrderID: order.ID}, &uid)
	assert.ErrorIs(t, err, errs.ErrNotCancellable)
	assert.Equal(t, 5, env.stock(t, a.ID, 0))
}

func TestCancelOrder_Rules(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 10)
	order := env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 1})

	stranger := uint64(2)
	_, err := env.orders.CancelOrder(env.ctx, &types.CancelOrderRequest{OrderID: order.ID}, &stranger)
	assert.ErrorIs(t, err, errs.ErrAccessDenied)

	_, err = env.orders.CancelOrder(env.ctx, &types.CancelOrderRequest{OrderID: 9999}, nil)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = env.orders.UpdateStatus(env.ctx, order.ID, &types.UpdateOrderStatusRequest{Status: models.OrderStatusConfirmed})
	require.NoError(t, err)
	_, err = env.orders.UpdateStatus(env.ctx, order.ID, &types.UpdateOrderStatusRequest{Status: models.OrderStatusProcessing})
	require.NoError(t, err)

	owner := uint64(1)
	_, err = env.orders.CancelOrder(env.ctx, &types.CancelOrderRequest{OrderID: order.ID}, &owner)
	assert.ErrorIs(t, err, errs.ErrNotCancellable)
	assert.Equal(t, 9, env.stock(t, a.ID, 0))
}

// 流转表内的每条边成功一次且只追加一条事件，表外的边全部拒绝且状态不变
func TestUpdateStatus_StateMachine(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 1000)
	order := env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 1})

	statuses := make([]string, 0, len(transitions))
	for s := range transitions {
		statuses = append(statuses, s)
	}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(from+"->"+to, func(t *testing.T) {
				env.setOrderStatus(t, order.ID, from)
				before := len(env.trackingEvents(t, order.ID))

				got, err := env.orders.UpdateStatus(env.ctx, order.ID, &types.UpdateOrderStatusRequest{Status: to})
				events := env.trackingEvents(t, order.ID)

				if CanTransition(from, to) {
					require.NoError(t, err)
					assert.Equal(t, to, got.Status)
					assert.Equal(t, TrackingStatusFor(to), got.Tracking.Status)
					require.Len(t, events, before+1)
					assert.Equal(t, models.EventSourceSystem, events[len(events)-1].Source)
					return
				}

				require.ErrorIs(t, err, errs.ErrIllegalTransition)
				var te *errs.TransitionError
				require.True(t, errors.As(err, &te))
				assert.Equal(t, from, te.From)
				assert.Equal(t, to, te.To)
				assert.Len(t, events, before)
				current, err := env.orders.GetOrder(env.ctx, order.ID, nil)
				require.NoError(t, err)
				assert.Equal(t, from, current.Status)
			})
		}
	}
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 10)
	order := env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 2})

	path := []string{
		models.OrderStatusConfirmed,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusOutForDelivery,
		models.OrderStatusDelivered,
		models.OrderStatusCompleted,
	}
	var got *models.Order
	var err error
	for _, status := range path {
		got, err = env.orders.UpdateStatus(env.ctx, order.ID, &types.UpdateOrderStatusRequest{Status: status, Note: "ok"})
		require.NoError(t, err, status)
	}
	assert.NotNil(t, got.ConfirmedAt)
	assert.NotNil(t, got.ShippedAt)
	assert.NotNil(t, got.DeliveredAt)
	assert.NotNil(t, got.CompletedAt)
	assert.Nil(t, got.CancelledAt)
	assert.Equal(t, models.TrackingDelivered, got.Tracking.Status)
	assert.Len(t, got.Tracking.Events, len(path)+1)
	assert.True(t, IsTerminal(got.Status))

	_, err = env.orders.UpdateStatus(env.ctx, order.ID, &types.UpdateOrderStatusRequest{Status: "LOST"})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = env.orders.UpdateStatus(env.ctx, 9999, &types.UpdateOrderStatusRequest{Status: models.OrderStatusConfirmed})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

// 后台从 PROCESSING 取消同样回补库存
func TestUpdateStatus_AdminCancelRestocks(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 10)
	order := env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 4})
	env.setOrderStatus(t, order.ID, models.OrderStatusProcessing)

	got, err := env.orders.UpdateStatus(env.ctx, order.ID, &types.UpdateOrderStatusRequest{Status: "cancelled", Note: "缺货"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)
	assert.Equal(t, 10, env.stock(t, a.ID, 0))

	logs, err := env.inventory.ListByReference(env.ctx, order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "admin", logs[1].PerformedBy)
	assert.Equal(t, []string{EventOrderCreated, EventOrderCancelled}, env.events.types())
}

func TestAddTrackingEvent(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 10)
	order := env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 1})
	env.setOrderStatus(t, order.ID, models.OrderStatusShipped)

	eta := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	got, err := env.orders.AddTrackingEvent(env.ctx, order.ID, &types.AddTrackingEventRequest{
		Status:            "in_transit",
		Location:          "杭州转运中心",
		Description:       "包裹已到达转运中心",
		Carrier:           "SF",
		TrackingNumber:    "SF123456",
		EstimatedDelivery: &eta,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, got.Status)
	assert.Equal(t, models.TrackingInTransit, got.Tracking.Status)
	assert.Equal(t, "SF", got.Tracking.Carrier)
	assert.Equal(t, "SF123456", got.Tracking.TrackingNumber)
	require.Len(t, got.Tracking.Events, 2)
	last := got.Tracking.Events[1]
	assert.Equal(t, models.EventSourceCarrier, last.Source)
	assert.Equal(t, "杭州转运中心", last.Location)

	// 不带状态时沿用当前物流状态
	got, err = env.orders.AddTrackingEvent(env.ctx, order.ID, &types.AddTrackingEventRequest{Description: "派件员已取件"})
	require.NoError(t, err)
	assert.Equal(t, models.TrackingInTransit, got.Tracking.Status)
	assert.Equal(t, "SF", got.Tracking.Carrier)

	_, err = env.orders.AddTrackingEvent(env.ctx, order.ID, &types.AddTrackingEventRequest{Status: "TELEPORTED", Description: "x"})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = env.orders.AddTrackingEvent(env.ctx, 9999, &types.AddTrackingEventRequest{Description: "x"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetOrder_Access(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 10)
	order := env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 1})

	owner, stranger := uint64(1), uint64(2)
	got, err := env.orders.GetOrder(env.ctx, order.ID, &owner)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, got.OrderNumber)

	_, err = env.orders.GetOrder(env.ctx, order.ID, &stranger)
	assert.ErrorIs(t, err, errs.ErrAccessDenied)

	_, err = env.orders.GetOrder(env.ctx, order.ID, nil)
	assert.NoError(t, err)

	_, err = env.orders.GetOrder(env.ctx, 9999, &owner)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	got, err = env.orders.GetOrderByNumber(env.ctx, order.OrderNumber, &owner, "")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 100)
	var mine []*models.Order
	for i := 0; i < 3; i++ {
		mine = append(mine, env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 1}))
	}
	env.checkout(t, types.User{ID: 2}, map[*models.Product]int{a: 1})
	env.setOrderStatus(t, mine[0].ID, models.OrderStatusConfirmed)

	uid := uint64(1)
	page, err := env.orders.ListOrders(env.ctx, &types.ListOrdersRequest{UserID: &uid, Take: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.True(t, page.HasMore)
	require.Len(t, page.Orders, 2)
	assert.Equal(t, mine[2].ID, page.Orders[0].ID)

	page, err = env.orders.ListOrders(env.ctx, &types.ListOrdersRequest{UserID: &uid, Skip: 2, Take: 2})
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, mine[0].ID, page.Orders[0].ID)

	page, err = env.orders.ListOrders(env.ctx, &types.ListOrdersRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	page, err = env.orders.ListOrders(env.ctx, &types.ListOrdersRequest{Search: mine[1].OrderNumber})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, mine[1].ID, page.Orders[0].ID)

	// 只有日期的结束时间包含当天
	today := midnight(time.Now())
	yesterday := today.AddDate(0, 0, -1)
	page, err = env.orders.ListOrders(env.ctx, &types.ListOrdersRequest{From: &today, To: &today})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	page, err = env.orders.ListOrders(env.ctx, &types.ListOrdersRequest{From: &yesterday, To: &yesterday})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	page, err = env.orders.ListOrders(env.ctx, &types.ListOrdersRequest{UserID: &uid, To: &today})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	req := &types.ListOrdersRequest{Take: 1000}
	page, err = env.orders.ListOrders(env.ctx, req)
	require.NoError(t, err)
	assert.Equal(t, maxTake, req.Take)
	assert.Len(t, page.Orders, 4)
}

func TestGetStatistics(t *testing.T) {
	env := newTestEnv(t)
	a := env.product(t, "A", 1000, 100)
	o1 := env.checkout(t, types.User{ID: 1}, map[*models.Product]int{a: 1})
	o2 := env.checkout(t, types.User{ID: 2}, map[*models.Product]int{a: 2})
	o3 := env.checkout(t, types.User{ID: 3}, map[*models.Product]int{a: 3})

	uid := uint64(3)
	_, err := env.orders.CancelOrder(env.ctx, &types.CancelOrderRequest{OrderID: o3.ID}, &uid)
	require.NoError(t, err)

	stats, err := env.orders.GetStatistics(env.ctx, &types.StatisticsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, o1.Total+o2.Total, stats.TotalRevenue)
	assert.Equal(t, int64(2), stats.ByStatus[models.OrderStatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[models.OrderStatusCancelled])
	assert.Equal(t, int64(3), stats.ByPaymentStatus[models.PaymentStatusPending])

	today := midnight(time.Now())
	stats, err = env.orders.GetStatistics(env.ctx, &types.StatisticsRequest{From: &today, To: &today})
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, o1.Total+o2.Total, stats.TotalRevenue)

	tomorrow := today.AddDate(0, 0, 1)
	stats, err = env.orders.GetStatistics(env.ctx, &types.StatisticsRequest{From: &tomorrow})
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.Zero(t, stats.TotalRevenue)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
