package handler

import (
	"Shopcore/config"
	"Shopcore/middleware"
	"Shopcore/pkg/context"
	"Shopcore/pkg/errs"
	"Shopcore/pkg/response"
	"Shopcore/service"
	"Shopcore/types"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Order struct {
	Config       *config.Config
	OrderService service.IOrderService
}

func (o *Order) RegisterRouter(r gin.IRouter) {
	secret := []byte(o.Config.Jwt.Secret)

	// 游客可下单、可凭邮箱查单
	guest := r.Group("/v1/orders")
	guest.Use(middleware.OptionalAuth(secret), middleware.GuestSession())
	guest.POST("", context.Wrap(o.Create))
	guest.GET("/number/:number", context.Wrap(o.GetByNumber))

	order := r.Group("/v1/orders")
	order.Use(middleware.Auth(secret))
	order.GET("", context.Wrap(o.List))
	order.GET("/:id", context.Wrap(o.Get))
	order.POST("/:id/cancel", context.Wrap(o.Cancel))
}

func (o *Order) Create(c *gin.Context) error {
	var req types.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	ow, err := owner(c)
	if err != nil {
		return err
	}
	order, err := o.OrderService.CreateFromCart(c.Request.Context(), ow, &req)
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}

func (o *Order) List(c *gin.Context) error {
	var req types.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	req.UserID = &uid
	resp, err := o.OrderService.ListOrders(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

// Get 查询类接口找不到时返回空数据
func (o *Order) Get(c *gin.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	order, err := o.OrderService.GetOrder(c.Request.Context(), id, &uid)
	if errors.Is(err, errs.ErrNotFound) {
		response.Success(c, nil)
		return nil
	}
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}

func (o *Order) GetByNumber(c *gin.Context) error {
	var uid *uint64
	if id, ok := context.GetUserID(c); ok {
		uid = &id
	}
	order, err := o.OrderService.GetOrderByNumber(c.Request.Context(), c.Param("number"), uid, c.Query("email"))
	if errors.Is(err, errs.ErrNotFound) {
		response.Success(c, nil)
		return nil
	}
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}

func (o *Order) Cancel(c *gin.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req types.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	req.OrderID = id
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	order, err := o.OrderService.CancelOrder(c.Request.Context(), &req, &uid)
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}
