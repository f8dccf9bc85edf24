package handler

import (
	"Shopcore/config"
	"Shopcore/middleware"
	"Shopcore/pkg/context"
	"Shopcore/pkg/response"
	"Shopcore/service"
	"Shopcore/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Admin 后台订单管理
type Admin struct {
	Config       *config.Config
	OrderService service.IOrderService
	CartService  service.ICartService
}

func (a *Admin) RegisterRouter(r gin.IRouter) {
	admin := r.Group("/v1/admin")
	admin.Use(middleware.Auth([]byte(a.Config.Jwt.Secret)), middleware.Admin())
	admin.GET("/orders", context.Wrap(a.ListOrders))
	admin.GET("/orders/statistics", context.Wrap(a.Statistics))
	admin.GET("/orders/:id", context.Wrap(a.GetOrder))
	admin.PUT("/orders/:id/status", context.Wrap(a.UpdateStatus))
	admin.POST("/orders/:id/tracking", context.Wrap(a.AddTracking))
	admin.POST("/carts/sweep", context.Wrap(a.SweepCarts))
}

func (a *Admin) ListOrders(c *gin.Context) error {
	var req types.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	resp, err := a.OrderService.ListOrders(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, resp)
	return nil
}

func (a *Admin) Statistics(c *gin.Context) error {
	var req types.StatisticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	stats, err := a.OrderService.GetStatistics(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, stats)
	return nil
}

func (a *Admin) GetOrder(c *gin.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	order, err := a.OrderService.GetOrder(c.Request.Context(), id, nil)
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}

func (a *Admin) UpdateStatus(c *gin.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req types.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	order, err := a.OrderService.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}

func (a *Admin) AddTracking(c *gin.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req types.AddTrackingEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	order, err := a.OrderService.AddTrackingEvent(c.Request.Context(), id, &req)
	if err != nil {
		return err
	}
	response.Success(c, order)
	return nil
}

// SweepCarts 手动触发一次过期购物车清理
func (a *Admin) SweepCarts(c *gin.Context) error {
	res, err := a.CartService.CleanupExpiredCarts(c.Request.Context())
	if err != nil {
		return err
	}
	response.Success(c, res)
	return nil
}
