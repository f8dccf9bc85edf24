package handler

import (
	"Shopcore/config"
	"Shopcore/middleware"
	"Shopcore/pkg/context"
	"Shopcore/pkg/response"
	"Shopcore/service"
	"Shopcore/types"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Cart struct {
	Config      *config.Config
	CartService service.ICartService
}

func (h *Cart) RegisterRouter(r gin.IRouter) {
	secret := []byte(h.Config.Jwt.Secret)
	cart := r.Group("/v1/cart")
	cart.Use(middleware.OptionalAuth(secret), middleware.GuestSession())
	cart.GET("", context.Wrap(h.Get))
	cart.DELETE("", context.Wrap(h.Clear))
	cart.POST("/items", context.Wrap(h.AddItem))
	cart.PUT("/items/:id", context.Wrap(h.UpdateItem))
	cart.DELETE("/items/:id", context.Wrap(h.RemoveItem))
	cart.POST("/coupon", context.Wrap(h.ApplyCoupon))
	cart.DELETE("/coupon", context.Wrap(h.RemoveCoupon))
	cart.GET("/validate", context.Wrap(h.Validate))

	// 登录后合并游客购物车
	r.POST("/v1/cart/merge", middleware.Auth(secret), context.Wrap(h.Merge))
}

func owner(c *gin.Context) (types.Owner, error) {
	uid, _ := context.GetUserID(c)
	return types.ResolveOwner(uid, context.GetSessionID(c))
}

func pathID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, response.NewError(http.StatusBadRequest, "id 不合法")
	}
	return id, nil
}

func (h *Cart) Get(c *gin.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	cart, err := h.CartService.GetOrCreateCart(c.Request.Context(), o)
	if err != nil {
		return err
	}
	response.Success(c, cart)
	return nil
}

func (h *Cart) AddItem(c *gin.Context) error {
	var req types.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	o, err := owner(c)
	if err != nil {
		return err
	}
	cart, err := h.CartService.AddItem(c.Request.Context(), o, &req)
	if err != nil {
		return err
	}
	response.Success(c, cart)
	return nil
}

func (h *Cart) UpdateItem(c *gin.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req types.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	o, err := owner(c)
	if err != nil {
		return err
	}
	cart, err := h.CartService.UpdateItem(c.Request.Context(), o, id, req.Quantity)
	if err != nil {
		return err
	}
	response.Success(c, cart)
	return nil
}

func (h *Cart) RemoveItem(c *gin.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	o, err := owner(c)
	if err != nil {
		return err
	}
	cart, err := h.CartService.RemoveItem(c.Request.Context(), o, id)
	if err != nil {
		return err
	}
	response.Success(c, cart)
	return nil
}

func (h *Cart) Clear(c *gin.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	cart, err := h.CartService.ClearCart(c.Request.Context(), o)
	if err != nil {
		return err
	}
	response.Success(c, cart)
	return nil
}

func (h *Cart) ApplyCoupon(c *gin.Context) error {
	var req types.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	o, err := owner(c)
	if err != nil {
		return err
	}
	cart, err := h.CartService.ApplyCoupon(c.Request.Context(), o, &req)
	if err != nil {
		return err
	}
	response.Success(c, cart)
	return nil
}

func (h *Cart) RemoveCoupon(c *gin.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	cart, err := h.CartService.RemoveCoupon(c.Request.Context(), o)
	if err != nil {
		return err
	}
	response.Success(c, cart)
	return nil
}

func (h *Cart) Merge(c *gin.Context) error {
	var req types.MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	cart, err := h.CartService.MergeCarts(c.Request.Context(), uid, req.SessionID)
	if err != nil {
		return err
	}
	response.Success(c, cart)
	return nil
}

func (h *Cart) Validate(c *gin.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	res, err := h.CartService.ValidateCart(c.Request.Context(), o)
	if err != nil {
		return err
	}
	response.Success(c, res)
	return nil
}
