package handler

import (
	"Shopcore/config"
	"Shopcore/middleware"
	"Shopcore/pkg/context"
	"Shopcore/pkg/response"
	"Shopcore/service"
	"Shopcore/types"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Product 后台商品库存维护
type Product struct {
	Config         *config.Config
	ProductService service.IProductService
}

func (p *Product) RegisterRouter(r gin.IRouter) {
	products := r.Group("/v1/admin/products")
	products.Use(middleware.Auth([]byte(p.Config.Jwt.Secret)), middleware.Admin())
	products.POST("", context.Wrap(p.CreateProduct))
	products.GET("/:id", context.Wrap(p.GetProduct))
	products.POST("/:id/stock", context.Wrap(p.AdjustStock))
	products.PUT("/:id/status", context.Wrap(p.SetStatus))
}

func (p *Product) CreateProduct(c *gin.Context) error {
	var req types.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	product, err := p.ProductService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		return err
	}
	response.Success(c, product)
	return nil
}

func (p *Product) GetProduct(c *gin.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	product, err := p.ProductService.GetProduct(c.Request.Context(), id)
	if err != nil {
		return err
	}
	response.Success(c, product)
	return nil
}

func (p *Product) AdjustStock(c *gin.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req types.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	uid, err := context.MustUserID(c)
	if err != nil {
		return err
	}
	entry, err := p.ProductService.AdjustStock(c.Request.Context(), id, &req, fmt.Sprintf("admin:%d", uid))
	if err != nil {
		return err
	}
	response.Success(c, entry)
	return nil
}

func (p *Product) SetStatus(c *gin.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req types.SetProductStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	if err := p.ProductService.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		return err
	}
	response.Success(c, nil)
	return nil
}
