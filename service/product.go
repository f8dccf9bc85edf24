package service

import (
	"Shopcore/config"
	"Shopcore/dao"
	"Shopcore/models"
	"Shopcore/pkg/errs"
	"Shopcore/pkg/log"
	"Shopcore/types"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const inventoryHistory = 50

// ProductService 后台商品与库存维护，库存变动同样写入流水
type ProductService struct {
	Config       *config.Config
	DB           *gorm.DB
	ProductDAO   *dao.Product
	InventoryDAO *dao.Inventory
}

var _ IProductService = (*ProductService)(nil)

type IProductService interface {
	CreateProduct(ctx context.Context, req *types.CreateProductRequest) (*types.ProductDetailResponse, error)
	GetProduct(ctx context.Context, productID uint64) (*types.ProductDetailResponse, error)
	AdjustStock(ctx context.Context, productID uint64, req *types.AdjustStockRequest, actor string) (*models.InventoryLog, error)
	SetStatus(ctx context.Context, productID uint64, status string) error
}

var productStatuses = map[string]bool{
	models.ProductStatusDraft:      true,
	models.ProductStatusActive:     true,
	models.ProductStatusInactive:   true,
	models.ProductStatusOutOfStock: true,
	models.ProductStatusArchived:   true,
}

func (p *ProductService) CreateProduct(ctx context.Context, req *types.CreateProductRequest) (*types.ProductDetailResponse, error) {
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.ProductStatusDraft
	}
	if !productStatuses[status] {
		return nil, fmt.Errorf("%w: 未知商品状态 %s", errs.ErrInvalidArgument, req.Status)
	}

	exists, err := p.ProductDAO.ExistsSlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: slug %q 已存在", errs.ErrInvalidArgument, req.Slug)
	}

	product := &models.Product{
		Name:       req.Name,
		Slug:       req.Slug,
		SKU:        req.SKU,
		Price:      req.Price,
		Stock:      req.Stock,
		Status:     status,
		Thumbnail:  req.Thumbnail,
		Images:     datatypes.JSONSlice[string](req.Images),
		Attributes: datatypes.NewJSONType(req.Attributes),
	}

	err = p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productDAO := p.ProductDAO.WithTx(tx)
		if err := productDAO.CreateProduct(ctx, product); err != nil {
			return err
		}
		for _, vr := range req.Variants {
			v := &models.ProductVariant{
				ProductID: product.ID,
				Name:      vr.Name,
				SKU:       vr.SKU,
				Price:     vr.Price,
				Stock:     vr.Stock,
				IsActive:  true,
			}
			if err := productDAO.Variants.Create(ctx, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.L.Info("product created", zap.Uint64("product_id", product.ID), zap.String("slug", product.Slug))
	return p.GetProduct(ctx, product.ID)
}

func (p *ProductService) GetProduct(ctx context.Context, productID uint64) (*types.ProductDetailResponse, error) {
	product, err := p.ProductDAO.FindById(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: #%d", errs.ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, err
	}
	variants, err := p.ProductDAO.ListVariants(ctx, productID)
	if err != nil {
		return nil, err
	}
	logs, err := p.InventoryDAO.ListByProduct(ctx, productID, inventoryHistory)
	if err != nil {
		return nil, err
	}
	return &types.ProductDetailResponse{Product: product, Variants: variants, Inventory: logs}, nil
}

// AdjustStock 盘点调整，扣减后库存不得为负
func (p *ProductService) AdjustStock(ctx context.Context, productID uint64, req *types.AdjustStockRequest, actor string) (*models.InventoryLog, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: 变动量不能为 0", errs.ErrInvalidArgument)
	}

	var entry *models.InventoryLog
	err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		productDAO := p.ProductDAO.WithTx(tx)

		product, err := productDAO.LockProduct(ctx, productID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: #%d", errs.ErrProductNotFound, productID)
		}
		if err != nil {
			return err
		}
		var variant *models.ProductVariant
		if req.VariantID > 0 {
			variant, err = productDAO.LockVariant(ctx, productID, req.VariantID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: 规格 #%d", errs.ErrProductNotFound, req.VariantID)
			}
			if err != nil {
				return err
			}
		}

		before := models.StockOf(product, variant)
		if before+req.Delta < 0 {
			return stockError(product, variant, -req.Delta, before)
		}
		ok, err := productDAO.AdjustStock(ctx, productID, req.VariantID, req.Delta)
		if err != nil {
			return err
		}
		if !ok {
			return stockError(product, variant, -req.Delta, before)
		}

		entry = &models.InventoryLog{
			ProductID:   productID,
			VariantID:   req.VariantID,
			Type:        models.InventoryAdjustment,
			Quantity:    req.Delta,
			BeforeStock: before,
			AfterStock:  before + req.Delta,
			Reason:      req.Reason,
			PerformedBy: actor,
		}
		return p.InventoryDAO.WithTx(tx).Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	log.L.Info("stock adjusted",
		zap.Uint64("product_id", productID),
		zap.Uint64("variant_id", req.VariantID),
		zap.Int("delta", req.Delta),
		zap.String("actor", actor),
	)
	return entry, nil
}

// SetStatus 下架后已在购物车中的商品会在校验或下单时被拦截
func (p *ProductService) SetStatus(ctx context.Context, productID uint64, status string) error {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !productStatuses[status] {
		return fmt.Errorf("%w: 未知商品状态 %s", errs.ErrInvalidArgument, status)
	}
	n, err := p.ProductDAO.UpdateById(ctx, productID, map[string]any{"status": status})
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := p.ProductDAO.FindById(ctx, productID); errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: #%d", errs.ErrProductNotFound, productID)
		}
	}
	return nil
}
