package types

import "Shopcore/models"

type CreateVariantRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	SKU   string `json:"sku" binding:"max=64"`
	Price *int64 `json:"price" binding:"omitempty,min=0"` // 为空沿用商品价
	Stock int    `json:"stock" binding:"min=0"`
}

type CreateProductRequest struct {
	Name       string                 `json:"name" binding:"required,max=255"`
	Slug       string                 `json:"slug" binding:"required,max=255"`
	SKU        string                 `json:"sku" binding:"max=64"`
	Price      int64                  `json:"price" binding:"min=0"` // 最小货币单位
	Stock      int                    `json:"stock" binding:"min=0"`
	Status     string                 `json:"status"` // 为空时为 DRAFT
	Thumbnail  string                 `json:"thumbnail"`
	Images     []string               `json:"images"`
	Attributes map[string]string      `json:"attributes"`
	Variants   []CreateVariantRequest `json:"variants" binding:"dive"`
}

// AdjustStockRequest Delta 为带符号的变动量
type AdjustStockRequest struct {
	VariantID uint64 `json:"variant_id"`
	Delta     int    `json:"delta" binding:"required"`
	Reason    string `json:"reason" binding:"required,max=255"`
}

type SetProductStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ProductDetailResponse struct {
	*models.Product
	Variants  []models.ProductVariant `json:"variants"`
	Inventory []models.InventoryLog   `json:"inventory"` // 最近的库存流水
}
