package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 商品状态，只有 ACTIVE 可售
const (
	ProductStatusDraft      = "DRAFT"
	ProductStatusActive     = "ACTIVE"
	ProductStatusInactive   = "INACTIVE"
	ProductStatusOutOfStock = "OUT_OF_STOCK"
	ProductStatusArchived   = "ARCHIVED"
)

// Product 对应数据库中的 products 表，价格单位为最小货币单位
type Product struct {
	ID         uint64                                `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name       string                                `gorm:"size:255;not null;column:name" json:"name"`
	Slug       string                                `gorm:"size:255;uniqueIndex:idx_product_slug;column:slug" json:"slug"`
	SKU        string                                `gorm:"size:64;index:idx_product_sku;column:sku" json:"sku"`
	Price      int64                                 `gorm:"not null;column:price" json:"price"`
	Stock      int                                   `gorm:"default:0;not null;column:stock" json:"stock"`
	Status     string                                `gorm:"size:20;default:ACTIVE;not null;index:idx_product_status;column:status" json:"status"`
	Thumbnail  string                                `gorm:"size:512;default:'';column:thumbnail" json:"thumbnail"`
	Images     datatypes.JSONSlice[string]           `gorm:"column:images" json:"images"`
	Attributes datatypes.JSONType[map[string]string] `gorm:"column:attributes" json:"attributes"`
	CreatedAt  time.Time                             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time                             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt                        `gorm:"index;column:deleted_at" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) Sellable() bool {
	return p.Status == ProductStatusActive
}

// ProductVariant 规格，库存独立计数；Price 为空时沿用商品价格
type ProductVariant struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ProductID uint64    `gorm:"not null;index:idx_variant_product;column:product_id" json:"product_id"`
	Name      string    `gorm:"size:255;not null;column:name" json:"name"`
	SKU       string    `gorm:"size:64;column:sku" json:"sku"`
	Price     *int64    `gorm:"column:price" json:"price"`
	Stock     int       `gorm:"default:0;not null;column:stock" json:"stock"`
	IsActive  bool      `gorm:"default:true;not null;column:is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}

// PriceOf 规格价优先
func PriceOf(p *Product, v *ProductVariant) int64 {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// StockOf 有规格时以规格库存为准
func StockOf(p *Product, v *ProductVariant) int {
	if v != nil {
		return v.Stock
	}
	return p.Stock
}
