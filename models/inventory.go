package models

import "time"

const (
	InventorySale   = "SALE"
	InventoryReturn = "RETURN"
	// 后台盘点调整
	InventoryAdjustment = "ADJUSTMENT"
)

// InventoryLog 库存流水，只追加不修改
type InventoryLog struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	ProductID   uint64    `gorm:"not null;index:idx_inventory_product;column:product_id" json:"product_id"`
	VariantID   uint64    `gorm:"not null;default:0;column:variant_id" json:"variant_id"`
	Type        string    `gorm:"size:16;not null;column:type" json:"type"`
	Quantity    int       `gorm:"not null;column:quantity" json:"quantity"` // 带符号的变动量
	BeforeStock int       `gorm:"not null;column:before_stock" json:"before_stock"`
	AfterStock  int       `gorm:"not null;column:after_stock" json:"after_stock"`
	Reason      string    `gorm:"size:255;column:reason" json:"reason"`
	Reference   string    `gorm:"size:32;index:idx_inventory_reference;column:reference" json:"reference"`
	PerformedBy string    `gorm:"size:64;column:performed_by" json:"performed_by"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (InventoryLog) TableName() string {
	return "inventory_logs"
}
