package dao

import (
	"Shopcore/models"
	"context"

	"gorm.io/gorm"
)

// Inventory 库存流水，只提供追加和查询
type Inventory struct {
	Repo[models.InventoryLog]
}

func NewInventory(db *gorm.DB) *Inventory {
	return &Inventory{Repo: NewRepo[models.InventoryLog](db)}
}

func (i *Inventory) WithTx(tx *gorm.DB) *Inventory {
	return &Inventory{Repo: i.Repo.WithTx(tx)}
}

func (i *Inventory) Append(ctx context.Context, entry *models.InventoryLog) error {
	return i.Db.WithContext(ctx).Create(entry).Error
}

func (i *Inventory) ListByReference(ctx context.Context, reference string) ([]models.InventoryLog, error) {
	var logs []models.InventoryLog
	err := i.Db.WithContext(ctx).Where("reference = ?", reference).Order("id ASC").Find(&logs).Error
	return logs, err
}

// ListByProduct 最近的流水在前
func (i *Inventory) ListByProduct(ctx context.Context, productID uint64, limit int) ([]models.InventoryLog, error) {
	var logs []models.InventoryLog
	err := i.Db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// Balance 某商品(规格)流水变动量合计，用于对账
func (i *Inventory) Balance(ctx context.Context, productID, variantID uint64) (int64, error) {
	var sum int64
	err := i.Db.WithContext(ctx).Model(&models.InventoryLog{}).
		Where("product_id = ? AND variant_id = ?", productID, variantID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	return sum, err
}
