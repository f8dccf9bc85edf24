package dao

import (
	"Shopcore/models"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Product struct {
	Repo[models.Product]
	Variants Repo[models.ProductVariant]
}

func NewProduct(db *gorm.DB) *Product {
	return &Product{
		Repo:     NewRepo[models.Product](db),
		Variants: NewRepo[models.ProductVariant](db),
	}
}

func (p *Product) WithTx(tx *gorm.DB) *Product {
	return &Product{Repo: p.Repo.WithTx(tx), Variants: p.Variants.WithTx(tx)}
}

func (p *Product) CreateProduct(ctx context.Context, product *models.Product) error {
	return p.Db.WithContext(ctx).Create(product).Error
}

// FindVariant 规格必须属于该商品
func (p *Product) FindVariant(ctx context.Context, productID, variantID uint64) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := p.Db.WithContext(ctx).
		Where("id = ? AND product_id = ?", variantID, productID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *Product) ListVariants(ctx context.Context, productID uint64) ([]models.ProductVariant, error) {
	var vs []models.ProductVariant
	err := p.Db.WithContext(ctx).Where("product_id = ?", productID).Order("id ASC").Find(&vs).Error
	return vs, err
}

// ExistsSlug 包含已软删除的，slug 唯一索引不区分删除状态
func (p *Product) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := p.Db.WithContext(ctx).Unscoped().Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// LockProduct 行锁读取商品，包含已软删除的（取消订单回补库存时商品可能已下架删除）
func (p *Product) LockProduct(ctx context.Context, productID uint64) (*models.Product, error) {
	var m models.Product
	err := p.Db.WithContext(ctx).Unscoped().
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, productID).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (p *Product) LockVariant(ctx context.Context, productID, variantID uint64) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := p.Db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND product_id = ?", variantID, productID).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ProductMap 批量加载商品，包含已软删除的，用于展示历史明细
func (p *Product) ProductMap(ctx context.Context, ids []uint64) (map[uint64]*models.Product, error) {
	out := make(map[uint64]*models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []*models.Product
	if err := p.Db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (p *Product) VariantMap(ctx context.Context, ids []uint64) (map[uint64]*models.ProductVariant, error) {
	out := make(map[uint64]*models.ProductVariant, len(ids))
	items, err := p.Variants.FindByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

// AdjustStock 原子增减库存，扣减时要求剩余库存不为负
// 返回 false 表示条件不满足（库存不足或行不存在）
func (p *Product) AdjustStock(ctx context.Context, productID, variantID uint64, delta int) (bool, error) {
	var res *gorm.DB
	if variantID > 0 {
		res = p.Db.WithContext(ctx).Model(&models.ProductVariant{}).
			Where("id = ? AND product_id = ? AND stock + ? >= 0", variantID, productID, delta).
			Update("stock", gorm.Expr("stock + ?", delta))
	} else {
		res = p.Db.WithContext(ctx).Unscoped().Model(&models.Product{}).
			Where("id = ? AND stock + ? >= 0", productID, delta).
			Update("stock", gorm.Expr("stock + ?", delta))
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
