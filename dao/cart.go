package dao

import (
	"Shopcore/models"
	"Shopcore/types"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Cart struct {
	Repo[models.Cart]
}

func NewCart(db *gorm.DB) *Cart {
	return &Cart{Repo: NewRepo[models.Cart](db)}
}

func (c *Cart) WithTx(tx *gorm.DB) *Cart {
	return &Cart{Repo: c.Repo.WithTx(tx)}
}

func ownerScope(owner types.Owner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch o := owner.(type) {
		case types.User:
			return db.Where("user_id = ?", o.ID)
		case types.Guest:
			return db.Where("session_id = ?", o.SessionID)
		}
		// 未知 Owner 不匹配任何记录
		return db.Where("1 = 0")
	}
}

// FindByOwner 未找到返回 gorm.ErrRecordNotFound
func (c *Cart) FindByOwner(ctx context.Context, owner types.Owner) (*models.Cart, error) {
	var cart models.Cart
	err := c.Db.WithContext(ctx).Scopes(ownerScope(owner)).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// LockByOwner 事务内加行锁读取
func (c *Cart) LockByOwner(ctx context.Context, owner types.Owner) (*models.Cart, error) {
	var cart models.Cart
	err := c.Db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(ownerScope(owner)).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Ensure 查找或创建，并发创建依赖唯一索引去重
func (c *Cart) Ensure(ctx context.Context, owner types.Owner, expiresAt time.Time) (*models.Cart, error) {
	cart, err := c.FindByOwner(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	row := &models.Cart{ExpiresAt: expiresAt}
	row.Metadata = newCartMetadata(models.CartMetadata{})
	switch o := owner.(type) {
	case types.User:
		id := o.ID
		row.UserID = &id
	case types.Guest:
		sid := o.SessionID
		row.SessionID = &sid
	}
	if err := c.Db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		return nil, err
	}
	return c.FindByOwner(ctx, owner)
}

func (c *Cart) Items(ctx context.Context, cartID uint64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := c.Db.WithContext(ctx).Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error
	return items, err
}

func (c *Cart) FindItem(ctx context.Context, itemID uint64) (*models.CartItem, error) {
	var item models.CartItem
	if err := c.Db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindLine 同一购物车内 (商品, 规格) 唯一
func (c *Cart) FindLine(ctx context.Context, cartID, productID, variantID uint64) (*models.CartItem, error) {
	var item models.CartItem
	err := c.Db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND variant_id = ?", cartID, productID, variantID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Cart) CreateItem(ctx context.Context, item *models.CartItem) error {
	return c.Db.WithContext(ctx).Create(item).Error
}

func (c *Cart) SetQuantity(ctx context.Context, itemID uint64, quantity int) error {
	return c.Db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// MoveItem 把明细挂到另一个购物车
func (c *Cart) MoveItem(ctx context.Context, itemID, cartID uint64) error {
	return c.Db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("cart_id", cartID).Error
}

func (c *Cart) DeleteItem(ctx context.Context, itemID uint64) error {
	return c.Db.WithContext(ctx).Delete(&models.CartItem{}, itemID).Error
}

func (c *Cart) ClearItems(ctx context.Context, cartID uint64) error {
	return c.Db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// SaveTotals 回写金额汇总与元数据，同时续期
func (c *Cart) SaveTotals(ctx context.Context, cart *models.Cart) error {
	return c.Db.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", cart.ID).
		Updates(map[string]any{
			"subtotal":     cart.Subtotal,
			"discount":     cart.Discount,
			"shipping_fee": cart.ShippingFee,
			"tax":          cart.Tax,
			"total":        cart.Total,
			"item_count":   cart.ItemCount,
			"metadata":     cart.Metadata,
			"expires_at":   cart.ExpiresAt,
		}).Error
}

// Reown 匿名购物车转给用户
func (c *Cart) Reown(ctx context.Context, cartID, userID uint64) error {
	return c.Db.WithContext(ctx).Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"user_id":    userID,
			"session_id": nil,
		}).Error
}

func (c *Cart) Delete(ctx context.Context, cartID uint64) error {
	return c.Db.WithContext(ctx).Delete(&models.Cart{}, cartID).Error
}

// ExpiredBefore 取一批已过期的购物车
func (c *Cart) ExpiredBefore(ctx context.Context, now time.Time, limit int) ([]models.Cart, error) {
	var carts []models.Cart
	err := c.Db.WithContext(ctx).
		Select("id", "user_id", "session_id").
		Where("expires_at < ?", now).
		Order("id ASC").
		Limit(limit).
		Find(&carts).Error
	return carts, err
}

// DeleteExpired 删除指定的过期购物车及其明细，再次校验过期时间避免误删刚续期的
func (c *Cart) DeleteExpired(ctx context.Context, ids []uint64, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := c.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var live []uint64
		if err := tx.Model(&models.Cart{}).
			Where("id IN ? AND expires_at < ?", ids, now).
			Pluck("id", &live).Error; err != nil {
			return err
		}
		if len(live) == 0 {
			return nil
		}
		if err := tx.Where("cart_id IN ?", live).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", live).Delete(&models.Cart{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}
