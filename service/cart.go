package service

import (
	"Shopcore/config"
	"Shopcore/dao"
	"Shopcore/dao/cache"
	"Shopcore/models"
	"Shopcore/pkg/errs"
	"Shopcore/pkg/log"
	"Shopcore/pkg/metrics"
	"Shopcore/types"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const sweepBatch = 500

type CartService struct {
	Config     *config.Config
	DB         *gorm.DB
	CartDAO    *dao.Cart
	ProductDAO *dao.Product
	Cache      *cache.CartStorage
	Coupons    CouponValidator
}

var _ ICartService = (*CartService)(nil)

type ICartService interface {
	GetOrCreateCart(ctx context.Context, owner types.Owner) (*types.Cart, error)
	AddItem(ctx context.Context, owner types.Owner, req *types.AddCartItemRequest) (*types.Cart, error)
	UpdateItem(ctx context.Context, owner types.Owner, itemID uint64, quantity int) (*types.Cart, error)
	RemoveItem(ctx context.Context, owner types.Owner, itemID uint64) (*types.Cart, error)
	ClearCart(ctx context.Context, owner types.Owner) (*types.Cart, error)
	ApplyCoupon(ctx context.Context, owner types.Owner, req *types.ApplyCouponRequest) (*types.Cart, error)
	RemoveCoupon(ctx context.Context, owner types.Owner) (*types.Cart, error)
	MergeCarts(ctx context.Context, userID uint64, sessionID string) (*types.Cart, error)
	ValidateCart(ctx context.Context, owner types.Owner) (*types.ValidationResult, error)
	CleanupExpiredCarts(ctx context.Context) (*types.CleanupResult, error)
}

func (s *CartService) expiresAt() time.Time {
	return time.Now().Add(s.Config.Cart.Expiry())
}

// GetOrCreateCart 先读缓存，未命中回源数据库并回填
func (s *CartService) GetOrCreateCart(ctx context.Context, owner types.Owner) (*types.Cart, error) {
	if owner == nil {
		return nil, errs.ErrInvalidIdentity
	}
	if cached, err := s.Cache.Get(ctx, owner); err != nil {
		log.L.Warn("cart cache get failed", zap.String("owner", owner.String()), zap.Error(err))
	} else if cached != nil {
		metrics.CartCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.CartCacheTotal.WithLabelValues("miss").Inc()

	cart, err := s.CartDAO.Ensure(ctx, owner, s.expiresAt())
	if err != nil {
		return nil, err
	}
	view, err := s.load(ctx, s.DB, cart)
	if err != nil {
		return nil, err
	}
	s.cacheFill(ctx, owner, view)
	return view, nil
}

func (s *CartService) AddItem(ctx context.Context, owner types.Owner, req *types.AddCartItemRequest) (*types.Cart, error) {
	if req.Quantity <= 0 {
		return nil, errs.ErrInvalidQuantity
	}
	return s.mutate(ctx, owner, "add", func(tx *gorm.DB, cart *models.Cart) error {
		product, variant, err := s.sellable(ctx, s.ProductDAO.WithTx(tx), req.ProductID, req.VariantID)
		if err != nil {
			return err
		}
		stock := models.StockOf(product, variant)
		price := models.PriceOf(product, variant)

		cartDAO := s.CartDAO.WithTx(tx)
		line, err := cartDAO.FindLine(ctx, cart.ID, req.ProductID, req.VariantID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if line != nil {
			quantity := line.Quantity + req.Quantity
			if quantity > stock {
				return stockError(product, variant, quantity, stock)
			}
			// 再次加购视为重新确认价格，快照刷新为当前价
			return tx.WithContext(ctx).Model(&models.CartItem{}).
				Where("id = ?", line.ID).
				Updates(map[string]any{"quantity": quantity, "price": price}).Error
		}

		if req.Quantity > stock {
			return stockError(product, variant, req.Quantity, stock)
		}
		return cartDAO.CreateItem(ctx, &models.CartItem{
			CartID:    cart.ID,
			ProductID: req.ProductID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
			Price:     price,
		})
	})
}

func (s *CartService) UpdateItem(ctx context.Context, owner types.Owner, itemID uint64, quantity int) (*types.Cart, error) {
	if quantity <= 0 {
		return nil, errs.ErrInvalidQuantity
	}
	return s.mutate(ctx, owner, "update", func(tx *gorm.DB, cart *models.Cart) error {
		cartDAO := s.CartDAO.WithTx(tx)
		item, err := s.ownedItem(ctx, cartDAO, cart, itemID)
		if err != nil {
			return err
		}

		product, variant, err := s.lookup(ctx, s.ProductDAO.WithTx(tx), item.ProductID, item.VariantID)
		if err != nil {
			return err
		}
		if stock := models.StockOf(product, variant); quantity > stock {
			return stockError(product, variant, quantity, stock)
		}
		return cartDAO.SetQuantity(ctx, item.ID, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, owner types.Owner, itemID uint64) (*types.Cart, error) {
	return s.mutate(ctx, owner, "remove", func(tx *gorm.DB, cart *models.Cart) error {
		cartDAO := s.CartDAO.WithTx(tx)
		item, err := s.ownedItem(ctx, cartDAO, cart, itemID)
		if err != nil {
			return err
		}
		return cartDAO.DeleteItem(ctx, item.ID)
	})
}

func (s *CartService) ClearCart(ctx context.Context, owner types.Owner) (*types.Cart, error) {
	return s.mutate(ctx, owner, "clear", func(tx *gorm.DB, cart *models.Cart) error {
		return s.CartDAO.WithTx(tx).ClearItems(ctx, cart.ID)
	})
}

// ApplyCoupon 同一时间只保留一张券，新券覆盖旧券
func (s *CartService) ApplyCoupon(ctx context.Context, owner types.Owner, req *types.ApplyCouponRequest) (*types.Cart, error) {
	coupon, err := s.Coupons.Validate(ctx, req.CouponCode)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, owner, "apply_coupon", func(tx *gorm.DB, cart *models.Cart) error {
		meta := cart.Metadata.Data()
		meta.Coupon = coupon
		cart.Metadata = cartMetadata(meta)
		return nil
	})
}

func (s *CartService) RemoveCoupon(ctx context.Context, owner types.Owner) (*types.Cart, error) {
	return s.mutate(ctx, owner, "remove_coupon", func(tx *gorm.DB, cart *models.Cart) error {
		meta := cart.Metadata.Data()
		meta.Coupon = nil
		cart.Metadata = cartMetadata(meta)
		return nil
	})
}

// MergeCarts 登录后把匿名购物车并入用户购物车
func (s *CartService) MergeCarts(ctx context.Context, userID uint64, sessionID string) (*types.Cart, error) {
	if userID == 0 || sessionID == "" {
		return nil, errs.ErrInvalidIdentity
	}
	user := types.User{ID: userID}
	guest := types.Guest{SessionID: sessionID}

	var view *types.Cart
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cartDAO := s.CartDAO.WithTx(tx)

		// 固定先锁匿名车再锁用户车，避免并发合并互相等待
		guestCart, err := cartDAO.LockByOwner(ctx, guest)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		var guestItems []models.CartItem
		if guestCart != nil {
			if guestItems, err = cartDAO.Items(ctx, guestCart.ID); err != nil {
				return err
			}
		}

		userCart, err := cartDAO.LockByOwner(ctx, user)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		switch {
		case len(guestItems) == 0:
			// 没有可合并的内容，原样返回用户购物车
			if userCart == nil {
				if userCart, err = cartDAO.Ensure(ctx, user, s.expiresAt()); err != nil {
					return err
				}
			}
			view, err = s.load(ctx, tx, userCart)
			return err

		case userCart == nil:
			// 用户还没有购物车，直接转移归属
			if err := cartDAO.Reown(ctx, guestCart.ID, userID); err != nil {
				return err
			}
			guestCart.UserID = &userID
			guestCart.SessionID = nil
			view, err = s.refresh(ctx, tx, guestCart)
			return err
		}

		for i := range guestItems {
			it := &guestItems[i]
			line, err := cartDAO.FindLine(ctx, userCart.ID, it.ProductID, it.VariantID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if line == nil {
				if err := cartDAO.MoveItem(ctx, it.ID, userCart.ID); err != nil {
					return err
				}
				continue
			}
			if err := cartDAO.SetQuantity(ctx, line.ID, line.Quantity+it.Quantity); err != nil {
				return err
			}
			if err := cartDAO.DeleteItem(ctx, it.ID); err != nil {
				return err
			}
		}

		// 用户车没有券时沿用匿名车的券
		userMeta := userCart.Metadata.Data()
		if guestMeta := guestCart.Metadata.Data(); userMeta.Coupon == nil && guestMeta.Coupon != nil {
			userMeta.Coupon = guestMeta.Coupon
			userCart.Metadata = cartMetadata(userMeta)
		}
		if err := cartDAO.Delete(ctx, guestCart.ID); err != nil {
			return err
		}
		view, err = s.refresh(ctx, tx, userCart)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.CartMutationTotal.WithLabelValues("merge").Inc()
	s.invalidate(ctx, user, guest)
	s.cacheSet(ctx, user, view)
	return view, nil
}

// ValidateCart 只读校验：下架、库存不足、价格变动
func (s *CartService) ValidateCart(ctx context.Context, owner types.Owner) (*types.ValidationResult, error) {
	if owner == nil {
		return nil, errs.ErrInvalidIdentity
	}
	cart, err := s.CartDAO.FindByOwner(ctx, owner)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &types.ValidationResult{IsValid: true, Errors: []string{}, Cart: emptyView(owner)}, nil
	}
	if err != nil {
		return nil, err
	}
	problems, view, err := s.validate(ctx, s.DB, cart)
	if err != nil {
		return nil, err
	}
	return &types.ValidationResult{IsValid: len(problems) == 0, Errors: problems, Cart: view}, nil
}

// CleanupExpiredCarts 定时任务：分批删除已过期的购物车
func (s *CartService) CleanupExpiredCarts(ctx context.Context) (*types.CleanupResult, error) {
	now := time.Now()
	var total int64
	for {
		carts, err := s.CartDAO.ExpiredBefore(ctx, now, sweepBatch)
		if err != nil {
			return nil, err
		}
		if len(carts) == 0 {
			break
		}
		ids := make([]uint64, 0, len(carts))
		owners := make([]types.Owner, 0, len(carts))
		for _, c := range carts {
			ids = append(ids, c.ID)
			if o := ownerOf(&c); o != nil {
				owners = append(owners, o)
			}
		}
		n, err := s.CartDAO.DeleteExpired(ctx, ids, now)
		if err != nil {
			return nil, err
		}
		total += n
		s.invalidate(ctx, owners...)
		if len(carts) < sweepBatch {
			break
		}
	}
	if total > 0 {
		log.L.Info("expired carts removed", zap.Int64("count", total))
	}
	return &types.CleanupResult{DeletedCount: total}, nil
}

// mutate 所有写操作的唯一入口：事务内锁定购物车执行 fn，重算并落库汇总，
// 提交后失效缓存并写入最新视图
func (s *CartService) mutate(ctx context.Context, owner types.Owner, op string, fn func(tx *gorm.DB, cart *models.Cart) error) (*types.Cart, error) {
	if owner == nil {
		return nil, errs.ErrInvalidIdentity
	}
	if _, err := s.CartDAO.Ensure(ctx, owner, s.expiresAt()); err != nil {
		return nil, err
	}

	var view *types.Cart
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.lockCart(ctx, tx, owner)
		if err != nil {
			return err
		}
		if err := fn(tx, cart); err != nil {
			return err
		}
		view, err = s.refresh(ctx, tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.CartMutationTotal.WithLabelValues(op).Inc()
	s.invalidate(ctx, owner)
	s.cacheSet(ctx, owner, view)
	return view, nil
}

// lockCart 加锁读取购物车；若在 Ensure 之后被清理或合并删除，事务内重建一次
func (s *CartService) lockCart(ctx context.Context, tx *gorm.DB, owner types.Owner) (*models.Cart, error) {
	cartDAO := s.CartDAO.WithTx(tx)
	cart, err := cartDAO.LockByOwner(ctx, owner)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return cart, err
	}
	if _, err := cartDAO.Ensure(ctx, owner, s.expiresAt()); err != nil {
		return nil, err
	}
	cart, err = cartDAO.LockByOwner(ctx, owner)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 购物车", errs.ErrNotFound)
	}
	return cart, err
}

// refresh 重算汇总、续期并写回购物车行
func (s *CartService) refresh(ctx context.Context, db *gorm.DB, cart *models.Cart) (*types.Cart, error) {
	items, err := s.CartDAO.WithTx(db).Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	applyTotals(cart, CalculateTotals(items, cart.Metadata.Data().Coupon))
	cart.ExpiresAt = s.expiresAt()
	if err := s.CartDAO.WithTx(db).SaveTotals(ctx, cart); err != nil {
		return nil, err
	}
	return s.build(ctx, db, cart, items)
}

// load 从数据库构建视图，不写入
func (s *CartService) load(ctx context.Context, db *gorm.DB, cart *models.Cart) (*types.Cart, error) {
	items, err := s.CartDAO.WithTx(db).Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	applyTotals(cart, CalculateTotals(items, cart.Metadata.Data().Coupon))
	return s.build(ctx, db, cart, items)
}

func (s *CartService) build(ctx context.Context, db *gorm.DB, cart *models.Cart, items []models.CartItem) (*types.Cart, error) {
	products, variants, err := s.catalog(ctx, db, items)
	if err != nil {
		return nil, err
	}

	view := &types.Cart{
		ID:          cart.ID,
		UserID:      cart.UserID,
		SessionID:   cart.SessionID,
		Items:       make([]types.CartLine, 0, len(items)),
		Subtotal:    cart.Subtotal,
		Discount:    cart.Discount,
		ShippingFee: cart.ShippingFee,
		Tax:         cart.Tax,
		Total:       cart.Total,
		ItemCount:   cart.ItemCount,
		Coupon:      cart.Metadata.Data().Coupon,
		ExpiresAt:   cart.ExpiresAt,
	}
	for _, it := range items {
		line := types.CartLine{
			ID:        it.ID,
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Price * int64(it.Quantity),
		}
		if p := products[it.ProductID]; p != nil {
			line.ProductName = p.Name
			line.SKU = p.SKU
			line.Thumbnail = p.Thumbnail
		}
		if v := variants[it.VariantID]; v != nil {
			line.VariantName = v.Name
			if v.SKU != "" {
				line.SKU = v.SKU
			}
		}
		view.Items = append(view.Items, line)
	}
	return view, nil
}

// validate 逐行比对实时商品数据，返回问题列表
func (s *CartService) validate(ctx context.Context, db *gorm.DB, cart *models.Cart) ([]string, *types.Cart, error) {
	items, err := s.CartDAO.WithTx(db).Items(ctx, cart.ID)
	if err != nil {
		return nil, nil, err
	}
	products, variants, err := s.catalog(ctx, db, items)
	if err != nil {
		return nil, nil, err
	}

	problems := make([]string, 0)
	for _, it := range items {
		p := products[it.ProductID]
		if p == nil || p.DeletedAt.Valid || !p.Sellable() {
			problems = append(problems, fmt.Sprintf("商品 #%d %s已下架", it.ProductID, nameOf(p)))
			continue
		}
		var v *models.ProductVariant
		if it.VariantID > 0 {
			v = variants[it.VariantID]
			if v == nil || !v.IsActive || v.ProductID != p.ID {
				problems = append(problems, fmt.Sprintf("商品 %q 的规格 #%d 已下架", p.Name, it.VariantID))
				continue
			}
		}
		if stock := models.StockOf(p, v); it.Quantity > stock {
			problems = append(problems, fmt.Sprintf("商品 %q 库存不足，需要 %d 件，剩余 %d 件", p.Name, it.Quantity, stock))
		}
		if price := models.PriceOf(p, v); price != it.Price {
			problems = append(problems, fmt.Sprintf("商品 %q 价格已由 %d 变为 %d", p.Name, it.Price, price))
		}
	}

	applyTotals(cart, CalculateTotals(items, cart.Metadata.Data().Coupon))
	view, err := s.build(ctx, db, cart, items)
	if err != nil {
		return nil, nil, err
	}
	return problems, view, nil
}

func (s *CartService) catalog(ctx context.Context, db *gorm.DB, items []models.CartItem) (map[uint64]*models.Product, map[uint64]*models.ProductVariant, error) {
	productIDs := make([]uint64, 0, len(items))
	variantIDs := make([]uint64, 0)
	for _, it := range items {
		productIDs = append(productIDs, it.ProductID)
		if it.VariantID > 0 {
			variantIDs = append(variantIDs, it.VariantID)
		}
	}
	productDAO := s.ProductDAO.WithTx(db)
	products, err := productDAO.ProductMap(ctx, productIDs)
	if err != nil {
		return nil, nil, err
	}
	variants, err := productDAO.VariantMap(ctx, variantIDs)
	if err != nil {
		return nil, nil, err
	}
	return products, variants, nil
}

// sellable 加购时的商品校验
func (s *CartService) sellable(ctx context.Context, productDAO *dao.Product, productID, variantID uint64) (*models.Product, *models.ProductVariant, error) {
	product, variant, err := s.lookup(ctx, productDAO, productID, variantID)
	if err != nil {
		return nil, nil, err
	}
	if !product.Sellable() {
		return nil, nil, fmt.Errorf("%w: %s", errs.ErrProductUnavailable, product.Name)
	}
	if variant != nil && !variant.IsActive {
		return nil, nil, fmt.Errorf("%w: %s %s", errs.ErrProductUnavailable, product.Name, variant.Name)
	}
	return product, variant, nil
}

func (s *CartService) lookup(ctx context.Context, productDAO *dao.Product, productID, variantID uint64) (*models.Product, *models.ProductVariant, error) {
	product, err := productDAO.FindById(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: #%d", errs.ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, nil, err
	}
	if variantID == 0 {
		return product, nil, nil
	}
	variant, err := productDAO.FindVariant(ctx, productID, variantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("%w: 规格 #%d", errs.ErrProductNotFound, variantID)
	}
	if err != nil {
		return nil, nil, err
	}
	return product, variant, nil
}

// ownedItem 明细不存在返回 NotFound，不属于当前购物车返回 Forbidden
func (s *CartService) ownedItem(ctx context.Context, cartDAO *dao.Cart, cart *models.Cart, itemID uint64) (*models.CartItem, error) {
	item, err := cartDAO.FindItem(ctx, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: 购物车明细 #%d", errs.ErrNotFound, itemID)
	}
	if err != nil {
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, errs.ErrForbidden
	}
	return item, nil
}

func (s *CartService) invalidate(ctx context.Context, owners ...types.Owner) {
	if err := s.Cache.Del(ctx, owners...); err != nil {
		log.L.Warn("cart cache invalidate failed", zap.Error(err))
	}
}

func (s *CartService) cacheSet(ctx context.Context, owner types.Owner, view *types.Cart) {
	if err := s.Cache.Set(ctx, owner, view); err != nil {
		log.L.Warn("cart cache set failed", zap.String("owner", owner.String()), zap.Error(err))
	}
}

// cacheFill 回源后的回填只在缓存为空时写入，并发写操作写入的新视图优先
func (s *CartService) cacheFill(ctx context.Context, owner types.Owner, view *types.Cart) {
	if _, err := s.Cache.SetIfAbsent(ctx, owner, view); err != nil {
		log.L.Warn("cart cache fill failed", zap.String("owner", owner.String()), zap.Error(err))
	}
}

func applyTotals(cart *models.Cart, t Totals) {
	cart.Subtotal = t.Subtotal
	cart.Discount = t.Discount
	cart.Total = t.Total
	cart.ItemCount = t.ItemCount
	// 运费和税在下单时计算
	cart.ShippingFee = 0
	cart.Tax = 0
}

func cartMetadata(m models.CartMetadata) datatypes.JSONType[models.CartMetadata] {
	m.Version = models.MetadataVersion
	return datatypes.NewJSONType(m)
}

func stockError(p *models.Product, v *models.ProductVariant, requested, available int) error {
	e := &errs.StockError{ProductID: p.ID, Name: p.Name, Requested: requested, Available: available}
	if v != nil {
		e.VariantID = v.ID
		e.Name = p.Name + " " + v.Name
	}
	return e
}

func ownerOf(c *models.Cart) types.Owner {
	switch {
	case c.UserID != nil:
		return types.User{ID: *c.UserID}
	case c.SessionID != nil:
		return types.Guest{SessionID: *c.SessionID}
	}
	return nil
}

func emptyView(owner types.Owner) *types.Cart {
	view := &types.Cart{Items: []types.CartLine{}}
	switch o := owner.(type) {
	case types.User:
		id := o.ID
		view.UserID = &id
	case types.Guest:
		sid := o.SessionID
		view.SessionID = &sid
	}
	return view
}

func nameOf(p *models.Product) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%q ", p.Name)
}
