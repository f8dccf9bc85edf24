package service

import (
	"Shopcore/config"
	"Shopcore/dao"
	"Shopcore/dao/cache"
	"Shopcore/models"
	"Shopcore/pkg/database"
	"Shopcore/types"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	ctx       context.Context
	db        *gorm.DB
	mr        *miniredis.Miniredis
	conf      *config.Config
	products  *dao.Product
	inventory *dao.Inventory
	carts     *CartService
	orders    *OrderService
	catalog   *ProductService
	events    *recordingPublisher
}

func newTestConfig() *config.Config {
	return &config.Config{
		App:      &config.App{Env: "test"},
		Cart:     &config.Cart{ExpireDays: 7, CacheTTL: 10 * time.Minute},
		Shipping: &config.Shipping{FreeThreshold: 500000, Standard: 30000, Express: 50000, SameDay: 80000},
		Coupons: []config.Coupon{
			{Code: "SAVE10", Type: models.CouponTypePercentage, Value: 10},
			{Code: "MINUS20K", Type: models.CouponTypeFixed, Value: 20000},
		},
	}
}

// newTestEnv 每个用例独立的内存库，单连接使事务串行
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })

	conf := newTestConfig()
	products := dao.NewProduct(db)
	cartDAO := dao.NewCart(db)
	inventory := dao.NewInventory(db)

	carts := &CartService{
		Config:     conf,
		DB:         db,
		CartDAO:    cartDAO,
		ProductDAO: products,
		Cache:      cache.NewCartStorage(rds, conf),
		Coupons:    NewStaticCouponValidator(conf.Coupons),
	}
	events := &recordingPublisher{}
	orders := &OrderService{
		Config:       conf,
		DB:           db,
		CartService:  carts,
		CartDAO:      cartDAO,
		ProductDAO:   products,
		OrderDAO:     dao.NewOrder(db),
		TrackingDAO:  dao.NewTracking(db),
		InventoryDAO: inventory,
		SequenceDAO:  dao.NewSequence(db),
		Publisher:    events,
	}

	return &testEnv{
		ctx:       context.Background(),
		db:        db,
		mr:        mr,
		conf:      conf,
		products:  products,
		inventory: inventory,
		carts:     carts,
		orders:    orders,
		catalog:   &ProductService{Config: conf, DB: db, ProductDAO: products, InventoryDAO: inventory},
		events:    events,
	}
}

func (e *testEnv) product(t *testing.T, name string, price int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:      name,
		Slug:      "p-" + uuid.NewString(),
		SKU:       "SKU-" + name,
		Price:     price,
		Stock:     stock,
		Status:    models.ProductStatusActive,
		Thumbnail: "https://img.example.com/" + name + ".png",
		Images:    []string{"https://img.example.com/" + name + "-1.png"},
	}
	require.NoError(t, e.products.CreateProduct(e.ctx, p))
	return p
}

func (e *testEnv) variant(t *testing.T, p *models.Product, name string, price int64, stock int) *models.ProductVariant {
	t.Helper()
	v := &models.ProductVariant{
		ProductID: p.ID,
		Name:      name,
		SKU:       p.SKU + "-" + name,
		Price:     &price,
		Stock:     stock,
		IsActive:  true,
	}
	require.NoError(t, e.db.Create(v).Error)
	return v
}

func (e *testEnv) stock(t *testing.T, productID, variantID uint64) int {
	t.Helper()
	if variantID > 0 {
		v, err := e.products.FindVariant(e.ctx, productID, variantID)
		require.NoError(t, err)
		return v.Stock
	}
	var p models.Product
	require.NoError(t, e.db.Unscoped().First(&p, productID).Error)
	return p.Stock
}

func (e *testEnv) setStock(t *testing.T, productID uint64, stock int) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.Product{}).Where("id = ?", productID).Update("stock", stock).Error)
}

func (e *testEnv) setOrderStatus(t *testing.T, orderID uint64, status string) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status).Error)
}

func (e *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func testAddress() models.Address {
	return models.Address{
		FullName:   "张三",
		Phone:      "13800000000",
		Line1:      "人民路 1 号",
		City:       "上海",
		PostalCode: "200000",
		Country:    "CN",
	}
}

func standardOrder() *types.CreateOrderRequest {
	return &types.CreateOrderRequest{ShippingMethod: models.ShippingStandard, ShippingAddress: testAddress()}
}
