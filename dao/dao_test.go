package dao

import (
	"Shopcore/models"
	"Shopcore/pkg/database"
	"Shopcore/types"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSequence_Next(t *testing.T) {
	db := newTestDB(t)
	seq := NewSequence(db)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := seq.Next(ctx, "20260101")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := seq.Next(ctx, "20260102")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

// 事务回滚后序号不被占用
func TestSequence_RolledBackWithTx(t *testing.T) {
	db := newTestDB(t)
	seq := NewSequence(db)
	ctx := context.Background()

	_ = db.Transaction(func(tx *gorm.DB) error {
		n, err := seq.WithTx(tx).Next(ctx, "20260101")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return fmt.Errorf("rollback")
	})

	n, err := seq.Next(ctx, "20260101")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProduct_AdjustStock(t *testing.T) {
	db := newTestDB(t)
	products := NewProduct(db)
	ctx := context.Background()

	p := &models.Product{Name: "A", Slug: "a", Price: 100, Stock: 2, Status: models.ProductStatusActive}
	require.NoError(t, products.CreateProduct(ctx, p))
	v := &models.ProductVariant{ProductID: p.ID, Name: "red", Stock: 1, IsActive: true}
	require.NoError(t, db.Create(v).Error)

	ok, err := products.AdjustStock(ctx, p.ID, 0, -2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = products.AdjustStock(ctx, p.ID, 0, -1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = products.AdjustStock(ctx, p.ID, v.ID, -2)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = products.AdjustStock(ctx, p.ID, v.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	// 规格必须属于该商品
	ok, err = products.AdjustStock(ctx, p.ID+1, v.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	locked, err := products.LockVariant(ctx, p.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, locked.Stock)

	// 软删除的商品仍可回补
	require.NoError(t, db.Delete(p).Error)
	ok, err = products.AdjustStock(ctx, p.ID, 0, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := products.LockProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestCart_EnsureIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	carts := NewCart(db)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	a, err := carts.Ensure(ctx, types.User{ID: 1}, exp)
	require.NoError(t, err)
	b, err := carts.Ensure(ctx, types.User{ID: 1}, exp)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	g, err := carts.Ensure(ctx, types.Guest{SessionID: "s"}, exp)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, g.ID)
	require.NotNil(t, g.SessionID)
	assert.Nil(t, g.UserID)
	assert.Equal(t, models.MetadataVersion, g.Metadata.Data().Version)
}

func TestCart_DeleteExpiredRechecksExpiry(t *testing.T) {
	db := newTestDB(t)
	carts := NewCart(db)
	ctx := context.Background()
	now := time.Now()

	old, err := carts.Ensure(ctx, types.Guest{SessionID: "old"}, now.Add(-time.Hour))
	require.NoError(t, err)
	renewed, err := carts.Ensure(ctx, types.Guest{SessionID: "renewed"}, now.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, carts.CreateItem(ctx, &models.CartItem{CartID: old.ID, ProductID: 1, Quantity: 1, Price: 1}))

	expired, err := carts.ExpiredBefore(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, expired, 2)

	// 扫描之后被续期
	require.NoError(t, db.Model(&models.Cart{}).Where("id = ?", renewed.ID).Update("expires_at", now.Add(time.Hour)).Error)

	n, err := carts.DeleteExpired(ctx, []uint64{old.ID, renewed.ID}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, err := carts.Items(ctx, old.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	_, err = carts.FindByOwner(ctx, types.Guest{SessionID: "renewed"})
	assert.NoError(t, err)
}

func TestEndOfRange(t *testing.T) {
	day := time.Date(2026, 3, 8, 0, 0, 0, 0, time.Local)
	assert.Equal(t, day.AddDate(0, 0, 1), endOfRange(day))

	precise := time.Date(2026, 3, 8, 15, 30, 0, 0, time.Local)
	assert.Equal(t, precise, endOfRange(precise))
}
