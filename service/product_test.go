package service

import (
	"Shopcore/models"
	"Shopcore/pkg/errs"
	"Shopcore/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_CreateWithVariants(t *testing.T) {
	env := newTestEnv(t)
	price := int64(12000)

	detail, err := env.catalog.CreateProduct(env.ctx, &types.CreateProductRequest{
		Name:       "T恤",
		Slug:       "tee",
		Price:      9900,
		Stock:      3,
		Attributes: map[string]string{"material": "cotton"},
		Variants: []types.CreateVariantRequest{
			{Name: "S", Stock: 2},
			{Name: "XL", Price: &price, Stock: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProductStatusDraft, detail.Status)
	require.Len(t, detail.Variants, 2)
	assert.Equal(t, int64(9900), models.PriceOf(detail.Product, &detail.Variants[0]))
	assert.Equal(t, price, models.PriceOf(detail.Product, &detail.Variants[1]))
	assert.Equal(t, "cotton", detail.Attributes.Data()["material"])

	_, err = env.catalog.CreateProduct(env.ctx, &types.CreateProductRequest{Name: "dup", Slug: "tee"})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = env.catalog.CreateProduct(env.ctx, &types.CreateProductRequest{Name: "x", Slug: "x", Status: "SOLD"})
	assert.ErrorIs(t, err, errs.ErrInvalidArgument)
}

// 草稿商品不可加购，上架后可以
func TestProduct_StatusGatesCart(t *testing.T) {
	env := newTestEnv(t)
	detail, err := env.catalog.CreateProduct(env.ctx, &types.CreateProductRequest{Name: "灯", Slug: "lamp", Price: 5000, Stock: 5})
	require.NoError(t, err)
	owner := types.User{ID: 1}

	_, err = env.carts.AddItem(env.ctx, owner, &types.AddCartItemRequest{ProductID: detail.ID, Quantity: 1})
	assert.ErrorIs(t, err, errs.ErrProductUnavailable)

	require.NoError(t, env.catalog.SetStatus(env.ctx, detail.ID, "active"))
	_, err = env.carts.AddItem(env.ctx, owner, &types.AddCartItemRequest{ProductID: detail.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, env.catalog.SetStatus(env.ctx, detail.ID, models.ProductStatusInactive))
	res, err := env.carts.ValidateCart(env.ctx, owner)
	require.NoError(t, err)
	assert.False(t, res.IsValid)

	assert.ErrorIs(t, env.catalog.SetStatus(env.ctx, detail.ID, "GONE"), errs.ErrInvalidArgument)
	assert.ErrorIs(t, env.catalog.SetStatus(env.ctx, 9999, models.ProductStatusActive), errs.ErrProductNotFound)
}

func TestProduct_AdjustStockWritesLedger(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "A", 1000, 2)
	v := env.variant(t, p, "red", 1200, 1)

	entry, err := env.catalog.AdjustStock(env.ctx, p.ID, &types.AdjustStockRequest{Delta: 5, Reason: "到货"}, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, models.InventoryAdjustment, entry.Type)
	assert.Equal(t, 2, entry.BeforeStock)
	assert.Equal(t, 7, entry.AfterStock)
	assert.Equal(t, 7, env.stock(t, p.ID, 0))

	_, err = env.catalog.AdjustStock(env.ctx, p.ID, &types.AdjustStockRequest{VariantID: v.ID, Delta: -2, Reason: "报损"}, "admin:1")
	var se *errs.StockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Available)
	assert.Equal(t, 1, env.stock(t, p.ID, v.ID))

	_, err = env.catalog.AdjustStock(env.ctx, p.ID, &types.AdjustStockRequest{VariantID: v.ID, Delta: -1, Reason: "报损"}, "admin:1")
	require.NoError(t, err)
	assert.Equal(t, 0, env.stock(t, p.ID, v.ID))

	_, err = env.catalog.AdjustStock(env.ctx, p.ID, &types.AdjustStockRequest{VariantID: 9999, Delta: 1, Reason: "x"}, "admin:1")
	assert.ErrorIs(t, err, errs.ErrProductNotFound)

	detail, err := env.catalog.GetProduct(env.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Inventory, 2)
	// 最近的在前
	assert.Equal(t, v.ID, detail.Inventory[0].VariantID)
	assert.Equal(t, "admin:1", detail.Inventory[1].PerformedBy)

	sum, err := env.inventory.Balance(env.ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum)
}
