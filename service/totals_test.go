package service

import (
	"Shopcore/config"
	"Shopcore/models"
	"Shopcore/pkg/errs"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotals(t *testing.T) {
	items := []models.CartItem{
		{Price: 1999, Quantity: 3},
		{Price: 500, Quantity: 2},
	}

	got := CalculateTotals(items, nil)
	assert.Equal(t, Totals{Subtotal: 6997, Discount: 0, Total: 6997, ItemCount: 5}, got)

	got = CalculateTotals(items, &models.AppliedCoupon{Code: "SAVE10", Type: models.CouponTypePercentage, Discount: 10})
	assert.Equal(t, int64(700), got.Discount) // 699.7 四舍五入
	assert.Equal(t, got.Subtotal-got.Discount, got.Total)

	got = CalculateTotals(nil, &models.AppliedCoupon{Type: models.CouponTypeFixed, Discount: 100})
	assert.Equal(t, Totals{}, got)
}

func TestCouponDiscount(t *testing.T) {
	pct := func(v int64) *models.AppliedCoupon {
		return &models.AppliedCoupon{Type: models.CouponTypePercentage, Discount: v}
	}
	fixed := func(v int64) *models.AppliedCoupon {
		return &models.AppliedCoupon{Type: models.CouponTypeFixed, Discount: v}
	}

	assert.Equal(t, int64(10000), CouponDiscount(pct(10), 100000))
	assert.Equal(t, int64(100000), CouponDiscount(pct(150), 100000))
	assert.Zero(t, CouponDiscount(pct(-5), 100000))
	assert.Equal(t, int64(20000), CouponDiscount(fixed(20000), 100000))
	assert.Equal(t, int64(15000), CouponDiscount(fixed(20000), 15000))
	assert.Zero(t, CouponDiscount(&models.AppliedCoupon{Type: "BOGO", Discount: 1}, 100))
	assert.Zero(t, CouponDiscount(nil, 100))
}

func TestStaticCouponValidator(t *testing.T) {
	v := NewStaticCouponValidator([]config.Coupon{
		{Code: "save10", Type: models.CouponTypePercentage, Value: 10},
		{Code: "BROKEN", Type: models.CouponTypePercentage, Value: 120},
		{Code: "ODD", Type: "BOGO", Value: 1},
	})
	ctx := context.Background()

	c, err := v.Validate(ctx, " Save10 ")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", c.Code)
	assert.Equal(t, int64(10), c.Discount)

	for _, code := range []string{"BROKEN", "ODD", "MISSING", ""} {
		_, err := v.Validate(ctx, code)
		assert.ErrorIs(t, err, errs.ErrInvalidCoupon, code)
	}
}
