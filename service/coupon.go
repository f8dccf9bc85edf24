package service

import (
	"Shopcore/config"
	"Shopcore/models"
	"Shopcore/pkg/errs"
	"context"
	"fmt"
	"strings"
)

// CouponValidator 优惠券校验，外部服务接入前使用静态表
type CouponValidator interface {
	Validate(ctx context.Context, code string) (*models.AppliedCoupon, error)
}

type StaticCouponValidator struct {
	coupons map[string]config.Coupon
}

var _ CouponValidator = (*StaticCouponValidator)(nil)

func NewStaticCouponValidator(coupons []config.Coupon) *StaticCouponValidator {
	m := make(map[string]config.Coupon, len(coupons))
	for _, c := range coupons {
		m[strings.ToUpper(strings.TrimSpace(c.Code))] = c
	}
	return &StaticCouponValidator{coupons: m}
}

func (v *StaticCouponValidator) Validate(_ context.Context, code string) (*models.AppliedCoupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	c, ok := v.coupons[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCoupon, code)
	}
	switch c.Type {
	case models.CouponTypePercentage:
		if c.Value <= 0 || c.Value > 100 {
			return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCoupon, code)
		}
	case models.CouponTypeFixed:
		if c.Value <= 0 {
			return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCoupon, code)
		}
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCoupon, code)
	}
	return &models.AppliedCoupon{Code: code, Discount: c.Value, Type: c.Type}, nil
}
