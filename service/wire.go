package service

import (
	"Shopcore/config"

	"github.com/google/wire"
)

func ProvideCouponValidator(cfg *config.Config) *StaticCouponValidator {
	return NewStaticCouponValidator(config.ProvideCoupons(cfg))
}

var ProviderSet = wire.NewSet(
	wire.Struct(new(CartService), "*"),
	wire.Bind(new(ICartService), new(*CartService)),

	wire.Struct(new(OrderService), "*"),
	wire.Bind(new(IOrderService), new(*OrderService)),

	wire.Struct(new(ProductService), "*"),
	wire.Bind(new(IProductService), new(*ProductService)),

	ProvideCouponValidator,
	wire.Bind(new(CouponValidator), new(*StaticCouponValidator)),

	NewEventPublisher,
)
