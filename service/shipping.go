package service

import (
	"Shopcore/config"
	"Shopcore/models"
	"Shopcore/pkg/errs"
	"fmt"
	"strings"
)

// CalculateShippingFee 纯函数：自提免运费，满额包邮，否则按配送方式收固定运费
// 标准 < 加急 < 当日达
func CalculateShippingFee(method string, subtotal int64, addr models.Address, rates config.Shipping) (int64, error) {
	if method == models.ShippingPickup {
		return 0, nil
	}
	if err := validateAddress(addr); err != nil {
		return 0, err
	}

	var fee int64
	switch method {
	case models.ShippingStandard:
		fee = rates.Standard
	case models.ShippingExpress:
		fee = rates.Express
	case models.ShippingSameDay:
		fee = rates.SameDay
	default:
		return 0, fmt.Errorf("%w: 不支持的配送方式 %q", errs.ErrInvalidArgument, method)
	}
	if subtotal >= rates.FreeThreshold {
		return 0, nil
	}
	return fee, nil
}

func validateAddress(addr models.Address) error {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(addr.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(addr.Line1) == "" {
		missing = append(missing, "line1")
	}
	if strings.TrimSpace(addr.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(addr.Country) == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: 收货地址缺少 %s", errs.ErrInvalidArgument, strings.Join(missing, ", "))
	}
	return nil
}
