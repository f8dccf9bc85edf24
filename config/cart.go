package config

import "time"

// Cart 购物车配置
type Cart struct {
	ExpireDays    int           `json:"expire_days" yaml:"expire_days"`       // 购物车过期天数
	CacheTTL      time.Duration `json:"cache_ttl" yaml:"cache_ttl"`           // 缓存 TTL，必须短于过期时间
	SweepInterval time.Duration `json:"sweep_interval" yaml:"sweep_interval"` // 过期清理间隔
}

func (c *Cart) Expiry() time.Duration {
	if c.ExpireDays <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.ExpireDays) * 24 * time.Hour
}

func (c *Cart) TTL() time.Duration {
	ttl := c.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	if ttl >= c.Expiry() {
		ttl = c.Expiry() / 2
	}
	return ttl
}

func (c *Cart) Sweep() time.Duration {
	if c.SweepInterval <= 0 {
		return time.Hour
	}
	return c.SweepInterval
}

// Coupon 静态优惠券表，供内置校验器使用
type Coupon struct {
	Code  string `json:"code" yaml:"code"`
	Type  string `json:"type" yaml:"type"` // PERCENTAGE / FIXED
	Value int64  `json:"value" yaml:"value"`
}

func ProvideCoupons(cfg *Config) []Coupon {
	return cfg.Coupons
}
