package config

// Shipping 运费规则，金额单位与商品价格一致
type Shipping struct {
	FreeThreshold int64 `json:"free_threshold" yaml:"free_threshold"`
	Standard      int64 `json:"standard" yaml:"standard"`
	Express       int64 `json:"express" yaml:"express"`
	SameDay       int64 `json:"same_day" yaml:"same_day"`
}

// Rates 零值字段回落到默认费率
func (s *Shipping) Rates() Shipping {
	r := *s
	if r.FreeThreshold <= 0 {
		r.FreeThreshold = 500000
	}
	if r.Standard <= 0 {
		r.Standard = 30000
	}
	if r.Express <= 0 {
		r.Express = 50000
	}
	if r.SameDay <= 0 {
		r.SameDay = 80000
	}
	return r
}
