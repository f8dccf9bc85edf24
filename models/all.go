package models

// All 需要迁移的全部模型
func All() []any {
	return []any{
		&Product{},
		&ProductVariant{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Payment{},
		&OrderTracking{},
		&OrderTrackingEvent{},
		&InventoryLog{},
		&OrderSequence{},
	}
}
