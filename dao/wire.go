package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewProduct,
	NewCart,
	NewOrder,
	NewTracking,
	NewInventory,
	NewSequence,
)
