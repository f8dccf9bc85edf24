package server

import (
	"Shopcore/handler"
)

type Handlers struct {
	Cart    *handler.Cart
	Order   *handler.Order
	Admin   *handler.Admin
	Product *handler.Product
}
