//go:build wireinject
// +build wireinject

package main

import (
	"Shopcore/config"
	"Shopcore/dao"
	"Shopcore/dao/cache"
	"Shopcore/handler"
	"Shopcore/pkg/client"
	"Shopcore/pkg/database"
	"Shopcore/pkg/rocketmq"
	"Shopcore/pkg/server"
	"Shopcore/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *server.AppProvider {
	wire.Build(
		client.NewRedisClient,
		config.ProvideRocketMQConfig,
		rocketmq.InitProducer,
		server.NewGinEngine,
		cache.ProviderSet,

		wire.Struct(new(handler.Cart), "*"),
		wire.Struct(new(handler.Order), "*"),
		wire.Struct(new(handler.Admin), "*"),
		wire.Struct(new(handler.Product), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),

		dao.ProviderSet,

		service.ProviderSet,
		database.NewDB,
	)
	return nil
}
