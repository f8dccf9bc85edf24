package main

import (
	"Shopcore/config"
	"Shopcore/pkg/database"
	"Shopcore/pkg/log"
	"Shopcore/pkg/server"
	"Shopcore/pkg/snowflake"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)
	cfg := config.New(path)
	log.SetDebug(cfg.Debug())
	if err := snowflake.Init(cfg.App.SnowflakeNode); err != nil {
		log.L.Fatal("init snowflake", zap.Error(err))
	}

	cliApp := &cli.App{
		Name: "api-server",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					return server.Run(ctx, InitServer(cfg))
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update tables",
				Action: func(ctx *cli.Context) error {
					if err := database.Migrate(database.NewDB(cfg)); err != nil {
						return err
					}
					log.L.Info("migrate done")
					return nil
				},
			},
			{
				Name:  "sweep-carts",
				Usage: "delete expired carts once",
				Action: func(ctx *cli.Context) error {
					app := InitServer(cfg)
					res, err := app.CartService.CleanupExpiredCarts(ctx.Context)
					if err != nil {
						return err
					}
					log.L.Info("sweep done", zap.Int64("deleted", res.DeletedCount))
					return nil
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start server", zap.Error(err))
	}
}
