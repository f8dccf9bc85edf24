package server

import (
	"Shopcore/config"
	"Shopcore/middleware"
	"Shopcore/pkg/log"
	"Shopcore/pkg/metrics"
	"Shopcore/pkg/response"
	"Shopcore/pkg/rocketmq"
	"Shopcore/service"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider struct {
	Config      *config.Config
	Engine      *gin.Engine
	CartService service.ICartService
	MQ          *rocketmq.Rocketmq
}

func NewGinEngine(h *Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.Use(middleware.GinZap(), response.ErrorMiddleware(), middleware.PrometheusMiddleware())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	api := r.Group("/api")
	h.Cart.RegisterRouter(api)
	h.Order.RegisterRouter(api)
	h.Admin.RegisterRouter(api)
	h.Product.RegisterRouter(api)
	return r
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Content-Length, X-Requested-With, X-Session-Id")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Session-Id")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		// OPTIONS 预检直接返回
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func Run(ctx *cli.Context, app *AppProvider) error {
	if app.Config.Debug() {
		gin.SetMode(gin.DebugMode)
	}

	eg, groupCtx := errgroup.WithContext(ctx.Context)
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)

	log.L.Info("server starting",
		zap.Int("port", app.Config.Server.Http),
		zap.String("env", app.Config.App.Env),
	)

	return run(c, eg, groupCtx, app)
}

func run(c chan os.Signal, eg *errgroup.Group, ctx context.Context, app *AppProvider) error {
	serv := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.Config.Server.Http),
		Handler: app.Engine,
	}
	sweepCtx, stopSweep := context.WithCancel(ctx)

	eg.Go(func() error {
		err := serv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		Sweep(sweepCtx, app.CartService, app.Config.Cart.Sweep())
		return nil
	})

	eg.Go(func() error {
		defer func() {
			log.L.Info("server stopping")
			stopSweep()

			timeCtx, timeCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer timeCancel()

			if err := serv.Shutdown(timeCtx); err != nil {
				log.L.Info("server stopping", zap.Error(err))
			}
			if app.MQ != nil {
				if err := app.MQ.Shutdown(); err != nil {
					log.L.Warn("rocketmq shutdown", zap.Error(err))
				}
			}
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c:
			return nil
		}
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.L.Info("server stopping", zap.Error(err))
	}

	log.L.Info("server stopped")

	return nil
}
