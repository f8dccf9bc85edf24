package server

import (
	"Shopcore/pkg/log"
	"Shopcore/service"
	"context"
	"time"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// Sweep 按间隔清理过期购物车，直到 ctx 结束；单次清理 panic 不影响下一轮
func Sweep(ctx context.Context, carts service.ICartService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var pc panics.Catcher
			pc.Try(func() {
				if _, err := carts.CleanupExpiredCarts(ctx); err != nil && ctx.Err() == nil {
					log.L.Error("cleanup expired carts", zap.Error(err))
				}
			})
			if r := pc.Recovered(); r != nil {
				log.L.Error("cleanup expired carts panic", zap.Error(r.AsError()))
			}
		}
	}
}
