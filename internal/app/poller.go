package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/buzmarkt/storefront/internal/state"
)

const defaultRefreshInterval = 60 * time.Second

// StartRefresher launches a background goroutine that re-fetches the
// product list at a fixed cadence. A failed fetch is logged and the next
// tick tries again. The returned channel closes once the goroutine exits.
func StartRefresher(ctx context.Context, effects *state.Effects, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			refresh(ctx, effects, logger)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}

func refresh(ctx context.Context, effects *state.Effects, logger *zap.Logger) {
	if err := effects.FetchProducts(ctx).Wait(ctx); err != nil {
		if ctx.Err() == nil {
			logger.Warn("product refresh failed", zap.Error(err))
		}
		return
	}
	logger.Debug("products refreshed", zap.Int("count", len(effects.Store().State().Products.Products)))
}
