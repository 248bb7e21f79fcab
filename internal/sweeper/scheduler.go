package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const DefaultInterval = time.Hour

// Schedule runs the sweeper every interval until ctx is cancelled. The first
// sweep starts immediately.
func Schedule(ctx context.Context, s *Sweeper, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	log := logger.Named("sweeper.scheduler")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("sweeper scheduler started", zap.Duration("interval", interval))

	for {
		if _, err := s.Run(ctx, Options{}); err != nil && ctx.Err() == nil {
			log.Error("sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			log.Info("sweeper scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}
