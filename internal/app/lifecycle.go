package app

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// runTasks starts every task and blocks until ctx ends and all of them have
// returned. Callers close their connections only after it returns.
func runTasks(ctx context.Context, log *zap.Logger, tasks ...func(context.Context)) {
	var g errgroup.Group
	for _, task := range tasks {
		g.Go(func() error {
			task(ctx)
			return nil
		})
	}

	<-ctx.Done()
	log.Info("shutting down, waiting for background tasks")
	_ = g.Wait()
	log.Info("background tasks stopped")
}
