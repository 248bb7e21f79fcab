package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"go-fieldtime/internal/config"
	"go-fieldtime/internal/messaging/kafka/producer"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/connection"
	"go-fieldtime/internal/sweeper"
)

// RunWorker relays outbox rows to Kafka and runs the stale-shift sweeper on
// its schedule until SIGINT or SIGTERM. It returns once both loops stop.
func RunWorker(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(connection.BrokerAddr(cfg.KafkaBroker), cfg.Database.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	clk := clock.Real()
	m := buildModules(cfg, db, nil, clk, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runTasks(ctx, log,
		func(ctx context.Context) {
			producer.ProcessOutboxEvents(ctx, m.outboxRepo, kafkaWriter, logger, cfg.OutboxInterval)
		},
		func(ctx context.Context) {
			sweeper.Schedule(ctx, m.sweeper(clk, logger), cfg.SweepInterval, logger)
		},
	)

	return nil
}

// RunSweep performs a single sweep, used by the fieldctl sweep command.
func RunSweep(ctx context.Context, cfg config.Config, logger *zap.Logger, opts sweeper.Options) (sweeper.Report, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return sweeper.Report{}, err
	}
	defer closeDB(db, logger)

	clk := clock.Real()
	m := buildModules(cfg, db, nil, clk, logger)
	return m.sweeper(clk, logger).Run(ctx, opts)
}
