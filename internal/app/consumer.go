package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-fieldtime/internal/config"
	"go-fieldtime/internal/document"
	"go-fieldtime/internal/events"
	"go-fieldtime/internal/messaging/kafka/consumer"
	"go-fieldtime/internal/shared/connection"
)

// RunConsumer forwards created invoices to the document service until SIGINT
// or SIGTERM. Without DOCUMENT_SERVICE_URL the events are only logged.
func RunConsumer(cfg config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	var docs document.Client
	if cfg.DocumentURL != "" {
		docs = document.NewHTTPClient(cfg.DocumentURL, nil)
	} else {
		log.Warn("DOCUMENT_SERVICE_URL not set, invoice documents will not be generated")
		docs = document.NewNoop(logger)
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{connection.BrokerAddr(cfg.KafkaBroker)},
		Topic:          events.InvoiceLifecycleTopic,
		GroupID:        consumer.InvoiceLifecycleGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runTasks(ctx, log, func(ctx context.Context) {
		consumer.ConsumeInvoiceLifecycle(ctx, reader, docs, logger)
	})

	return nil
}
