package consumer

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-fieldtime/internal/document"
	"go-fieldtime/internal/events"
)

const (
	InvoiceLifecycleGroup = "fieldtime-invoice-documents"

	maxAttempts = 3
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// RetryDelay is the pause before attempt n (1-based) of a document call.
var RetryDelay = func(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}

// ConsumeInvoiceLifecycle hands every created invoice to the document
// service. A message is committed once handled; one that still fails after
// maxAttempts is left uncommitted so the group redelivers it.
func ConsumeInvoiceLifecycle(
	ctx context.Context,
	reader MessageReader,
	docs document.Client,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.invoice_lifecycle")
	log.Info("invoice lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("invoice lifecycle consumer stopped")
				return
			}
			log.Error("fetch invoice lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.InvoiceEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode invoice event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		fields := []zap.Field{
			zap.String("event_type", event.EventType),
			zap.String("invoice_id", event.InvoiceID),
			zap.String("company_id", event.CompanyID),
		}

		if event.EventType != events.InvoiceCreated {
			log.Debug("invoice event ignored", fields...)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := generate(ctx, docs, event, log); err != nil {
			if ctx.Err() != nil {
				log.Info("invoice lifecycle consumer stopped")
				return
			}
			log.Error("document generation failed", append(fields, zap.Error(err))...)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit invoice lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("invoice document requested", fields...)
	}
}

func generate(ctx context.Context, docs document.Client, event events.InvoiceEvent, log *zap.Logger) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = docs.Generate(ctx, event.CompanyID, event.InvoiceID); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		log.Warn("document call failed, retrying",
			zap.String("invoice_id", event.InvoiceID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RetryDelay(attempt)):
		}
	}
	return err
}
