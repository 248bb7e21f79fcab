package offlinequeue

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/clock"
)

// Receipt is the server's answer to a delivered item.
type Receipt struct {
	EntryID  string
	Replayed bool
}

//go:generate mockgen -destination=mock/transport_mock.go -package=mock . Transport
type Transport interface {
	Send(ctx context.Context, it *Item, p Payload) (Receipt, error)
}

type DrainReport struct {
	Workers  int           `json:"workers"`
	Sent     int           `json:"sent"`
	Acked    int           `json:"acked"`
	Replayed int           `json:"replayed"`
	Retried  int           `json:"retried"`
	Failed   int           `json:"failed"`
	Cascaded int64         `json:"cascaded"`
	Deferred int           `json:"deferred"`
	Blocked  int           `json:"blocked"`
	Duration time.Duration `json:"duration"`
}

// Syncer delivers journal items in order. Per worker only the head item is
// ever in flight, so a clock-out never overtakes its clock-in.
type Syncer struct {
	journal   *Journal
	transport Transport
	clock     clock.Clock
	logger    *zap.Logger
}

func NewSyncer(j *Journal, t Transport, c clock.Clock, logger ...*zap.Logger) *Syncer {
	l := zap.L().Named("offlinequeue.syncer")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("offlinequeue.syncer")
	}
	if c == nil {
		c = clock.Real()
	}
	return &Syncer{journal: j, transport: t, clock: c, logger: l}
}

// Drain sends every deliverable item once. Items waiting on backoff are left
// for a later call; a worker whose head has failed stays blocked.
func (s *Syncer) Drain(ctx context.Context) (DrainReport, error) {
	start := time.Now()
	var report DrainReport

	workers, err := s.journal.Workers(ctx)
	if err != nil {
		return report, err
	}
	report.Workers = len(workers)

	for _, w := range workers {
		if err := s.drainWorker(ctx, w, &report); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	report.Duration = time.Since(start)
	s.logger.Info("drain finished",
		zap.Int("workers", report.Workers),
		zap.Int("acked", report.Acked),
		zap.Int("retried", report.Retried),
		zap.Int("failed", report.Failed),
		zap.Int("deferred", report.Deferred),
	)
	return report, nil
}

func (s *Syncer) drainWorker(ctx context.Context, workerID string, report *DrainReport) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		head, err := s.journal.Head(ctx, workerID)
		if err != nil {
			return err
		}
		switch {
		case head == nil:
			return nil
		case head.State == StateFailed:
			report.Blocked++
			return nil
		case head.NextAttemptAt.After(s.clock.Now()):
			report.Deferred++
			return nil
		}

		p, err := head.Decode()
		if err != nil {
			n, ferr := s.journal.Fail(ctx, head.ID, err)
			if ferr != nil {
				return ferr
			}
			report.Failed++
			report.Cascaded += n
			return nil
		}
		if head.Kind == KindClockOut {
			s.link(ctx, &p)
		}

		if head.State == StatePending {
			if err := s.journal.MarkInflight(ctx, head.ID); err != nil {
				return err
			}
		}
		report.Sent++

		receipt, sendErr := s.transport.Send(ctx, head, p)
		if sendErr == nil {
			if err := s.journal.Ack(ctx, head.ID, receipt.EntryID); err != nil {
				return err
			}
			report.Acked++
			if receipt.Replayed {
				report.Replayed++
			}
			continue
		}

		log := s.logger.With(
			zap.String("worker_id", workerID),
			zap.Int64("seq", head.Seq),
			zap.String("kind", head.Kind),
			zap.Error(sendErr),
		)

		if ctx.Err() != nil || retryable(sendErr) {
			next, err := s.journal.Retry(context.WithoutCancel(ctx), head.ID, sendErr)
			if err != nil {
				return err
			}
			report.Retried++
			log.Warn("send failed, will retry", zap.Time("next_attempt_at", next))
			return ctx.Err()
		}

		n, err := s.journal.Fail(ctx, head.ID, sendErr)
		if err != nil {
			return err
		}
		report.Failed++
		report.Cascaded += n
		log.Error("send rejected", zap.String("code", apperror.CodeOf(sendErr)), zap.Int64("cascaded", n))
		return nil
	}
}

// link fills the entry id of a clock-out from its acknowledged clock-in.
func (s *Syncer) link(ctx context.Context, p *Payload) {
	if p.EntryID != "" || p.ClockInEventID == "" {
		return
	}
	in, err := s.journal.FindByEvent(ctx, p.ClockInEventID)
	if err != nil {
		// clock-in was sent online; the server resolves the event id
		return
	}
	if in.State == StateAcknowledged && in.EntryID != nil {
		p.EntryID = *in.EntryID
	}
}

// retryable is true for transport failures and UNAVAILABLE answers only.
func retryable(err error) bool {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code == apperror.CodeUnavailable
	}
	return true
}
