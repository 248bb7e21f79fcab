package offlinequeue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-fieldtime/internal/shared/clock"
)

const (
	BaseBackoff = 2 * time.Second
	MaxBackoff  = 5 * time.Minute
)

var (
	ErrItemNotFound = errors.New("journal item not found")
	ErrInvalidKind  = errors.New("kind must be clock_in or clock_out")
)

// Backoff is the delay before retry number attempt (1-based): 2s, 4s, 8s ...
// capped at MaxBackoff.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := BaseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= MaxBackoff {
			return MaxBackoff
		}
	}
	return d
}

type EnqueueRequest struct {
	WorkerID  string
	CompanyID string
	Kind      string
	Payload   Payload
}

// Journal is the durable on-device queue of clock actions.
type Journal struct {
	db     *gorm.DB
	clock  clock.Clock
	logger *zap.Logger
}

func NewJournal(db *gorm.DB, c clock.Clock, logger ...*zap.Logger) *Journal {
	l := zap.L().Named("offlinequeue.journal")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("offlinequeue.journal")
	}
	if c == nil {
		c = clock.Real()
	}
	return &Journal{db: db, clock: c, logger: l}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Item{})
}

// Enqueue appends an action for the worker. A clock-out without an entry id
// is linked to the worker's latest queued clock-in so the syncer can fill in
// the entry once that clock-in is acknowledged.
func (j *Journal) Enqueue(ctx context.Context, req EnqueueRequest) (*Item, error) {
	if req.Kind != KindClockIn && req.Kind != KindClockOut {
		return nil, ErrInvalidKind
	}
	if req.WorkerID == "" || req.CompanyID == "" {
		return nil, errors.New("worker and company are required")
	}

	now := j.clock.Now()
	if req.Payload.OccurredAt == nil {
		req.Payload.OccurredAt = &now
	}

	var item *Item
	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last Item
		err := tx.Where("worker_id = ?", req.WorkerID).Order("seq DESC").Limit(1).Find(&last).Error
		if err != nil {
			return err
		}

		if req.Kind == KindClockOut && req.Payload.EntryID == "" && req.Payload.ClockInEventID == "" {
			var in Item
			err := tx.Where("worker_id = ? AND kind = ?", req.WorkerID, KindClockIn).
				Order("seq DESC").Limit(1).Find(&in).Error
			if err != nil {
				return err
			}
			switch {
			case in.ID == "":
			case in.EntryID != nil:
				req.Payload.EntryID = *in.EntryID
			default:
				req.Payload.ClockInEventID = in.ClientEventID
			}
		}

		body, err := json.Marshal(req.Payload)
		if err != nil {
			return err
		}
		item = &Item{
			ID:            uuid.NewString(),
			WorkerID:      req.WorkerID,
			CompanyID:     req.CompanyID,
			Seq:           last.Seq + 1,
			Kind:          req.Kind,
			ClientEventID: uuid.NewString(),
			Payload:       body,
			State:         StatePending,
			NextAttemptAt: now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, fmt.Errorf("enqueue %s: %w", req.Kind, err)
	}

	j.logger.Debug("queued",
		zap.String("worker_id", item.WorkerID),
		zap.Int64("seq", item.Seq),
		zap.String("kind", item.Kind),
	)
	return item, nil
}

// Head returns the worker's lowest unacknowledged item, or nil when the
// worker's queue is drained.
func (j *Journal) Head(ctx context.Context, workerID string) (*Item, error) {
	var it Item
	err := j.db.WithContext(ctx).
		Where("worker_id = ? AND state <> ?", workerID, StateAcknowledged).
		Order("seq ASC").
		Limit(1).
		Find(&it).Error
	if err != nil {
		return nil, err
	}
	if it.ID == "" {
		return nil, nil
	}
	return &it, nil
}

func (j *Journal) Get(ctx context.Context, id string) (*Item, error) {
	var it Item
	err := j.db.WithContext(ctx).First(&it, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	return &it, err
}

// FindByEvent looks an item up by its client event id.
func (j *Journal) FindByEvent(ctx context.Context, clientEventID string) (*Item, error) {
	var it Item
	err := j.db.WithContext(ctx).First(&it, "client_event_id = ?", clientEventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrItemNotFound
	}
	return &it, err
}

// Workers lists workers that still have unacknowledged items.
func (j *Journal) Workers(ctx context.Context) ([]string, error) {
	var ids []string
	err := j.db.WithContext(ctx).
		Model(&Item{}).
		Where("state <> ?", StateAcknowledged).
		Distinct("worker_id").
		Order("worker_id ASC").
		Pluck("worker_id", &ids).Error
	return ids, err
}

func (j *Journal) MarkInflight(ctx context.Context, id string) error {
	return j.transition(ctx, id, []string{StatePending}, map[string]any{
		"state":      StateInflight,
		"updated_at": j.clock.Now(),
	})
}

// Ack records the server's answer. Acknowledging is final.
func (j *Journal) Ack(ctx context.Context, id, entryID string) error {
	now := j.clock.Now()
	return j.transition(ctx, id, []string{StatePending, StateInflight}, map[string]any{
		"state":      StateAcknowledged,
		"entry_id":   entryID,
		"acked_at":   now,
		"last_error": "",
		"updated_at": now,
	})
}

// Retry puts the item back to pending after a transient failure.
func (j *Journal) Retry(ctx context.Context, id string, cause error) (time.Time, error) {
	it, err := j.Get(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	now := j.clock.Now()
	attempts := it.Attempts + 1
	next := now.Add(Backoff(attempts))
	err = j.transition(ctx, id, []string{StatePending, StateInflight}, map[string]any{
		"state":           StatePending,
		"attempts":        attempts,
		"next_attempt_at": next,
		"last_error":      errorText(cause),
		"updated_at":      now,
	})
	return next, err
}

// Fail marks the item terminally failed and fails every later unacknowledged
// item of the same worker, since they depend on it. It returns how many
// later items were cascaded.
func (j *Journal) Fail(ctx context.Context, id string, cause error) (int64, error) {
	now := j.clock.Now()
	var cascaded int64
	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&it, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}
		if it.State == StateAcknowledged {
			return fmt.Errorf("item %s already acknowledged", id)
		}

		msg := errorText(cause)
		if err := tx.Model(&Item{}).Where("id = ?", id).Updates(map[string]any{
			"state":      StateFailed,
			"attempts":   it.Attempts + 1,
			"last_error": msg,
			"updated_at": now,
		}).Error; err != nil {
			return err
		}

		res := tx.Model(&Item{}).
			Where("worker_id = ? AND seq > ? AND state IN ?", it.WorkerID, it.Seq, []string{StatePending, StateInflight}).
			Updates(map[string]any{
				"state":      StateFailed,
				"last_error": fmt.Sprintf("blocked by failed item %d: %s", it.Seq, msg),
				"updated_at": now,
			})
		cascaded = res.RowsAffected
		return res.Error
	})
	return cascaded, err
}

// RecoverInflight returns items left inflight by a crash to pending. The
// server answer for them may have been lost; resending with the same client
// event id is safe.
func (j *Journal) RecoverInflight(ctx context.Context) (int64, error) {
	res := j.db.WithContext(ctx).
		Model(&Item{}).
		Where("state = ?", StateInflight).
		Updates(map[string]any{
			"state":      StatePending,
			"updated_at": j.clock.Now(),
		})
	if res.RowsAffected > 0 {
		j.logger.Info("recovered inflight items", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, res.Error
}

// Stats counts items by state. An empty workerID counts every worker.
func (j *Journal) Stats(ctx context.Context, workerID string) (Stats, error) {
	type row struct {
		State string
		N     int64
	}
	var rows []row
	q := j.db.WithContext(ctx).Model(&Item{}).Select("state, COUNT(*) AS n").Group("state")
	if workerID != "" {
		q = q.Where("worker_id = ?", workerID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return Stats{}, err
	}

	var s Stats
	for _, r := range rows {
		switch r.State {
		case StatePending:
			s.Pending = r.N
		case StateInflight:
			s.Inflight = r.N
		case StateAcknowledged:
			s.Acknowledged = r.N
		case StateFailed:
			s.Failed = r.N
		}
	}
	return s, nil
}

// List returns items in (worker, seq) order, optionally filtered by worker
// and state.
func (j *Journal) List(ctx context.Context, workerID string, states ...string) ([]Item, error) {
	q := j.db.WithContext(ctx).Order("worker_id ASC, seq ASC")
	if workerID != "" {
		q = q.Where("worker_id = ?", workerID)
	}
	if len(states) > 0 {
		q = q.Where("state IN ?", states)
	}
	var items []Item
	err := q.Find(&items).Error
	return items, err
}

func (j *Journal) transition(ctx context.Context, id string, from []string, updates map[string]any) error {
	res := j.db.WithContext(ctx).
		Model(&Item{}).
		Where("id = ? AND state IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item %s: %w or not in %v", id, ErrItemNotFound, from)
	}
	return nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > 500 {
		msg = msg[:500]
	}
	return msg
}
