package kafka_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"go-fieldtime/internal/events"
	"go-fieldtime/internal/messaging/kafka"
	"go-fieldtime/internal/shared/contextutil"
	"go-fieldtime/internal/shared/testdb"
)

func newPostgresMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestOutboxRepository_MarkSent(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := kafka.NewOutboxRepository(db)

	mock.ExpectExec(`UPDATE outbox_events`).
		WithArgs(kafka.OutboxStatusSent, "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkSent(context.Background(), "o1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := kafka.NewOutboxRepository(db)

	mock.ExpectExec(`UPDATE outbox_events\s+SET\s+status = \$1,\s+retry_count = retry_count \+ 1`).
		WithArgs(kafka.OutboxStatusFailed, "broker down", "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkFailed(context.Background(), "o1", "broker down"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := kafka.NewOutboxRepository(db)

	rows := sqlmock.NewRows([]string{"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at"}).
		AddRow("o1", "rid", "invoice", "i1", events.InvoiceCreated, events.InvoiceLifecycleTopic, []byte(`{"a":1}`), kafka.OutboxStatusPending, 0, nil)

	mock.ExpectQuery(`(?s)SELECT .+ FROM outbox_events\s+WHERE status IN \(\$1, \$2\)`).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 10).
		WillReturnRows(rows)

	got, err := repo.ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)
	assert.Equal(t, events.InvoiceLifecycleTopic, got[0].Topic)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_CreateInTransaction(t *testing.T) {
	db := testdb.Open(t, kafka.Migrate)
	repo := kafka.NewOutboxRepository(db)
	ctx := contextutil.WithRequestID(context.Background(), "rid-9")

	ev, err := kafka.NewEvent(ctx, "time_entry", "e1", events.TimeEntryClockedIn, events.TimeEntryLifecycleTopic,
		events.TimeEntryEvent{EventType: events.TimeEntryClockedIn, EntryID: "e1"})
	require.NoError(t, err)
	assert.Equal(t, "rid-9", ev.RequestID)

	err = db.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).Create(ctx, ev)
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&kafka.OutboxEvent{}).Where("status = ?", kafka.OutboxStatusPending).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.Error(t, repo.Create(ctx, kafka.OutboxEvent{ID: "x", Topic: "t", Payload: []byte("{}"), Status: "weird"}))
}
