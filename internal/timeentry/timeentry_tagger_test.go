package timeentry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-fieldtime/internal/shared/testdb"
	timeentryerrors "go-fieldtime/internal/timeentry/errors"
)

const (
	tCompany = "11111111-1111-1111-1111-111111111111"
	tWorker  = "22222222-2222-2222-2222-222222222222"
)

var day = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(h int) *time.Time {
	t := day.Add(time.Duration(h) * time.Hour)
	return &t
}

func closedEntry(id string, from, to int) *TimeEntry {
	return &TimeEntry{
		ID: id, CompanyID: tCompany, WorkerID: tWorker,
		JobID: id, AssignmentID: id, CustomerID: id,
		Status: StatusPendingReview, ClockInAt: *at(from), ClockOutAt: at(to),
		GeofenceIn: true, GeofenceOut: true,
		ClientEventID: "in-" + id, CreatedAt: day, UpdatedAt: day,
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name       string
		a0, a1     int
		b0, b1     int
		overlapped bool
	}{
		{"disjoint", 8, 10, 11, 12, false},
		{"touching", 8, 10, 10, 12, false},
		{"partial", 8, 11, 10, 12, true},
		{"contained", 8, 14, 10, 12, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlapped, Overlaps(*at(tc.a0), *at(tc.a1), *at(tc.b0), *at(tc.b1)))
			assert.Equal(t, tc.overlapped, Overlaps(*at(tc.b0), *at(tc.b1), *at(tc.a0), *at(tc.a1)))
		})
	}
}

func TestTagger_OnCloseFindsOverlap(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testdb.Open(t, Migrate))

	neighbor := closedEntry("aaaaaaaa-0000-0000-0000-000000000001", 8, 11)
	far := closedEntry("aaaaaaaa-0000-0000-0000-000000000002", 1, 3)
	require.NoError(t, repo.Create(ctx, neighbor))
	require.NoError(t, repo.Create(ctx, far))

	e := closedEntry("aaaaaaaa-0000-0000-0000-000000000003", 10, 22)
	ids, err := Tagger{}.OnClose(ctx, repo, e, 10, *at(23))
	require.NoError(t, err)

	assert.Equal(t, []string{neighbor.ID}, ids)
	assert.True(t, e.TagOverlap)
	assert.Equal(t, 10, e.TagExceedsHours)
	assert.False(t, e.TagGeofenceOut)
	assert.Equal(t, []string{"exceeds_10h", TagOverlap}, e.Tags())
}

func TestTagger_GeofenceFlags(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testdb.Open(t, Migrate))

	e := closedEntry("bbbbbbbb-0000-0000-0000-000000000001", 8, 9)
	e.GeofenceOut = false
	_, err := Tagger{}.OnClose(ctx, repo, e, 10, *at(10))
	require.NoError(t, err)
	assert.True(t, e.TagGeofenceOut)

	auto := closedEntry("bbbbbbbb-0000-0000-0000-000000000002", 8, 9)
	auto.GeofenceOut = false
	auto.TagAutoClockout = true
	_, err = Tagger{}.OnClose(ctx, repo, auto, 10, *at(10))
	require.NoError(t, err)
	assert.False(t, auto.TagGeofenceOut, "auto-closed entries have no clock-out fix")
}

func TestMapWriteError(t *testing.T) {
	assert.NoError(t, mapWriteError(nil))

	active := &pgconn.PgError{Code: "23505", ConstraintName: "uq_time_entries_active_worker"}
	assert.ErrorIs(t, mapWriteError(active), timeentryerrors.ErrAlreadyActive)

	event := &pgconn.PgError{Code: "23505", ConstraintName: "uq_time_entries_worker_event"}
	assert.ErrorIs(t, mapWriteError(event), errEventRecorded)

	sqliteDup := errors.New("constraint failed: UNIQUE constraint failed: time_entries.worker_id, time_entries.client_event_id (2067)")
	assert.ErrorIs(t, mapWriteError(sqliteDup), errEventRecorded)

	sqliteActive := errors.New("constraint failed: UNIQUE constraint failed: time_entries.worker_id (2067)")
	assert.ErrorIs(t, mapWriteError(sqliteActive), timeentryerrors.ErrAlreadyActive)

	other := errors.New("boom")
	assert.Equal(t, other, mapWriteError(other))
}

func TestNext(t *testing.T) {
	to, err := Next(StatusActive, ActionClockOut)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, to)

	to, err = Next(StatusRejected, ActionEdit)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, to)

	_, err = Next(StatusInvoiced, ActionEdit)
	assert.ErrorIs(t, err, timeentryerrors.ErrInvalidTransition)

	_, err = Next(StatusApproved, ActionApprove)
	assert.ErrorIs(t, err, timeentryerrors.ErrInvalidTransition)
}
