package job_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-fieldtime/internal/job"
	joberrors "go-fieldtime/internal/job/errors"
	"go-fieldtime/internal/shared/testdb"
)

const (
	companyID  = "11111111-1111-1111-1111-111111111111"
	workerID   = "22222222-2222-2222-2222-222222222222"
	customerID = "33333333-3333-3333-3333-333333333333"
)

func ptr[T any](v T) *T { return &v }

func TestRepository_ActiveAssignmentsForWindow(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t, job.Migrate)
	repo := job.NewRepository(db)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	nextDay := day.Add(24 * time.Hour)

	mkJob := func(id, status string) {
		require.NoError(t, repo.CreateJob(ctx, &job.Job{
			ID: id, CompanyID: companyID, CustomerID: customerID, Name: "Job " + id[:4],
			Latitude: 42.6526, Longitude: -73.7562, GeofenceRadiusMeters: 125, Status: status,
		}))
	}
	mkAssignment := func(id, jobID, worker string, start time.Time, end *time.Time, active bool) {
		require.NoError(t, repo.CreateAssignment(ctx, &job.Assignment{
			ID: id, CompanyID: companyID, WorkerID: worker, JobID: jobID, StartAt: start, EndAt: end, IsActive: true,
		}))
		if !active {
			require.NoError(t, repo.DeactivateAssignment(ctx, companyID, id, day))
		}
	}

	mkJob("aaaaaaaa-0000-0000-0000-000000000001", job.StatusActive)
	mkJob("aaaaaaaa-0000-0000-0000-000000000002", job.StatusActive)
	mkJob("aaaaaaaa-0000-0000-0000-000000000003", job.StatusCompleted)

	// open-ended, started last week
	mkAssignment("bbbbbbbb-0000-0000-0000-000000000001", "aaaaaaaa-0000-0000-0000-000000000001", workerID,
		day.Add(-7*24*time.Hour), nil, true)
	// today only
	mkAssignment("bbbbbbbb-0000-0000-0000-000000000002", "aaaaaaaa-0000-0000-0000-000000000002", workerID,
		day.Add(8*time.Hour), ptr(day.Add(17*time.Hour)), true)
	// ended exactly at today's start: [start, end) excludes it
	mkAssignment("bbbbbbbb-0000-0000-0000-000000000003", "aaaaaaaa-0000-0000-0000-000000000002", workerID,
		day.Add(-24*time.Hour), ptr(day), true)
	// deactivated
	mkAssignment("bbbbbbbb-0000-0000-0000-000000000004", "aaaaaaaa-0000-0000-0000-000000000002", workerID,
		day, nil, false)
	// completed job
	mkAssignment("bbbbbbbb-0000-0000-0000-000000000005", "aaaaaaaa-0000-0000-0000-000000000003", workerID,
		day, nil, true)
	// tomorrow
	mkAssignment("bbbbbbbb-0000-0000-0000-000000000006", "aaaaaaaa-0000-0000-0000-000000000001", workerID,
		nextDay, nil, true)
	// another worker
	mkAssignment("bbbbbbbb-0000-0000-0000-000000000007", "aaaaaaaa-0000-0000-0000-000000000001",
		"44444444-4444-4444-4444-444444444444", day, nil, true)

	got, err := repo.ActiveAssignmentsForWindow(ctx, companyID, workerID, day, nextDay)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "bbbbbbbb-0000-0000-0000-000000000001", got[0].AssignmentID)
	assert.Equal(t, "aaaaaaaa-0000-0000-0000-000000000001", got[0].JobID)
	assert.Nil(t, got[0].EndAt)
	assert.Equal(t, "bbbbbbbb-0000-0000-0000-000000000002", got[1].AssignmentID)
	assert.InDelta(t, 125.0, got[1].GeofenceRadiusMeters, 0.001)
	assert.Equal(t, customerID, got[1].CustomerID)
}

func TestRepository_ActiveAssignmentsForWindow_MissingJob(t *testing.T) {
	ctx := context.Background()
	repo := job.NewRepository(testdb.Open(t, job.Migrate))
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateAssignment(ctx, &job.Assignment{
		ID: "bbbbbbbb-0000-0000-0000-000000000001", CompanyID: companyID, WorkerID: workerID,
		JobID: "aaaaaaaa-0000-0000-0000-00000000dead", StartAt: day, IsActive: true,
	}))

	got, err := repo.ActiveAssignmentsForWindow(ctx, companyID, workerID, day, day.Add(24*time.Hour))
	assert.ErrorIs(t, err, joberrors.ErrJobNotFound)
	assert.Empty(t, got)
}

func TestRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	repo := job.NewRepository(testdb.Open(t, job.Migrate))

	require.NoError(t, repo.CreateJob(ctx, &job.Job{
		ID: "aaaaaaaa-0000-0000-0000-000000000001", CompanyID: companyID, CustomerID: customerID,
		Name: "Roof repair", Latitude: 1, Longitude: 2, GeofenceRadiusMeters: 100, Status: job.StatusActive,
	}))

	j, err := repo.FindByID(ctx, companyID, "aaaaaaaa-0000-0000-0000-000000000001")
	require.NoError(t, err)
	assert.Equal(t, "Roof repair", j.Name)

	_, err = repo.FindByID(ctx, "99999999-9999-9999-9999-999999999999", "aaaaaaaa-0000-0000-0000-000000000001")
	assert.ErrorIs(t, err, joberrors.ErrJobNotFound)

	err = repo.DeactivateAssignment(ctx, companyID, "missing", time.Now())
	assert.ErrorIs(t, err, joberrors.ErrAssignmentNotFound)
}
