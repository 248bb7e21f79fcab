package job

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/geofence"
	joberrors "go-fieldtime/internal/job/errors"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/contextutil"
)

// AssignmentListener is told when a worker's assignments change so cached
// candidate sets can be dropped.
type AssignmentListener func(companyID, workerID string)

//go:generate mockgen -destination=mock/job_service_mock.go -package=mock . Service
type Service interface {
	CreateJob(ctx context.Context, caller domain.Caller, req CreateJobRequest) (*JobResponse, error)
	ListJobs(ctx context.Context, caller domain.Caller) ([]JobResponse, error)
	Assign(ctx context.Context, caller domain.Caller, jobID string, req AssignRequest) (*AssignmentResponse, error)
	Unassign(ctx context.Context, caller domain.Caller, assignmentID string) error
}

type service struct {
	repo      Repository
	clock     clock.Clock
	timeout   time.Duration
	listener  AssignmentListener
	logger    *zap.Logger
}

// NewService builds the admin job service. listener may be nil.
func NewService(repo Repository, clk clock.Clock, timeout time.Duration, listener AssignmentListener, logger ...*zap.Logger) Service {
	l := zap.L().Named("job.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("job.service")
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &service{repo: repo, clock: clk, timeout: timeout, listener: listener, logger: l}
}

func (s *service) notify(companyID, workerID string) {
	if s.listener != nil {
		s.listener(companyID, workerID)
	}
}

func (s *service) CreateJob(ctx context.Context, caller domain.Caller, req CreateJobRequest) (*JobResponse, error) {
	if err := caller.EnsureTenant(req.CompanyID); err != nil {
		return nil, err
	}
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}

	radius := req.GeofenceRadiusMeters
	if radius == 0 {
		radius = DefaultGeofenceRadiusMeters
	}
	site := geofence.Point{Latitude: req.Latitude, Longitude: req.Longitude}
	if !site.Valid() || radius <= 0 {
		return nil, joberrors.ErrInvalidSite
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	j := &Job{
		ID:                   uuid.NewString(),
		CompanyID:            caller.CompanyID,
		CustomerID:           req.CustomerID,
		Name:                 req.Name,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		GeofenceRadiusMeters: radius,
		Status:               StatusActive,
	}
	if err := s.repo.CreateJob(ctx, j); err != nil {
		return nil, err
	}

	resp := toJobResponse(j)
	return &resp, nil
}

func (s *service) ListJobs(ctx context.Context, caller domain.Caller) ([]JobResponse, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	jobs, err := s.repo.ListJobs(ctx, caller.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, toJobResponse(&jobs[i]))
	}
	return out, nil
}

func (s *service) Assign(ctx context.Context, caller domain.Caller, jobID string, req AssignRequest) (*AssignmentResponse, error) {
	if err := caller.EnsureTenant(req.CompanyID); err != nil {
		return nil, err
	}
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	if req.EndAt != nil && !req.EndAt.After(req.StartAt) {
		return nil, joberrors.ErrInvalidWindow
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	j, err := s.repo.FindByID(ctx, caller.CompanyID, jobID)
	if err != nil {
		return nil, err
	}
	if j.Status != StatusActive {
		return nil, joberrors.ErrJobNotActive
	}

	a := &Assignment{
		ID:        uuid.NewString(),
		CompanyID: caller.CompanyID,
		WorkerID:  req.WorkerID,
		JobID:     j.ID,
		StartAt:   req.StartAt.UTC(),
		IsActive:  true,
	}
	if req.EndAt != nil {
		end := req.EndAt.UTC()
		a.EndAt = &end
	}
	if err := s.repo.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}
	s.notify(a.CompanyID, a.WorkerID)

	contextutil.GetLogger(ctx, s.logger).Info("worker assigned",
		zap.String("job_id", j.ID),
		zap.String("worker_id", a.WorkerID),
	)
	resp := toAssignmentResponse(a)
	return &resp, nil
}

func (s *service) Unassign(ctx context.Context, caller domain.Caller, assignmentID string) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	a, err := s.repo.FindAssignment(ctx, caller.CompanyID, assignmentID)
	if err != nil {
		return err
	}
	if err := s.repo.DeactivateAssignment(ctx, caller.CompanyID, assignmentID, s.clock.Now()); err != nil {
		return err
	}
	s.notify(a.CompanyID, a.WorkerID)
	return nil
}
