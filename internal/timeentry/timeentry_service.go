package timeentry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-fieldtime/internal/company"
	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/events"
	"go-fieldtime/internal/geofence"
	"go-fieldtime/internal/messaging/kafka"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/contextutil"
	"go-fieldtime/internal/shared/database"
	"go-fieldtime/internal/shared/response"
	timeentryerrors "go-fieldtime/internal/timeentry/errors"
)

const (
	defaultPageSize = 50
	aggregateType   = "time_entry"
)

// SelectedJob is the assignment a clock-in is recorded against.
type SelectedJob struct {
	JobID        string
	AssignmentID string
	CustomerID   string
	Site         geofence.Point
	RadiusMeters float64
}

// JobSelector decides which assignment a clock-in belongs to and where a job
// site is. Implemented by the resolver.
//
//go:generate mockgen -destination=mock/job_selector_mock.go -package=mock . JobSelector
type JobSelector interface {
	SelectForClockIn(ctx context.Context, companyID, workerID, jobID string, fix *geofence.Fix) (SelectedJob, error)
	SiteFor(ctx context.Context, companyID, jobID string) (geofence.Point, float64, error)
	Invalidate(companyID, workerID string)
}

//go:generate mockgen -destination=mock/timeentry_service_mock.go -package=mock . Service
type Service interface {
	ClockIn(ctx context.Context, caller domain.Caller, req ClockInRequest) (*ClockResponse, error)
	ClockOut(ctx context.Context, caller domain.Caller, req ClockOutRequest) (*ClockResponse, error)
	// AutoClose closes a stale ACTIVE entry at clock_in + max shift. It
	// reports false when the entry was closed or edited concurrently.
	AutoClose(ctx context.Context, companyID, entryID string) (bool, error)
	ListMine(ctx context.Context, caller domain.Caller, q ListMineQuery) ([]EntryResponse, response.PaginationMeta, error)
	GetByID(ctx context.Context, caller domain.Caller, id string) (*EntryResponse, error)
	AddDisputeNote(ctx context.Context, caller domain.Caller, id string, req DisputeRequest) (*EntryResponse, error)
}

type service struct {
	tx       database.Transactor
	repo     Repository
	outbox   kafka.OutboxRepository
	settings company.SettingsReader
	selector JobSelector
	clock    clock.Clock
	tagger   Tagger
	timeout  time.Duration
	logger   *zap.Logger
}

type Deps struct {
	Transactor database.Transactor
	Repo       Repository
	Outbox     kafka.OutboxRepository
	Settings   company.SettingsReader
	Selector   JobSelector
	Clock      clock.Clock
	Timeout    time.Duration
}

func NewService(d Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("timeentry.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeentry.service")
	}
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Timeout <= 0 {
		d.Timeout = contextutil.DefaultOperationTimeout
	}
	return &service{
		tx:       d.Transactor,
		repo:     d.Repo,
		outbox:   d.Outbox,
		settings: d.Settings,
		selector: d.Selector,
		clock:    d.Clock,
		timeout:  d.Timeout,
		logger:   l,
	}
}

func (s *service) ClockIn(ctx context.Context, caller domain.Caller, req ClockInRequest) (*ClockResponse, error) {
	if err := caller.EnsureTenant(req.CompanyID); err != nil {
		return nil, err
	}
	if caller.WorkerID == "" {
		return nil, timeentryerrors.ErrWorkerRequired
	}
	if strings.TrimSpace(req.ClientEventID) == "" {
		return nil, timeentryerrors.ErrEventIDRequired
	}
	fix := req.Location.Fix()
	if fix != nil && fix.Validate() != nil {
		return nil, timeentryerrors.ErrInvalidLocation
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	companyID, workerID := caller.CompanyID, caller.WorkerID
	log := contextutil.GetLogger(ctx, s.logger).With(
		contextutil.CompanyField(companyID),
		zap.String("worker_id", workerID),
		zap.String("client_event_id", req.ClientEventID),
	)

	if prior, err := s.repo.FindByClientEvent(ctx, companyID, workerID, req.ClientEventID); err != nil {
		return nil, err
	} else if prior != nil {
		log.Info("clock-in replayed", zap.String("entry_id", prior.ID))
		return replay(prior), nil
	}

	if active, err := s.repo.FindActive(ctx, companyID, workerID); err != nil {
		return nil, err
	} else if active != nil {
		return nil, timeentryerrors.ErrAlreadyActive
	}

	settings, err := s.settings.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	selected, err := s.selector.SelectForClockIn(ctx, companyID, workerID, req.JobID, fix)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	entry := &TimeEntry{
		ID:              uuid.NewString(),
		CompanyID:       companyID,
		WorkerID:        workerID,
		JobID:           selected.JobID,
		AssignmentID:    selected.AssignmentID,
		CustomerID:      selected.CustomerID,
		Status:          StatusActive,
		ClockInAt:       now,
		DeviceClockInAt: utcPtr(req.OccurredAt),
		ClientEventID:   req.ClientEventID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if fix != nil {
		res := geofence.Evaluate(selected.Site, selected.RadiusMeters, *fix)
		entry.ClockInLatitude = &fix.Latitude
		entry.ClockInLongitude = &fix.Longitude
		entry.ClockInAccuracy = &fix.AccuracyMeters
		entry.ClockInDistance = &res.DistanceMeters
		entry.GeofenceIn = res.Within
	}
	if settings.RequireGeofence {
		if fix == nil {
			return nil, timeentryerrors.ErrLocationRequired
		}
		if !entry.GeofenceIn {
			log.Info("clock-in rejected outside geofence", zap.Float64("distance_m", *entry.ClockInDistance))
			return nil, timeentryerrors.ErrOutsideGeofence
		}
	}
	s.tagger.OnOpen(entry)

	var prior *TimeEntry
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByClientEvent(ctx, companyID, workerID, req.ClientEventID)
		if err != nil {
			return err
		}
		if existing != nil {
			prior = existing
			return nil
		}

		active, err := repo.LockActive(ctx, companyID, workerID)
		if err != nil {
			return err
		}
		if active != nil {
			return timeentryerrors.ErrAlreadyActive
		}

		if err := mapWriteError(repo.Create(ctx, entry)); err != nil {
			return err
		}
		return s.emit(ctx, tx, events.TimeEntryClockedIn, entry, caller.ActorID(), now)
	})
	if errors.Is(err, errEventRecorded) {
		prior, err = s.repo.FindByClientEvent(ctx, companyID, workerID, req.ClientEventID)
		if err == nil && prior == nil {
			err = timeentryerrors.ErrEntryNotFound
		}
	}
	if err != nil {
		return nil, err
	}
	if prior != nil {
		log.Info("clock-in replayed", zap.String("entry_id", prior.ID))
		return replay(prior), nil
	}

	s.selector.Invalidate(companyID, workerID)
	log.Info("clocked in",
		zap.String("entry_id", entry.ID),
		zap.String("job_id", entry.JobID),
		zap.Bool("geofence_in", entry.GeofenceIn),
	)
	return &ClockResponse{Entry: ToResponse(entry)}, nil
}

func (s *service) ClockOut(ctx context.Context, caller domain.Caller, req ClockOutRequest) (*ClockResponse, error) {
	if err := caller.EnsureTenant(req.CompanyID); err != nil {
		return nil, err
	}
	if caller.WorkerID == "" {
		return nil, timeentryerrors.ErrWorkerRequired
	}
	if strings.TrimSpace(req.ClientEventID) == "" {
		return nil, timeentryerrors.ErrEventIDRequired
	}
	if req.EntryID == "" && req.ClockInEventID == "" {
		return nil, timeentryerrors.ErrEntryReferenceRequired
	}
	fix := req.Location.Fix()
	if fix != nil && fix.Validate() != nil {
		return nil, timeentryerrors.ErrInvalidLocation
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	companyID, workerID := caller.CompanyID, caller.WorkerID
	log := contextutil.GetLogger(ctx, s.logger).With(
		contextutil.CompanyField(companyID),
		zap.String("worker_id", workerID),
		zap.String("client_event_id", req.ClientEventID),
	)

	if prior, err := s.repo.FindByClockOutEvent(ctx, companyID, workerID, req.ClientEventID); err != nil {
		return nil, err
	} else if prior != nil {
		log.Info("clock-out replayed", zap.String("entry_id", prior.ID))
		return replay(prior), nil
	}

	target, err := s.findTarget(ctx, companyID, workerID, req)
	if err != nil {
		return nil, err
	}
	if target.Status != StatusActive {
		return nil, timeentryerrors.ErrAlreadyClosed
	}

	settings, err := s.settings.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var within bool
	var distance *float64
	if fix != nil {
		site, radius, err := s.selector.SiteFor(ctx, companyID, target.JobID)
		if err != nil {
			// clock-out is never blocked on the site lookup
			log.Warn("job site lookup failed, treating fix as outside", zap.Error(err))
		} else {
			res := geofence.Evaluate(site, radius, *fix)
			within = res.Within
			distance = &res.DistanceMeters
		}
	}

	var (
		prior  *TimeEntry
		closed *TimeEntry
	)
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByClockOutEvent(ctx, companyID, workerID, req.ClientEventID)
		if err != nil {
			return err
		}
		if existing != nil {
			prior = existing
			return nil
		}

		e, err := repo.FindByIDForUpdate(ctx, companyID, target.ID)
		if err != nil {
			return err
		}
		if e.Status != StatusActive {
			return timeentryerrors.ErrAlreadyClosed
		}

		now := s.clock.Now()
		eventID := req.ClientEventID
		e.ClockOutAt = &now
		e.DeviceClockOutAt = utcPtr(req.OccurredAt)
		e.ClockOutEventID = &eventID
		e.GeofenceOut = within
		e.ClockOutDistance = distance
		if fix != nil {
			e.ClockOutLatitude = &fix.Latitude
			e.ClockOutLongitude = &fix.Longitude
			e.ClockOutAccuracy = &fix.AccuracyMeters
		}

		if err := s.close(ctx, repo, e, ActionClockOut, settings, now); err != nil {
			return err
		}
		closed = e
		return s.emit(ctx, tx, events.TimeEntryClockedOut, e, caller.ActorID(), now)
	})
	if errors.Is(err, errEventRecorded) {
		prior, err = s.repo.FindByClockOutEvent(ctx, companyID, workerID, req.ClientEventID)
		if err == nil && prior == nil {
			err = timeentryerrors.ErrAlreadyClosed
		}
	}
	if err != nil {
		return nil, err
	}
	if prior != nil {
		log.Info("clock-out replayed", zap.String("entry_id", prior.ID))
		return replay(prior), nil
	}

	s.selector.Invalidate(companyID, workerID)
	log.Info("clocked out",
		zap.String("entry_id", closed.ID),
		zap.Strings("tags", closed.Tags()),
	)
	return &ClockResponse{Entry: ToResponse(closed)}, nil
}

// findTarget resolves the entry a clock-out refers to. Entries of other
// workers are reported as missing.
func (s *service) findTarget(ctx context.Context, companyID, workerID string, req ClockOutRequest) (*TimeEntry, error) {
	if req.EntryID != "" {
		e, err := s.repo.FindByID(ctx, companyID, req.EntryID)
		if err != nil {
			return nil, err
		}
		if e.WorkerID != workerID {
			return nil, timeentryerrors.ErrEntryNotFound
		}
		return e, nil
	}

	e, err := s.repo.FindByClientEvent(ctx, companyID, workerID, req.ClockInEventID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, timeentryerrors.ErrEntryNotFound
	}
	return e, nil
}

// close tags e and moves it out of ACTIVE with a conditional update. The
// caller holds the row lock and has set the clock-out fields.
func (s *service) close(ctx context.Context, repo Repository, e *TimeEntry, action Action, settings company.Settings, now time.Time) error {
	next, err := Next(e.Status, action)
	if err != nil {
		return timeentryerrors.ErrAlreadyClosed
	}

	neighbors, err := s.tagger.OnClose(ctx, repo, e, settings.ExceedThresholdHours, now)
	if err != nil {
		return err
	}

	e.Status = next
	e.UpdatedAt = now
	affected, err := repo.Transition(ctx, e.CompanyID, []string{e.ID}, Allowed(action), map[string]any{
		"status":              e.Status,
		"clock_out_at":        e.ClockOutAt,
		"device_clock_out_at": e.DeviceClockOutAt,
		"clock_out_latitude":  e.ClockOutLatitude,
		"clock_out_longitude": e.ClockOutLongitude,
		"clock_out_accuracy":  e.ClockOutAccuracy,
		"clock_out_distance":  e.ClockOutDistance,
		"geofence_out":        e.GeofenceOut,
		"clock_out_event_id":  e.ClockOutEventID,
		"tag_geofence_out":    e.TagGeofenceOut,
		"tag_exceeds_hours":   e.TagExceedsHours,
		"tag_auto_clockout":   e.TagAutoClockout,
		"tag_overlap":         e.TagOverlap,
		"updated_at":          now,
	})
	if err = mapWriteError(err); err != nil {
		return err
	}
	if affected == 0 {
		return timeentryerrors.ErrAlreadyClosed
	}

	return repo.MarkOverlap(ctx, e.CompanyID, neighbors, now)
}

func (s *service) AutoClose(ctx context.Context, companyID, entryID string) (bool, error) {
	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	settings, err := s.settings.Get(ctx, companyID)
	if err != nil {
		return false, err
	}

	var closed *TimeEntry
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		e, err := repo.FindByIDForUpdate(ctx, companyID, entryID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		if e.Status != StatusActive || now.Sub(e.ClockInAt) <= settings.MaxShift() {
			return nil
		}

		out := e.ClockInAt.Add(settings.MaxShift())
		e.ClockOutAt = &out
		e.TagAutoClockout = true
		e.GeofenceOut = false

		err = s.close(ctx, repo, e, ActionAutoClose, settings, now)
		if errors.Is(err, timeentryerrors.ErrAlreadyClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		closed = e
		return s.emit(ctx, tx, events.TimeEntryAutoClosed, e, "", now)
	})
	if err != nil {
		return false, err
	}
	if closed == nil {
		return false, nil
	}

	s.selector.Invalidate(companyID, closed.WorkerID)
	contextutil.GetLogger(ctx, s.logger).Info("auto clocked out",
		contextutil.CompanyField(companyID),
		zap.String("entry_id", closed.ID),
		zap.Time("clock_out_at", *closed.ClockOutAt),
	)
	return true, nil
}

func (s *service) ListMine(ctx context.Context, caller domain.Caller, q ListMineQuery) ([]EntryResponse, response.PaginationMeta, error) {
	if err := caller.EnsureTenant(""); err != nil {
		return nil, response.PaginationMeta{}, err
	}
	if caller.WorkerID == "" {
		return nil, response.PaginationMeta{}, timeentryerrors.ErrWorkerRequired
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	rows, total, err := s.repo.ListByWorker(ctx, caller.CompanyID, caller.WorkerID, ListQuery{
		From:     utcPtr(q.From),
		To:       utcPtr(q.To),
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}

	out := make([]EntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToResponse(&rows[i]))
	}
	return out, response.NewPaginationMeta(total, q.Page, q.PageSize), nil
}

func (s *service) GetByID(ctx context.Context, caller domain.Caller, id string) (*EntryResponse, error) {
	if err := caller.EnsureTenant(""); err != nil {
		return nil, err
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	e, err := s.visible(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	res := ToResponse(e)
	return &res, nil
}

// AddDisputeNote appends a note and flags the entry. It is permitted in
// every status, invoiced included.
func (s *service) AddDisputeNote(ctx context.Context, caller domain.Caller, id string, req DisputeRequest) (*EntryResponse, error) {
	if err := caller.EnsureTenant(req.CompanyID); err != nil {
		return nil, err
	}
	note := strings.TrimSpace(req.Note)
	if note == "" {
		return nil, timeentryerrors.ErrNoteRequired
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	var updated *TimeEntry
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		e, err := repo.FindByIDForUpdate(ctx, caller.CompanyID, id)
		if err != nil {
			return err
		}
		if !caller.IsAdmin() && e.WorkerID != caller.WorkerID {
			return timeentryerrors.ErrEntryNotFound
		}

		now := s.clock.Now()
		notes := note
		if e.DisputeNotes != "" {
			notes = e.DisputeNotes + "\n" + note
		}
		if err := repo.SetDispute(ctx, caller.CompanyID, e.ID, notes, now); err != nil {
			return err
		}
		e.Disputed = true
		e.DisputeNotes = notes
		e.UpdatedAt = now
		updated = e
		return s.emit(ctx, tx, events.TimeEntryDisputed, e, caller.ActorID(), now)
	})
	if err != nil {
		return nil, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("dispute note added",
		contextutil.CompanyField(caller.CompanyID),
		zap.String("entry_id", id),
	)
	res := ToResponse(updated)
	return &res, nil
}

func (s *service) visible(ctx context.Context, caller domain.Caller, id string) (*TimeEntry, error) {
	e, err := s.repo.FindByID(ctx, caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && e.WorkerID != caller.WorkerID {
		return nil, timeentryerrors.ErrEntryNotFound
	}
	return e, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType string, e *TimeEntry, actorID string, at time.Time) error {
	ev, err := kafka.NewEvent(ctx, aggregateType, e.ID, eventType, events.TimeEntryLifecycleTopic, events.TimeEntryEvent{
		EventType:  eventType,
		RequestID:  contextutil.GetRequestID(ctx),
		EntryID:    e.ID,
		CompanyID:  e.CompanyID,
		WorkerID:   e.WorkerID,
		JobID:      e.JobID,
		Status:     e.Status,
		Tags:       e.Tags(),
		ActorID:    actorID,
		OccurredAt: at,
	})
	if err != nil {
		return err
	}
	ev.CreatedAt = at
	ev.UpdatedAt = at
	return s.outbox.WithTx(tx).Create(ctx, ev)
}

func replay(e *TimeEntry) *ClockResponse {
	return &ClockResponse{Entry: ToResponse(e), Replayed: true}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
