package resolver

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"go-fieldtime/internal/company"
	"go-fieldtime/internal/geofence"
	"go-fieldtime/internal/job"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/contextutil"
	"go-fieldtime/internal/shared/ttlcache"
	"go-fieldtime/internal/timeentry"
	timeentryerrors "go-fieldtime/internal/timeentry/errors"
)

const (
	CandidateTTL           = 5 * time.Minute
	DefaultLocationTimeout = 3 * time.Second
)

var ErrNoFix = errors.New("no location fix")

type ActiveEntryFinder interface {
	FindActive(ctx context.Context, companyID, workerID string) (*timeentry.TimeEntry, error)
}

type AssignmentSource interface {
	ActiveAssignmentsForWindow(ctx context.Context, companyID, workerID string, from, to time.Time) ([]job.AssignedJob, error)
	FindByID(ctx context.Context, companyID, jobID string) (*job.Job, error)
}

type candidateKey struct {
	companyID string
	workerID  string
	day       time.Time
}

// Resolver picks the job a worker is about to clock into. Candidate sets are
// cached per worker and local day; the active-entry check is always live.
type Resolver struct {
	entries         ActiveEntryFinder
	jobs            AssignmentSource
	settings        company.SettingsReader
	clock           clock.Clock
	cache           *ttlcache.Store[candidateKey, []Candidate]
	locationTimeout time.Duration
	logger          *zap.Logger
}

type Options struct {
	Clock           clock.Clock
	LocationTimeout time.Duration
}

func New(entries ActiveEntryFinder, jobs AssignmentSource, settings company.SettingsReader, opts Options, logger ...*zap.Logger) *Resolver {
	l := zap.L().Named("resolver.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("resolver.service")
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.LocationTimeout <= 0 {
		opts.LocationTimeout = DefaultLocationTimeout
	}
	return &Resolver{
		entries:         entries,
		jobs:            jobs,
		settings:        settings,
		clock:           opts.Clock,
		cache:           ttlcache.New[candidateKey, []Candidate](CandidateTTL, opts.Clock),
		locationTimeout: opts.LocationTimeout,
		logger:          l,
	}
}

func (r *Resolver) Resolve(ctx context.Context, companyID, workerID string, loc LocationProvider) (Selection, error) {
	active, err := r.entries.FindActive(ctx, companyID, workerID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return AlreadyClockedIn{EntryID: active.ID, JobID: active.JobID, ClockInAt: active.ClockInAt}, nil
	}

	candidates, err := r.candidates(ctx, companyID, workerID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return NoJobsAssigned{}, nil
	}

	fix := r.locate(ctx, loc)
	ranked := perJob(rank(candidates, fix))
	if len(ranked) == 1 {
		return SingleJobSelected{Candidate: ranked[0]}, nil
	}
	return MultipleJobsAvailable{Candidates: ranked}, nil
}

// Refresh drops the cached candidate set of one worker.
func (r *Resolver) Refresh(companyID, workerID string) {
	r.Invalidate(companyID, workerID)
}

func (r *Resolver) Invalidate(companyID, workerID string) {
	n := r.cache.InvalidateFunc(func(k candidateKey) bool {
		return k.companyID == companyID && k.workerID == workerID
	})
	if n > 0 {
		r.logger.Debug("candidate cache invalidated",
			contextutil.CompanyField(companyID),
			zap.String("worker_id", workerID),
		)
	}
}

// SelectForClockIn picks the assignment a clock-in is recorded against. An
// explicit job must be among today's candidates; without one exactly one job
// may be assigned.
func (r *Resolver) SelectForClockIn(ctx context.Context, companyID, workerID, jobID string, fix *geofence.Fix) (timeentry.SelectedJob, error) {
	candidates, err := r.candidates(ctx, companyID, workerID)
	if err != nil {
		return timeentry.SelectedJob{}, err
	}
	ranked := perJob(rank(candidates, fix))

	if jobID != "" {
		for _, c := range ranked {
			if c.JobID == jobID {
				return selected(c), nil
			}
		}
		return timeentry.SelectedJob{}, timeentryerrors.ErrNotAssigned
	}

	switch len(ranked) {
	case 0:
		return timeentry.SelectedJob{}, timeentryerrors.ErrNotAssigned
	case 1:
		return selected(ranked[0]), nil
	default:
		return timeentry.SelectedJob{}, timeentryerrors.ErrAmbiguousJob
	}
}

func (r *Resolver) SiteFor(ctx context.Context, companyID, jobID string) (geofence.Point, float64, error) {
	j, err := r.jobs.FindByID(ctx, companyID, jobID)
	if err != nil {
		return geofence.Point{}, 0, err
	}
	return geofence.Point{Latitude: j.Latitude, Longitude: j.Longitude}, j.GeofenceRadiusMeters, nil
}

// candidates returns today's assignments in the company's timezone. The
// returned slice is shared with the cache and must not be modified.
func (r *Resolver) candidates(ctx context.Context, companyID, workerID string) ([]Candidate, error) {
	settings, err := r.settings.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	from, to := settings.DayBounds(r.clock.Now())

	key := candidateKey{companyID: companyID, workerID: workerID, day: from}
	return r.cache.Get(ctx, key, func(ctx context.Context) ([]Candidate, error) {
		rows, err := r.jobs.ActiveAssignmentsForWindow(ctx, companyID, workerID, from, to)
		if err != nil {
			return nil, err
		}
		out := make([]Candidate, 0, len(rows))
		for _, row := range rows {
			out = append(out, Candidate{
				AssignmentID: row.AssignmentID,
				JobID:        row.JobID,
				JobName:      row.JobName,
				CustomerID:   row.CustomerID,
				Site:         geofence.Point{Latitude: row.Latitude, Longitude: row.Longitude},
				RadiusMeters: row.GeofenceRadiusMeters,
				StartAt:      row.StartAt,
				EndAt:        row.EndAt,
			})
		}
		return out, nil
	})
}

// locate asks loc for a fix within the location timeout. Failures degrade to
// an unranked result.
func (r *Resolver) locate(ctx context.Context, loc LocationProvider) *geofence.Fix {
	if loc == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.locationTimeout)
	defer cancel()

	fix, err := loc.CurrentFix(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoFix) {
			contextutil.GetLogger(ctx, r.logger).Info("location unavailable, ranking without distance", zap.Error(err))
		}
		return nil
	}
	if err := fix.Validate(); err != nil {
		contextutil.GetLogger(ctx, r.logger).Info("ignoring invalid location fix", zap.Error(err))
		return nil
	}
	return &fix
}

// rank copies candidates, evaluates fix against each site and orders them:
// inside the geofence first, then by distance with unknown distances last,
// then by assignment start, then job id.
func rank(candidates []Candidate, fix *geofence.Fix) []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)

	if fix != nil {
		for i := range out {
			res := geofence.Evaluate(out[i].Site, out[i].RadiusMeters, *fix)
			d, eff := res.DistanceMeters, res.EffectiveRadiusMeters
			out[i].DistanceMeters = &d
			out[i].EffectiveRadiusMeters = &eff
			out[i].WithinGeofence = res.Within
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WithinGeofence != b.WithinGeofence {
			return a.WithinGeofence
		}
		if (a.DistanceMeters == nil) != (b.DistanceMeters == nil) {
			return a.DistanceMeters != nil
		}
		if a.DistanceMeters != nil && *a.DistanceMeters != *b.DistanceMeters {
			return *a.DistanceMeters < *b.DistanceMeters
		}
		if !a.StartAt.Equal(b.StartAt) {
			return a.StartAt.Before(b.StartAt)
		}
		return a.JobID < b.JobID
	})
	return out
}

// perJob keeps the first ranked assignment of every job. Assignments of one
// job share a site, so the first is the one with the earliest start.
func perJob(ranked []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(ranked))
	out := ranked[:0]
	for _, c := range ranked {
		if _, ok := seen[c.JobID]; ok {
			continue
		}
		seen[c.JobID] = struct{}{}
		out = append(out, c)
	}
	return out
}

func selected(c Candidate) timeentry.SelectedJob {
	return timeentry.SelectedJob{
		JobID:        c.JobID,
		AssignmentID: c.AssignmentID,
		CustomerID:   c.CustomerID,
		Site:         c.Site,
		RadiusMeters: c.RadiusMeters,
	}
}

var _ timeentry.JobSelector = (*Resolver)(nil)
