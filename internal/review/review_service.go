package review

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
	"go-fieldtime/internal/messaging/kafka"
	reviewerrors "go-fieldtime/internal/review/errors"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/contextutil"
	"go-fieldtime/internal/shared/database"
	"go-fieldtime/internal/shared/response"
	"go-fieldtime/internal/timeentry"
	timeentryerrors "go-fieldtime/internal/timeentry/errors"
)

const (
	// MaxBatch is the default cap for Approve and Reject; the *All variants
	// chunk by the same size.
	MaxBatch = 500

	MaxEditSpan     = 24 * time.Hour
	defaultPageSize = 50
)

//go:generate mockgen -destination=mock/review_service_mock.go -package=mock . Service
type Service interface {
	ListExceptions(ctx context.Context, caller domain.Caller, q ExceptionQuery) ([]timeentry.EntryResponse, response.PaginationMeta, error)
	Summary(ctx context.Context, caller domain.Caller, q SummaryQuery) (*SummaryResponse, error)
	Approve(ctx context.Context, caller domain.Caller, ids []string) (*ActionResult, error)
	Reject(ctx context.Context, caller domain.Caller, ids []string, reason string) (*ActionResult, error)
	ApproveAll(ctx context.Context, caller domain.Caller, req BulkRequest) (*BulkResult, error)
	RejectAll(ctx context.Context, caller domain.Caller, req BulkRequest) (*BulkResult, error)
	Edit(ctx context.Context, caller domain.Caller, id string, req EditRequest) (*timeentry.EntryResponse, error)
	Resubmit(ctx context.Context, caller domain.Caller, id string) (*timeentry.EntryResponse, error)
	AddDisputeNote(ctx context.Context, caller domain.Caller, id string, req timeentry.DisputeRequest) (*timeentry.EntryResponse, error)
	// AutoApprove approves clean PENDING_REVIEW entries without an actor.
	AutoApprove(ctx context.Context, companyID string, ids []string) (int, error)
}

type Deps struct {
	Transactor   database.Transactor
	Repo         Repository
	Entries      timeentry.Repository
	EntryService timeentry.Service
	Outbox       kafka.OutboxRepository
	Settings     company.SettingsReader
	Summaries    *SummaryCache
	Clock        clock.Clock
	Timeout      time.Duration
	BatchSize    int
}

type service struct {
	tx        database.Transactor
	repo      Repository
	entries   timeentry.Repository
	entrySvc  timeentry.Service
	outbox    kafka.OutboxRepository
	settings  company.SettingsReader
	summaries *SummaryCache
	clock     clock.Clock
	tagger    timeentry.Tagger
	timeout   time.Duration
	batch     int
	logger    *zap.Logger
}

func NewService(d Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("review.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("review.service")
	}
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Timeout <= 0 {
		d.Timeout = contextutil.DefaultOperationTimeout
	}
	if d.BatchSize <= 0 {
		d.BatchSize = MaxBatch
	}
	if d.Summaries == nil {
		d.Summaries = NewSummaryCache(nil, d.Repo, l)
	}
	return &service{
		tx:        d.Transactor,
		repo:      d.Repo,
		entries:   d.Entries,
		entrySvc:  d.EntryService,
		outbox:    d.Outbox,
		settings:  d.Settings,
		summaries: d.Summaries,
		clock:     d.Clock,
		timeout:   d.Timeout,
		batch:     d.BatchSize,
		logger:    l,
	}
}

func authorize(caller domain.Caller, companyID string) error {
	if err := caller.EnsureTenant(companyID); err != nil {
		return err
	}
	return caller.RequireAdmin()
}

func (s *service) ListExceptions(ctx context.Context, caller domain.Caller, q ExceptionQuery) ([]timeentry.EntryResponse, response.PaginationMeta, error) {
	if err := authorize(caller, ""); err != nil {
		return nil, response.PaginationMeta{}, err
	}
	if q.Filter == "" {
		q.Filter = FilterAllPending
	}
	if !ValidFilter(q.Filter) {
		return nil, response.PaginationMeta{}, reviewerrors.ErrInvalidFilter
	}
	rg := toRange(q.From, q.To)
	if err := checkRange(rg); err != nil {
		return nil, response.PaginationMeta{}, err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	rows, total, err := s.repo.ListExceptions(ctx, caller.CompanyID, q.Filter, rg, q.Page, q.PageSize)
	if err != nil {
		return nil, response.PaginationMeta{}, err
	}
	return toResponses(rows), response.NewPaginationMeta(total, q.Page, q.PageSize), nil
}

func (s *service) Summary(ctx context.Context, caller domain.Caller, q SummaryQuery) (*SummaryResponse, error) {
	if err := authorize(caller, ""); err != nil {
		return nil, err
	}
	rg := toRange(q.From, q.To)
	if err := checkRange(rg); err != nil {
		return nil, err
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	sum, err := s.summaries.Get(ctx, caller.CompanyID, rg)
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{Summary: sum, From: q.From, To: q.To}, nil
}

func (s *service) Approve(ctx context.Context, caller domain.Caller, ids []string) (*ActionResult, error) {
	if err := authorize(caller, ""); err != nil {
		return nil, err
	}
	ids, err := s.normalizeIDs(ids)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, caller, ids, timeentry.ActionApprove, "")
}

func (s *service) Reject(ctx context.Context, caller domain.Caller, ids []string, reason string) (*ActionResult, error) {
	if err := authorize(caller, ""); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, reviewerrors.ErrReasonRequired
	}
	ids, err := s.normalizeIDs(ids)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, caller, ids, timeentry.ActionReject, reason)
}

func (s *service) ApproveAll(ctx context.Context, caller domain.Caller, req BulkRequest) (*BulkResult, error) {
	return s.bulk(ctx, caller, req, timeentry.ActionApprove)
}

func (s *service) RejectAll(ctx context.Context, caller domain.Caller, req BulkRequest) (*BulkResult, error) {
	return s.bulk(ctx, caller, req, timeentry.ActionReject)
}

// bulk runs apply over chunks of the batch size. Each chunk commits or fails on its
// own; a failed chunk does not stop the next one.
func (s *service) bulk(ctx context.Context, caller domain.Caller, req BulkRequest, action timeentry.Action) (*BulkResult, error) {
	if err := authorize(caller, req.CompanyID); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if action == timeentry.ActionReject && reason == "" {
		return nil, reviewerrors.ErrReasonRequired
	}

	ids := dedupe(req.EntryIDs)
	if len(ids) == 0 {
		filter := req.Filter
		if filter == "" {
			filter = FilterAllPending
		}
		if !ValidFilter(filter) {
			return nil, reviewerrors.ErrInvalidFilter
		}
		rg := toRange(req.From, req.To)
		if err := checkRange(rg); err != nil {
			return nil, err
		}

		listCtx, cancel := contextutil.Bound(ctx, s.timeout)
		matched, err := s.repo.ListPendingIDs(listCtx, caller.CompanyID, filter, rg)
		cancel()
		if err != nil {
			return nil, err
		}
		ids = matched
	}

	result := &BulkResult{Requested: len(ids), Chunks: []ChunkResult{}}
	for i, chunk := range chunks(ids, s.batch) {
		cr := ChunkResult{Index: i, Requested: len(chunk)}
		res, err := s.apply(ctx, caller, chunk, action, reason)
		if err != nil {
			describeChunkError(&cr, err)
			result.Failed += len(chunk)
			s.logger.Warn("bulk chunk failed",
				zap.String("action", string(action)),
				zap.Int("chunk", i),
				zap.String("code", cr.Code),
			)
		} else {
			cr.Succeeded = res.Updated
			result.Succeeded += res.Updated
		}
		result.Chunks = append(result.Chunks, cr)
	}
	return result, nil
}

func describeChunkError(cr *ChunkResult, err error) {
	cr.Code = apperror.CodeOf(err)
	cr.Message = apperror.ToHTTP(err).Message
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if details, ok := appErr.Details.([]apperror.EntryDetail); ok {
			cr.Details = details
		}
	}
}

// apply moves every id through action in one transaction. Nothing changes
// unless every entry exists in the caller's company and allows the action.
func (s *service) apply(ctx context.Context, caller domain.Caller, ids []string, action timeentry.Action, reason string) (*ActionResult, error) {
	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	now := s.clock.Now()
	actor := caller.ActorID()

	var updates map[string]any
	var eventType string
	switch action {
	case timeentry.ActionApprove:
		eventType = events.TimeEntryApproved
		updates = map[string]any{
			"status":      timeentry.StatusApproved,
			"approved_at": now,
			"approved_by": actor,
			"updated_at":  now,
		}
	case timeentry.ActionReject:
		eventType = events.TimeEntryRejected
		updates = map[string]any{
			"status":           timeentry.StatusRejected,
			"rejected_at":      now,
			"rejected_by":      actor,
			"rejection_reason": reason,
			"updated_at":       now,
		}
	case timeentry.ActionResubmit:
		eventType = events.TimeEntryResubmitted
		updates = map[string]any{
			"status":     timeentry.StatusPendingReview,
			"updated_at": now,
		}
	default:
		return nil, timeentryerrors.ErrInvalidTransition
	}

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		entries := s.entries.WithTx(tx)

		rows, err := entries.LockByIDs(ctx, caller.CompanyID, ids)
		if err != nil {
			return err
		}
		if err := checkAll(ids, rows, action); err != nil {
			return err
		}

		affected, err := entries.Transition(ctx, caller.CompanyID, ids, timeentry.Allowed(action), updates)
		if err != nil {
			return err
		}
		if affected != int64(len(ids)) {
			return reviewerrors.ErrEntriesNotReviewable
		}
		return s.emitBatch(ctx, tx, eventType, caller.CompanyID, ids, actor, reason, now)
	})
	if err != nil {
		return nil, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("entries reviewed",
		contextutil.CompanyField(caller.CompanyID),
		zap.String("action", string(action)),
		zap.Int("count", len(ids)),
	)
	return &ActionResult{Updated: len(ids), EntryIDs: ids}, nil
}

// checkAll reports every missing entry, or else every entry in the wrong
// state, with per-entry details.
func checkAll(ids []string, rows []timeentry.TimeEntry, action timeentry.Action) error {
	byID := make(map[string]*timeentry.TimeEntry, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	var missing []apperror.EntryDetail
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, apperror.EntryDetail{
				EntryID: id,
				Code:    apperror.CodeNotFound,
				Message: timeentryerrors.ErrEntryNotFound.Message,
			})
		}
	}
	if len(missing) > 0 {
		return reviewerrors.ErrEntriesNotFound.WithDetails(missing)
	}

	var blocked []apperror.EntryDetail
	for _, id := range ids {
		e := byID[id]
		switch _, err := timeentry.Next(e.Status, action); {
		case e.IsInvoiced():
			blocked = append(blocked, apperror.EntryDetail{
				EntryID: id,
				Code:    apperror.CodePreconditionFailed,
				Message: timeentryerrors.ErrEntryInvoiced.Message,
			})
		case err != nil:
			blocked = append(blocked, apperror.EntryDetail{
				EntryID: id,
				Code:    apperror.CodePreconditionFailed,
				Message: "Entry is " + e.Status,
			})
		}
	}
	if len(blocked) > 0 {
		return reviewerrors.ErrEntriesNotReviewable.WithDetails(blocked)
	}
	return nil
}

func (s *service) Edit(ctx context.Context, caller domain.Caller, id string, req EditRequest) (*timeentry.EntryResponse, error) {
	if err := authorize(caller, req.CompanyID); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, reviewerrors.ErrReasonRequired
	}
	if req.ClockInAt == nil && req.ClockOutAt == nil {
		return nil, reviewerrors.ErrNothingToEdit
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	settings, err := s.settings.Get(ctx, caller.CompanyID)
	if err != nil {
		return nil, err
	}

	var edited *timeentry.TimeEntry
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		entries := s.entries.WithTx(tx)

		e, err := entries.FindByIDForUpdate(ctx, caller.CompanyID, id)
		if err != nil {
			return err
		}
		if e.IsInvoiced() {
			return timeentryerrors.ErrEntryInvoiced
		}
		if _, err := timeentry.Next(e.Status, timeentry.ActionEdit); err != nil || e.ClockOutAt == nil {
			return reviewerrors.ErrNotEditable
		}

		if req.ClockInAt != nil {
			e.ClockInAt = req.ClockInAt.UTC()
		}
		if req.ClockOutAt != nil {
			out := req.ClockOutAt.UTC()
			e.ClockOutAt = &out
		}

		now := s.clock.Now()
		if err := checkWindow(e.ClockInAt, *e.ClockOutAt, now); err != nil {
			return err
		}

		neighbors, err := s.tagger.Retag(ctx, entries, e, settings.ExceedThresholdHours, now)
		if err != nil {
			return err
		}
		if len(neighbors) > 0 {
			details := make([]apperror.EntryDetail, 0, len(neighbors))
			for _, n := range neighbors {
				details = append(details, apperror.EntryDetail{
					EntryID: n,
					Code:    apperror.CodeValidation,
					Message: "overlaps the edited window",
				})
			}
			return reviewerrors.ErrEditOverlap.WithDetails(details)
		}

		actor := caller.ActorID()
		e.EditedAt = &now
		e.EditedBy = &actor
		e.EditReason = &reason
		e.UpdatedAt = now

		affected, err := entries.Transition(ctx, caller.CompanyID, []string{e.ID}, timeentry.Allowed(timeentry.ActionEdit), map[string]any{
			"clock_in_at":       e.ClockInAt,
			"clock_out_at":      e.ClockOutAt,
			"tag_exceeds_hours": e.TagExceedsHours,
			"tag_overlap":       e.TagOverlap,
			"edited_at":         now,
			"edited_by":         actor,
			"edit_reason":       reason,
			"updated_at":        now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return reviewerrors.ErrNotEditable
		}
		edited = e
		return s.emitEntry(ctx, tx, events.TimeEntryEdited, e, actor, now)
	})
	if err != nil {
		return nil, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("entry edited",
		contextutil.CompanyField(caller.CompanyID),
		zap.String("entry_id", id),
		zap.Strings("tags", edited.Tags()),
	)
	res := timeentry.ToResponse(edited)
	return &res, nil
}

func checkWindow(in, out, now time.Time) error {
	if !out.After(in) {
		return reviewerrors.ErrInvalidWindow
	}
	if out.After(now) {
		return reviewerrors.ErrFutureWindow
	}
	if out.Sub(in) > MaxEditSpan {
		return reviewerrors.ErrWindowTooLong
	}
	return nil
}

func (s *service) Resubmit(ctx context.Context, caller domain.Caller, id string) (*timeentry.EntryResponse, error) {
	if err := caller.EnsureTenant(""); err != nil {
		return nil, err
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	e, err := s.entries.FindByID(ctx, caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && e.WorkerID != caller.WorkerID {
		return nil, timeentryerrors.ErrEntryNotFound
	}
	if e.Status != timeentry.StatusRejected {
		return nil, reviewerrors.ErrNotResubmittable
	}

	if _, err := s.apply(ctx, caller, []string{id}, timeentry.ActionResubmit, ""); err != nil {
		if errors.Is(err, reviewerrors.ErrEntriesNotReviewable) {
			return nil, reviewerrors.ErrNotResubmittable
		}
		return nil, err
	}

	e, err = s.entries.FindByID(ctx, caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	res := timeentry.ToResponse(e)
	return &res, nil
}

func (s *service) AddDisputeNote(ctx context.Context, caller domain.Caller, id string, req timeentry.DisputeRequest) (*timeentry.EntryResponse, error) {
	return s.entrySvc.AddDisputeNote(ctx, caller, id, req)
}

func (s *service) AutoApprove(ctx context.Context, companyID string, ids []string) (int, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	now := s.clock.Now()
	var approved []string
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		entries := s.entries.WithTx(tx)

		rows, err := entries.LockByIDs(ctx, companyID, ids)
		if err != nil {
			return err
		}
		for i := range rows {
			e := &rows[i]
			if e.Status == timeentry.StatusPendingReview && !e.HasException() && !e.Disputed && !e.IsInvoiced() {
				approved = append(approved, e.ID)
			}
		}
		if len(approved) == 0 {
			return nil
		}

		affected, err := entries.Transition(ctx, companyID, approved, timeentry.Allowed(timeentry.ActionApprove), map[string]any{
			"status":      timeentry.StatusApproved,
			"approved_at": now,
			"updated_at":  now,
		})
		if err != nil {
			return err
		}
		if affected != int64(len(approved)) {
			return reviewerrors.ErrEntriesNotReviewable
		}
		return s.emitBatch(ctx, tx, events.TimeEntryApproved, companyID, approved, "", "auto_approve", now)
	})
	if err != nil {
		return 0, err
	}

	if len(approved) > 0 {
		s.logger.Info("entries auto-approved",
			contextutil.CompanyField(companyID),
			zap.Int("count", len(approved)),
		)
	}
	return len(approved), nil
}

func (s *service) emitBatch(ctx context.Context, tx *gorm.DB, eventType, companyID string, ids []string, actor, reason string, at time.Time) error {
	batchID := uuid.NewString()
	ev, err := kafka.NewEvent(ctx, "time_entry_batch", batchID, eventType, events.TimeEntryLifecycleTopic, events.TimeEntryBatchEvent{
		EventType:  eventType,
		RequestID:  contextutil.GetRequestID(ctx),
		CompanyID:  companyID,
		EntryIDs:   ids,
		ActorID:    actor,
		Reason:     reason,
		OccurredAt: at,
	})
	if err != nil {
		return err
	}
	ev.CreatedAt, ev.UpdatedAt = at, at
	return s.outbox.WithTx(tx).Create(ctx, ev)
}

func (s *service) emitEntry(ctx context.Context, tx *gorm.DB, eventType string, e *timeentry.TimeEntry, actor string, at time.Time) error {
	ev, err := kafka.NewEvent(ctx, "time_entry", e.ID, eventType, events.TimeEntryLifecycleTopic, events.TimeEntryEvent{
		EventType:  eventType,
		RequestID:  contextutil.GetRequestID(ctx),
		EntryID:    e.ID,
		CompanyID:  e.CompanyID,
		WorkerID:   e.WorkerID,
		JobID:      e.JobID,
		Status:     e.Status,
		Tags:       e.Tags(),
		ActorID:    actor,
		OccurredAt: at,
	})
	if err != nil {
		return err
	}
	ev.CreatedAt, ev.UpdatedAt = at, at
	return s.outbox.WithTx(tx).Create(ctx, ev)
}

func checkRange(r Range) error {
	if !r.From.IsZero() && !r.To.IsZero() && !r.From.Before(r.To) {
		return reviewerrors.ErrInvalidRange
	}
	return nil
}

// normalizeIDs caps the request as sent, before duplicates are folded.
func (s *service) normalizeIDs(ids []string) ([]string, error) {
	if len(ids) > s.batch {
		return nil, reviewerrors.ErrTooManyEntries.WithDetails(map[string]int{
			"max":       s.batch,
			"requested": len(ids),
		})
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, reviewerrors.ErrNoEntries
	}
	return ids, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func chunks(ids []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[start:end])
	}
	return out
}
