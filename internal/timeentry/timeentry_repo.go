package timeentry

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-fieldtime/internal/tenant"
	timeentryerrors "go-fieldtime/internal/timeentry/errors"
)

// NeighborLookback bounds the overlap query: only entries that started within
// this long before a window's end are considered.
const NeighborLookback = 48 * time.Hour

type ListQuery struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

//go:generate mockgen -destination=mock/timeentry_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *TimeEntry) error
	FindByID(ctx context.Context, companyID, id string) (*TimeEntry, error)
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*TimeEntry, error)
	// FindActive and the event lookups return (nil, nil) when nothing matches.
	FindActive(ctx context.Context, companyID, workerID string) (*TimeEntry, error)
	LockActive(ctx context.Context, companyID, workerID string) (*TimeEntry, error)
	FindByClientEvent(ctx context.Context, companyID, workerID, clientEventID string) (*TimeEntry, error)
	FindByClockOutEvent(ctx context.Context, companyID, workerID, eventID string) (*TimeEntry, error)
	LockByIDs(ctx context.Context, companyID string, ids []string) ([]TimeEntry, error)
	// Transition applies updates to the ids still in one of the from
	// statuses and not invoiced, returning the affected row count.
	Transition(ctx context.Context, companyID string, ids []string, from []string, updates map[string]any) (int64, error)
	StampInvoice(ctx context.Context, companyID string, ids []string, invoiceID string, at time.Time) (int64, error)
	ReleaseInvoice(ctx context.Context, companyID, invoiceID string, at time.Time) (int64, error)
	SetDispute(ctx context.Context, companyID, id, notes string, at time.Time) error
	Neighbors(ctx context.Context, companyID, workerID, excludeID string, windowEnd time.Time) ([]TimeEntry, error)
	MarkOverlap(ctx context.Context, companyID string, ids []string, at time.Time) error
	ListByWorker(ctx context.Context, companyID, workerID string, q ListQuery) ([]TimeEntry, int64, error)
	ListByInvoice(ctx context.Context, companyID, invoiceID string) ([]TimeEntry, error)
	ListActiveBatch(ctx context.Context, afterID string, limit int) ([]TimeEntry, error)
	ListAutoApprovable(ctx context.Context, companyID string, closedBefore time.Time, afterID string, limit int) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, e *TimeEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*TimeEntry, error) {
	return r.first(r.db.WithContext(ctx).Scopes(tenant.Scope(companyID)).Where("id = ?", id))
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*TimeEntry, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id))
}

func (r *repository) first(q *gorm.DB) (*TimeEntry, error) {
	var e TimeEntry
	err := q.First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, timeentryerrors.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) maybe(q *gorm.DB) (*TimeEntry, error) {
	var rows []TimeEntry
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *repository) FindActive(ctx context.Context, companyID, workerID string) (*TimeEntry, error) {
	return r.maybe(r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("worker_id = ? AND status = ?", workerID, StatusActive))
}

func (r *repository) LockActive(ctx context.Context, companyID, workerID string) (*TimeEntry, error) {
	return r.maybe(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		Where("worker_id = ? AND status = ?", workerID, StatusActive))
}

func (r *repository) FindByClientEvent(ctx context.Context, companyID, workerID, clientEventID string) (*TimeEntry, error) {
	return r.maybe(r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("worker_id = ? AND client_event_id = ?", workerID, clientEventID))
}

func (r *repository) FindByClockOutEvent(ctx context.Context, companyID, workerID, eventID string) (*TimeEntry, error) {
	return r.maybe(r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("worker_id = ? AND clock_out_event_id = ?", workerID, eventID))
}

func (r *repository) LockByIDs(ctx context.Context, companyID string, ids []string) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Transition(ctx context.Context, companyID string, ids []string, from []string, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ? AND status IN ? AND invoice_id IS NULL", ids, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) StampInvoice(ctx context.Context, companyID string, ids []string, invoiceID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ? AND status = ? AND invoice_id IS NULL AND clock_out_at IS NOT NULL", ids, StatusApproved).
		Updates(map[string]any{
			"status":     StatusInvoiced,
			"invoice_id": invoiceID,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) ReleaseInvoice(ctx context.Context, companyID, invoiceID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("invoice_id = ? AND status = ?", invoiceID, StatusInvoiced).
		Updates(map[string]any{
			"status":     StatusApproved,
			"invoice_id": nil,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *repository) SetDispute(ctx context.Context, companyID, id, notes string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"disputed":      true,
			"dispute_notes": notes,
			"updated_at":    at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return timeentryerrors.ErrEntryNotFound
	}
	return nil
}

func (r *repository) Neighbors(ctx context.Context, companyID, workerID, excludeID string, windowEnd time.Time) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("worker_id = ? AND id <> ?", workerID, excludeID).
		Where("clock_in_at >= ? AND clock_in_at < ?", windowEnd.Add(-NeighborLookback), windowEnd).
		Order("clock_in_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) MarkOverlap(ctx context.Context, companyID string, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ? AND invoice_id IS NULL", ids).
		Updates(map[string]any{"tag_overlap": true, "updated_at": at}).Error
}

func (r *repository) ListByWorker(ctx context.Context, companyID, workerID string, q ListQuery) ([]TimeEntry, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("worker_id = ?", workerID)
	if q.From != nil {
		base = base.Where("clock_in_at >= ?", *q.From)
	}
	if q.To != nil {
		base = base.Where("clock_in_at < ?", *q.To)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []TimeEntry
	err := base.Session(&gorm.Session{}).
		Order("clock_in_at DESC, id ASC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) ListByInvoice(ctx context.Context, companyID, invoiceID string) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("invoice_id = ?", invoiceID).
		Order("clock_in_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// ListActiveBatch pages through ACTIVE entries of every tenant by id.
func (r *repository) ListActiveBatch(ctx context.Context, afterID string, limit int) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Where("status = ? AND id > ?", StatusActive, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ListAutoApprovable returns untagged, undisputed PENDING_REVIEW entries
// closed before closedBefore, paged by id.
func (r *repository) ListAutoApprovable(ctx context.Context, companyID string, closedBefore time.Time, afterID string, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&TimeEntry{}).
		Scopes(tenant.Scope(companyID)).
		Where("status = ? AND clock_out_at < ? AND id > ?", StatusPendingReview, closedBefore, afterID).
		Where("tag_geofence_out = ? AND tag_exceeds_hours = 0 AND tag_auto_clockout = ? AND tag_overlap = ? AND disputed = ?",
			false, false, false, false).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&TimeEntry{}); err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_time_entries_active_worker
		ON time_entries (worker_id) WHERE status = 'ACTIVE'`).Error
}
