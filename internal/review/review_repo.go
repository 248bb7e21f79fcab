package review

import (
	"context"
	"time"

	"gorm.io/gorm"

	"go-fieldtime/internal/tenant"
	"go-fieldtime/internal/timeentry"
)

const (
	FilterOutsideGeofence  = "outside_geofence"
	FilterExceedsThreshold = "exceeds_threshold"
	FilterAutoClockout     = "auto_clockout"
	FilterOverlapping      = "overlapping"
	FilterDisputed         = "disputed"
	FilterAllPending       = "all_pending"
)

func ValidFilter(f string) bool {
	switch f {
	case FilterOutsideGeofence, FilterExceedsThreshold, FilterAutoClockout,
		FilterOverlapping, FilterDisputed, FilterAllPending:
		return true
	}
	return false
}

// Range bounds clock_in_at to [From, To). Zero values are open.
type Range struct {
	From time.Time
	To   time.Time
}

// Summary holds per-category counts. Tag categories count PENDING_REVIEW
// entries only; Disputed spans every status.
type Summary struct {
	OutsideGeofence  int64 `json:"outside_geofence" gorm:"column:outside_geofence"`
	ExceedsThreshold int64 `json:"exceeds_threshold" gorm:"column:exceeds_threshold"`
	AutoClockout     int64 `json:"auto_clockout" gorm:"column:auto_clockout"`
	Overlapping      int64 `json:"overlapping" gorm:"column:overlapping"`
	Disputed         int64 `json:"disputed" gorm:"column:disputed"`
	AllPending       int64 `json:"all_pending" gorm:"column:all_pending"`
}

//go:generate mockgen -destination=mock/review_repo_mock.go -package=mock . Repository
type Repository interface {
	ListExceptions(ctx context.Context, companyID, filter string, r Range, page, pageSize int) ([]timeentry.TimeEntry, int64, error)
	ListPendingIDs(ctx context.Context, companyID, filter string, r Range) ([]string, error)
	Summary(ctx context.Context, companyID string, r Range) (Summary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func filterScope(filter string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter == FilterDisputed {
			return db.Where("disputed = ?", true)
		}
		db = db.Where("status = ?", timeentry.StatusPendingReview)
		switch filter {
		case FilterOutsideGeofence:
			return db.Where("tag_geofence_out = ?", true)
		case FilterExceedsThreshold:
			return db.Where("tag_exceeds_hours > 0")
		case FilterAutoClockout:
			return db.Where("tag_auto_clockout = ?", true)
		case FilterOverlapping:
			return db.Where("tag_overlap = ?", true)
		}
		return db
	}
}

func rangeScope(r Range) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !r.From.IsZero() {
			db = db.Where("clock_in_at >= ?", r.From)
		}
		if !r.To.IsZero() {
			db = db.Where("clock_in_at < ?", r.To)
		}
		return db
	}
}

func (r *repository) ListExceptions(ctx context.Context, companyID, filter string, rg Range, page, pageSize int) ([]timeentry.TimeEntry, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&timeentry.TimeEntry{}).
		Scopes(tenant.Scope(companyID), filterScope(filter), rangeScope(rg))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []timeentry.TimeEntry
	err := base.Session(&gorm.Session{}).
		Order("clock_in_at ASC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

// ListPendingIDs returns the PENDING_REVIEW ids matching filter, in id order.
func (r *repository) ListPendingIDs(ctx context.Context, companyID, filter string, rg Range) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&timeentry.TimeEntry{}).
		Scopes(tenant.Scope(companyID), filterScope(filter), rangeScope(rg)).
		Where("status = ?", timeentry.StatusPendingReview).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) Summary(ctx context.Context, companyID string, rg Range) (Summary, error) {
	pending := timeentry.StatusPendingReview
	var s Summary
	err := r.db.WithContext(ctx).
		Model(&timeentry.TimeEntry{}).
		Select(`
COALESCE(SUM(CASE WHEN status = ? AND tag_geofence_out = ? THEN 1 ELSE 0 END), 0) AS outside_geofence,
COALESCE(SUM(CASE WHEN status = ? AND tag_exceeds_hours > 0 THEN 1 ELSE 0 END), 0) AS exceeds_threshold,
COALESCE(SUM(CASE WHEN status = ? AND tag_auto_clockout = ? THEN 1 ELSE 0 END), 0) AS auto_clockout,
COALESCE(SUM(CASE WHEN status = ? AND tag_overlap = ? THEN 1 ELSE 0 END), 0) AS overlapping,
COALESCE(SUM(CASE WHEN disputed = ? THEN 1 ELSE 0 END), 0) AS disputed,
COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS all_pending`,
			pending, true, pending, pending, true, pending, true, true, pending).
		Scopes(tenant.Scope(companyID), rangeScope(rg)).
		Scan(&s).Error
	return s, err
}
