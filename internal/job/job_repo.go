package job

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	joberrors "go-fieldtime/internal/job/errors"
	"go-fieldtime/internal/tenant"
)

//go:generate mockgen -destination=mock/job_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateJob(ctx context.Context, j *Job) error
	FindByID(ctx context.Context, companyID, jobID string) (*Job, error)
	ListJobs(ctx context.Context, companyID string) ([]Job, error)
	CreateAssignment(ctx context.Context, a *Assignment) error
	FindAssignment(ctx context.Context, companyID, assignmentID string) (*Assignment, error)
	DeactivateAssignment(ctx context.Context, companyID, assignmentID string, at time.Time) error
	// ActiveAssignmentsForWindow returns active assignments of the worker on
	// active jobs whose window intersects [from, to). An assignment whose job
	// row is gone fails with ErrJobNotFound.
	ActiveAssignmentsForWindow(ctx context.Context, companyID, workerID string, from, to time.Time) ([]AssignedJob, error)
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

func (r *repository) CreateJob(ctx context.Context, j *Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, jobID string) (*Job, error) {
	var j Job
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&j, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, joberrors.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *repository) ListJobs(ctx context.Context, companyID string) ([]Job, error) {
	var jobs []Job
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC, id ASC").
		Find(&jobs).Error
	return jobs, err
}

func (r *repository) CreateAssignment(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAssignment(ctx context.Context, companyID, assignmentID string) (*Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&a, "id = ?", assignmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, joberrors.ErrAssignmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) DeactivateAssignment(ctx context.Context, companyID, assignmentID string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&Assignment{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND is_active = ?", assignmentID, true).
		Updates(map[string]any{"is_active": false, "deactivated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return joberrors.ErrAssignmentNotFound
	}
	return nil
}

type assignedJobRow struct {
	AssignedJob
	SiteID *string
}

func (r *repository) ActiveAssignmentsForWindow(ctx context.Context, companyID, workerID string, from, to time.Time) ([]AssignedJob, error) {
	var rows []assignedJobRow
	err := r.db.WithContext(ctx).
		Table("job_assignments AS a").
		Select(`a.id AS assignment_id, a.job_id AS job_id, j.id AS site_id, j.name AS job_name, j.customer_id AS customer_id,
			j.latitude AS latitude, j.longitude AS longitude, j.geofence_radius_meters AS geofence_radius_meters,
			a.start_at AS start_at, a.end_at AS end_at`).
		Joins("LEFT JOIN jobs AS j ON j.id = a.job_id AND j.company_id = a.company_id").
		Where("a.company_id = ? AND a.worker_id = ? AND a.is_active = ?", companyID, workerID, true).
		Where("j.id IS NULL OR j.status = ?", StatusActive).
		Where("a.start_at < ? AND (a.end_at IS NULL OR a.end_at > ?)", to, from).
		Order("a.start_at ASC, a.job_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]AssignedJob, 0, len(rows))
	for _, row := range rows {
		if row.SiteID == nil {
			return nil, joberrors.ErrJobNotFound.WithDetails(map[string]string{
				"assignment_id": row.AssignmentID,
				"job_id":        row.JobID,
			})
		}
		out = append(out, row.AssignedJob)
	}
	return out, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Job{}, &Assignment{})
}
