package company

import (
	"context"
	"errors"

	companyerrors "go-fieldtime/internal/company/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/company_repo_mock.go -package=mock . Repository
type Repository interface {
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id string) (*Company, error)
	Update(ctx context.Context, company *Company) error
	// ListAutoApproveEnabled returns active companies with auto_approve_days > 0.
	ListAutoApproveEnabled(ctx context.Context) ([]Company, error)
	WithTx(tx *gorm.DB) Repository
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

func (r *repository) Create(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Company, error) {
	var company Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, companyerrors.ErrCompanyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *repository) Update(ctx context.Context, company *Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

func (r *repository) ListAutoApproveEnabled(ctx context.Context) ([]Company, error) {
	var companies []Company
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND auto_approve_days > 0", true).
		Order("id ASC").
		Find(&companies).Error
	return companies, err
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Company{})
}
