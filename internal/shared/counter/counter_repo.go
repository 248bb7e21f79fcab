package counter

import (
	"context"
	"time"

	"gorm.io/gorm"
)

const TypeInvoiceNumber = "invoice_number"

type CompanyCounter struct {
	CompanyID   string `gorm:"column:company_id;type:uuid;primaryKey"`
	CounterType string `gorm:"column:counter_type;type:varchar(50);primaryKey"`
	LastValue   int64  `gorm:"column:last_value;not null;default:0"`
	UpdatedAt   time.Time
}

func (CompanyCounter) TableName() string {
	return "company_counters"
}

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error)
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

// GetNextValue increments the (company, type) counter atomically. Inside a
// transaction the row stays locked until commit, so numbers are gap-free.
func (r *repository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	var nextValue int64

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO company_counters (company_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (company_id, counter_type) DO UPDATE
		SET last_value = company_counters.last_value + 1, updated_at = CURRENT_TIMESTAMP
		RETURNING last_value
	`, companyID, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&CompanyCounter{})
}
