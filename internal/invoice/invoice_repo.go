package invoice

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	invoiceerrors "go-fieldtime/internal/invoice/errors"
	"go-fieldtime/internal/tenant"
)

//go:generate mockgen -destination=mock/invoice_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, inv *Invoice) error
	FindByID(ctx context.Context, companyID, id string) (*Invoice, error)
	FindByIDForUpdate(ctx context.Context, companyID, id string) (*Invoice, error)
	MarkCancelled(ctx context.Context, companyID, id, actorID, reason string, at time.Time) (int64, error)
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

// Create inserts the invoice and its items.
func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("clock_in_at ASC, id ASC")
		}).
		First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invoiceerrors.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID, id string) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invoiceerrors.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) MarkCancelled(ctx context.Context, companyID, id, actorID, reason string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Invoice{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND status = ?", id, StatusIssued).
		Updates(map[string]any{
			"status":        StatusCancelled,
			"cancelled_at":  at,
			"cancelled_by":  actorID,
			"cancel_reason": reason,
			"updated_at":    at,
		})
	return res.RowsAffected, res.Error
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Invoice{}, &InvoiceItem{})
}
