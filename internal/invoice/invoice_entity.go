package invoice

import "time"

const (
	StatusIssued    = "ISSUED"
	StatusCancelled = "CANCELLED"
)

// Invoice bundles approved time entries for one customer. Amounts are stored
// in cents. Rows are immutable apart from the cancellation columns.
type Invoice struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	CompanyID       string `gorm:"type:uuid;not null;uniqueIndex:uq_invoices_company_number,priority:1"`
	Number          string `gorm:"type:varchar(32);not null;uniqueIndex:uq_invoices_company_number,priority:2"`
	CustomerID      string `gorm:"type:uuid;not null;index"`
	HourlyRateCents int64  `gorm:"type:bigint;not null;default:0"`
	TotalSeconds    int64  `gorm:"type:bigint;not null;default:0"`
	AmountCents     int64  `gorm:"type:bigint;not null;default:0"`
	Status          string `gorm:"type:varchar(20);not null"`
	CreatedBy       string `gorm:"type:uuid;not null"`

	CancelledAt  *time.Time
	CancelledBy  *string `gorm:"type:uuid"`
	CancelReason *string `gorm:"type:varchar(500)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is one billed entry. The window is copied so the invoice reads
// the same after the entry is released by a cancellation.
type InvoiceItem struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	InvoiceID   string    `gorm:"type:uuid;not null;index"`
	CompanyID   string    `gorm:"type:uuid;not null"`
	EntryID     string    `gorm:"type:uuid;not null;index"`
	WorkerID    string    `gorm:"type:uuid;not null"`
	JobID       string    `gorm:"type:uuid;not null"`
	ClockInAt   time.Time `gorm:"not null"`
	ClockOutAt  time.Time `gorm:"not null"`
	Seconds     int64     `gorm:"type:bigint;not null"`
	AmountCents int64     `gorm:"type:bigint;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// AmountFor prices seconds at rate cents per hour, rounded half up.
func AmountFor(seconds, rateCents int64) int64 {
	return (seconds*rateCents + 1800) / 3600
}
