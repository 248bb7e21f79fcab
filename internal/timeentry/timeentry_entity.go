package timeentry

import (
	"fmt"
	"time"
)

const (
	StatusActive        = "ACTIVE"
	StatusPendingReview = "PENDING_REVIEW"
	StatusApproved      = "APPROVED"
	StatusRejected      = "REJECTED"
	StatusInvoiced      = "INVOICED"
)

const (
	TagGeofenceOut  = "geofence_out"
	TagAutoClockout = "auto_clockout"
	TagOverlap      = "overlap"
)

// ExceedsTag renders the exceeds_Nh tag for threshold n hours.
func ExceedsTag(n int) string {
	return fmt.Sprintf("exceeds_%dh", n)
}

// TimeEntry is the ledger row. Timestamps are server-assigned; the Device*
// columns keep what the client reported and are informational only.
type TimeEntry struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	CompanyID    string `gorm:"type:uuid;not null;index:idx_time_entries_company_status_in,priority:1"`
	WorkerID     string `gorm:"type:uuid;not null;uniqueIndex:uq_time_entries_worker_event,priority:1;uniqueIndex:uq_time_entries_worker_out_event,priority:1;index:idx_time_entries_worker_in,priority:1"`
	JobID        string `gorm:"type:uuid;not null"`
	AssignmentID string `gorm:"type:uuid;not null"`
	CustomerID   string `gorm:"type:uuid;not null"`
	Status       string `gorm:"type:varchar(20);not null;index:idx_time_entries_company_status_in,priority:2"`

	ClockInAt        time.Time `gorm:"not null;index:idx_time_entries_company_status_in,priority:3;index:idx_time_entries_worker_in,priority:2"`
	ClockOutAt       *time.Time
	DeviceClockInAt  *time.Time
	DeviceClockOutAt *time.Time

	ClockInLatitude       *float64
	ClockInLongitude      *float64
	ClockInAccuracy       *float64
	ClockInDistance       *float64
	ClockOutLatitude      *float64
	ClockOutLongitude     *float64
	ClockOutAccuracy      *float64
	ClockOutDistance      *float64
	GeofenceIn            bool `gorm:"not null;default:false"`
	GeofenceOut           bool `gorm:"not null;default:false"`

	TagGeofenceOut  bool `gorm:"not null;default:false"`
	TagExceedsHours int  `gorm:"not null;default:0"`
	TagAutoClockout bool `gorm:"not null;default:false"`
	TagOverlap      bool `gorm:"not null;default:false"`

	Disputed     bool   `gorm:"not null;default:false"`
	DisputeNotes string `gorm:"type:text"`

	ClientEventID   string  `gorm:"type:varchar(64);not null;uniqueIndex:uq_time_entries_worker_event,priority:2"`
	ClockOutEventID *string `gorm:"type:varchar(64);uniqueIndex:uq_time_entries_worker_out_event,priority:2"`

	ApprovedAt      *time.Time
	ApprovedBy      *string `gorm:"type:uuid"`
	RejectedAt      *time.Time
	RejectedBy      *string `gorm:"type:uuid"`
	RejectionReason *string `gorm:"type:varchar(500)"`
	EditedAt        *time.Time
	EditedBy        *string `gorm:"type:uuid"`
	EditReason      *string `gorm:"type:varchar(500)"`

	InvoiceID *string `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

func (e *TimeEntry) Duration() time.Duration {
	if e.ClockOutAt == nil {
		return 0
	}
	return e.ClockOutAt.Sub(e.ClockInAt)
}

func (e *TimeEntry) HasException() bool {
	return e.TagGeofenceOut || e.TagExceedsHours > 0 || e.TagAutoClockout || e.TagOverlap
}

// Tags lists the exception tags in a stable order.
func (e *TimeEntry) Tags() []string {
	var tags []string
	if e.TagGeofenceOut {
		tags = append(tags, TagGeofenceOut)
	}
	if e.TagExceedsHours > 0 {
		tags = append(tags, ExceedsTag(e.TagExceedsHours))
	}
	if e.TagAutoClockout {
		tags = append(tags, TagAutoClockout)
	}
	if e.TagOverlap {
		tags = append(tags, TagOverlap)
	}
	return tags
}

func (e *TimeEntry) IsInvoiced() bool {
	return e.InvoiceID != nil
}
