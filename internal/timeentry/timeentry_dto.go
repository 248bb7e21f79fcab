package timeentry

import (
	"time"

	"go-fieldtime/internal/geofence"
)

type LocationFix struct {
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
	Accuracy  float64 `json:"accuracy" binding:"gte=0"`
}

func (l *LocationFix) Fix() *geofence.Fix {
	if l == nil {
		return nil
	}
	return &geofence.Fix{
		Point:          geofence.Point{Latitude: l.Latitude, Longitude: l.Longitude},
		AccuracyMeters: l.Accuracy,
	}
}

// ClockInRequest.ClientEventID is taken from the Idempotency-Key header.
type ClockInRequest struct {
	CompanyID     string       `json:"company_id"`
	ClientEventID string       `json:"client_event_id" binding:"omitempty,max=64"`
	JobID         string       `json:"job_id" binding:"omitempty,uuid"`
	Location      *LocationFix `json:"location"`
	OccurredAt    *time.Time   `json:"occurred_at"`
}

// ClockOutRequest references the entry by id or by the clock-in event id the
// device minted; offline clients may only know the latter.
type ClockOutRequest struct {
	CompanyID      string       `json:"company_id"`
	ClientEventID  string       `json:"client_event_id" binding:"omitempty,max=64"`
	EntryID        string       `json:"entry_id" binding:"omitempty,uuid"`
	ClockInEventID string       `json:"clock_in_event_id" binding:"omitempty,max=64"`
	Location       *LocationFix `json:"location"`
	OccurredAt     *time.Time   `json:"occurred_at"`
}

type DisputeRequest struct {
	CompanyID string `json:"company_id"`
	Note      string `json:"note" binding:"required,max=1000"`
}

type ListMineQuery struct {
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=200"`
}

type EntryResponse struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"company_id"`
	WorkerID        string     `json:"worker_id"`
	JobID           string     `json:"job_id"`
	AssignmentID    string     `json:"assignment_id"`
	Status          string     `json:"status"`
	ClockInAt       time.Time  `json:"clock_in_at"`
	ClockOutAt      *time.Time `json:"clock_out_at,omitempty"`
	DurationSeconds int64      `json:"duration_seconds"`
	GeofenceIn      bool       `json:"geofence_in"`
	GeofenceOut     bool       `json:"geofence_out"`
	Tags            []string   `json:"tags"`
	Disputed        bool       `json:"disputed"`
	DisputeNotes    string     `json:"dispute_notes,omitempty"`
	ClientEventID   string     `json:"client_event_id"`
	ClockOutEventID *string    `json:"clock_out_event_id,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	EditedAt        *time.Time `json:"edited_at,omitempty"`
	EditReason      *string    `json:"edit_reason,omitempty"`
	InvoiceID       *string    `json:"invoice_id,omitempty"`
}

type ClockResponse struct {
	Entry    EntryResponse `json:"entry"`
	Replayed bool          `json:"replayed"`
}

func ToResponse(e *TimeEntry) EntryResponse {
	tags := e.Tags()
	if tags == nil {
		tags = []string{}
	}
	return EntryResponse{
		ID:              e.ID,
		CompanyID:       e.CompanyID,
		WorkerID:        e.WorkerID,
		JobID:           e.JobID,
		AssignmentID:    e.AssignmentID,
		Status:          e.Status,
		ClockInAt:       e.ClockInAt,
		ClockOutAt:      e.ClockOutAt,
		DurationSeconds: int64(e.Duration().Seconds()),
		GeofenceIn:      e.GeofenceIn,
		GeofenceOut:     e.GeofenceOut,
		Tags:            tags,
		Disputed:        e.Disputed,
		DisputeNotes:    e.DisputeNotes,
		ClientEventID:   e.ClientEventID,
		ClockOutEventID: e.ClockOutEventID,
		ApprovedAt:      e.ApprovedAt,
		ApprovedBy:      e.ApprovedBy,
		RejectedAt:      e.RejectedAt,
		RejectionReason: e.RejectionReason,
		EditedAt:        e.EditedAt,
		EditReason:      e.EditReason,
		InvoiceID:       e.InvoiceID,
	}
}
