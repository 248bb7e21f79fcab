package offlinequeue

import (
	"encoding/json"
	"time"
)

const (
	KindClockIn  = "clock_in"
	KindClockOut = "clock_out"
)

const (
	StatePending      = "pending"
	StateInflight     = "inflight"
	StateAcknowledged = "acknowledged"
	StateFailed       = "failed"
)

// Item is one queued clock action. Seq orders a worker's items; the client
// event id is minted once at enqueue and reused on every send.
type Item struct {
	ID            string    `gorm:"primaryKey"`
	WorkerID      string    `gorm:"not null;uniqueIndex:uq_journal_worker_seq,priority:1"`
	CompanyID     string    `gorm:"not null"`
	Seq           int64     `gorm:"not null;uniqueIndex:uq_journal_worker_seq,priority:2"`
	Kind          string    `gorm:"not null"`
	ClientEventID string    `gorm:"not null;uniqueIndex"`
	Payload       []byte    `gorm:"not null"`
	State         string    `gorm:"not null;index"`
	Attempts      int       `gorm:"not null;default:0"`
	NextAttemptAt time.Time `gorm:"not null"`
	LastError     string
	EntryID       *string
	AckedAt       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Item) TableName() string {
	return "journal_items"
}

// Payload is what the device captured at the moment of the action.
type Payload struct {
	JobID          string     `json:"job_id,omitempty"`
	EntryID        string     `json:"entry_id,omitempty"`
	ClockInEventID string     `json:"clock_in_event_id,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Accuracy       *float64   `json:"accuracy,omitempty"`
	OccurredAt     *time.Time `json:"occurred_at,omitempty"`
}

func (it *Item) Decode() (Payload, error) {
	var p Payload
	err := json.Unmarshal(it.Payload, &p)
	return p, err
}

type Stats struct {
	Pending      int64 `json:"pending"`
	Inflight     int64 `json:"inflight"`
	Acknowledged int64 `json:"acknowledged"`
	Failed       int64 `json:"failed"`
}
