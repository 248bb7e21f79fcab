package events

import "time"

const TimeEntryLifecycleTopic = "fieldtime.time_entry.lifecycle.v1"

const (
	TimeEntryClockedIn   = "time_entry.clocked_in"
	TimeEntryClockedOut  = "time_entry.clocked_out"
	TimeEntryAutoClosed  = "time_entry.auto_closed"
	TimeEntryApproved    = "time_entry.approved"
	TimeEntryRejected    = "time_entry.rejected"
	TimeEntryEdited      = "time_entry.edited"
	TimeEntryResubmitted = "time_entry.resubmitted"
	TimeEntryDisputed    = "time_entry.disputed"
)

type TimeEntryEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EntryID    string    `json:"entry_id"`
	CompanyID  string    `json:"company_id"`
	WorkerID   string    `json:"worker_id"`
	JobID      string    `json:"job_id"`
	Status     string    `json:"status"`
	Tags       []string  `json:"tags,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TimeEntryBatchEvent is emitted once per bulk review chunk.
type TimeEntryBatchEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	CompanyID  string    `json:"company_id"`
	EntryIDs   []string  `json:"entry_ids"`
	ActorID    string    `json:"actor_id,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
