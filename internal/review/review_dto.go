package review

import (
	"time"

	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/timeentry"
)

type ExceptionQuery struct {
	Filter   string     `form:"filter"`
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=200"`
}

type SummaryQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

type ApproveRequest struct {
	CompanyID string   `json:"company_id"`
	EntryIDs  []string `json:"entry_ids" binding:"required,min=1,dive,uuid"`
}

type RejectRequest struct {
	CompanyID string   `json:"company_id"`
	EntryIDs  []string `json:"entry_ids" binding:"required,min=1,dive,uuid"`
	Reason    string   `json:"reason" binding:"required,max=500"`
}

// BulkRequest selects entries by id or, when EntryIDs is empty, every
// PENDING_REVIEW entry matching Filter and the range.
type BulkRequest struct {
	CompanyID string     `json:"company_id"`
	EntryIDs  []string   `json:"entry_ids" binding:"omitempty,dive,uuid"`
	Filter    string     `json:"filter"`
	From      *time.Time `json:"from"`
	To        *time.Time `json:"to"`
	Reason    string     `json:"reason" binding:"max=500"`
}

type EditRequest struct {
	CompanyID  string     `json:"company_id"`
	ClockInAt  *time.Time `json:"clock_in_at"`
	ClockOutAt *time.Time `json:"clock_out_at"`
	Reason     string     `json:"reason" binding:"required,max=500"`
}

type ResubmitRequest struct {
	CompanyID string `json:"company_id"`
}

type ActionResult struct {
	Updated  int      `json:"updated"`
	EntryIDs []string `json:"entry_ids"`
}

type ChunkResult struct {
	Index     int                    `json:"index"`
	Requested int                    `json:"requested"`
	Succeeded int                    `json:"succeeded"`
	Code      string                 `json:"code,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Details   []apperror.EntryDetail `json:"details,omitempty"`
}

type BulkResult struct {
	Requested int           `json:"requested"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Chunks    []ChunkResult `json:"chunks"`
}

type SummaryResponse struct {
	Summary
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

func toRange(from, to *time.Time) Range {
	var r Range
	if from != nil {
		r.From = from.UTC()
	}
	if to != nil {
		r.To = to.UTC()
	}
	return r
}

func toResponses(rows []timeentry.TimeEntry) []timeentry.EntryResponse {
	out := make([]timeentry.EntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, timeentry.ToResponse(&rows[i]))
	}
	return out
}
