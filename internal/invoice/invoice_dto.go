package invoice

import "time"

type CreateInvoiceRequest struct {
	CompanyID       string   `json:"company_id"`
	CustomerID      string   `json:"customer_id" binding:"omitempty,uuid"`
	EntryIDs        []string `json:"entry_ids" binding:"required,min=1,dive,uuid"`
	HourlyRateCents int64    `json:"hourly_rate_cents" binding:"min=0"`
}

type CancelRequest struct {
	CompanyID string `json:"company_id"`
	Reason    string `json:"reason" binding:"required,max=500"`
}

type ItemResponse struct {
	EntryID     string    `json:"entry_id"`
	WorkerID    string    `json:"worker_id"`
	JobID       string    `json:"job_id"`
	ClockInAt   time.Time `json:"clock_in_at"`
	ClockOutAt  time.Time `json:"clock_out_at"`
	Seconds     int64     `json:"seconds"`
	AmountCents int64     `json:"amount_cents"`
}

type InvoiceResponse struct {
	ID              string         `json:"id"`
	CompanyID       string         `json:"company_id"`
	Number          string         `json:"number"`
	CustomerID      string         `json:"customer_id"`
	Status          string         `json:"status"`
	HourlyRateCents int64          `json:"hourly_rate_cents"`
	TotalSeconds    int64          `json:"total_seconds"`
	AmountCents     int64          `json:"amount_cents"`
	CreatedBy       string         `json:"created_by"`
	CreatedAt       time.Time      `json:"created_at"`
	CancelledAt     *time.Time     `json:"cancelled_at,omitempty"`
	CancelReason    *string        `json:"cancel_reason,omitempty"`
	Items           []ItemResponse `json:"items"`
}

func ToResponse(inv *Invoice) InvoiceResponse {
	items := make([]ItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, ItemResponse{
			EntryID:     it.EntryID,
			WorkerID:    it.WorkerID,
			JobID:       it.JobID,
			ClockInAt:   it.ClockInAt,
			ClockOutAt:  it.ClockOutAt,
			Seconds:     it.Seconds,
			AmountCents: it.AmountCents,
		})
	}
	return InvoiceResponse{
		ID:              inv.ID,
		CompanyID:       inv.CompanyID,
		Number:          inv.Number,
		CustomerID:      inv.CustomerID,
		Status:          inv.Status,
		HourlyRateCents: inv.HourlyRateCents,
		TotalSeconds:    inv.TotalSeconds,
		AmountCents:     inv.AmountCents,
		CreatedBy:       inv.CreatedBy,
		CreatedAt:       inv.CreatedAt,
		CancelledAt:     inv.CancelledAt,
		CancelReason:    inv.CancelReason,
		Items:           items,
	}
}
