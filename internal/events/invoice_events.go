package events

import "time"

const InvoiceLifecycleTopic = "fieldtime.invoice.lifecycle.v1"

const (
	InvoiceCreated   = "invoice.created"
	InvoiceCancelled = "invoice.cancelled"
)

type InvoiceEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	InvoiceID   string    `json:"invoice_id"`
	CompanyID   string    `json:"company_id"`
	Number      string    `json:"number"`
	CustomerID  string    `json:"customer_id"`
	EntryCount  int       `json:"entry_count"`
	AmountCents int64     `json:"amount_cents"`
	ActorID     string    `json:"actor_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
