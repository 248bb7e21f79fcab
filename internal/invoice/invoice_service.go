package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/events"
	invoiceerrors "go-fieldtime/internal/invoice/errors"
	"go-fieldtime/internal/messaging/kafka"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/contextutil"
	"go-fieldtime/internal/shared/counter"
	"go-fieldtime/internal/shared/database"
	"go-fieldtime/internal/timeentry"
)

const MaxEntries = 500

//go:generate mockgen -destination=mock/invoice_service_mock.go -package=mock . Service
type Service interface {
	CreateFromTime(ctx context.Context, caller domain.Caller, req CreateInvoiceRequest) (*InvoiceResponse, error)
	Cancel(ctx context.Context, caller domain.Caller, id string, req CancelRequest) (*InvoiceResponse, error)
	GetByID(ctx context.Context, caller domain.Caller, id string) (*InvoiceResponse, error)
}

type Deps struct {
	Transactor database.Transactor
	Repo       Repository
	Entries    timeentry.Repository
	Counters   counter.Repository
	Outbox     kafka.OutboxRepository
	Clock      clock.Clock
	Timeout    time.Duration
}

type service struct {
	tx       database.Transactor
	repo     Repository
	entries  timeentry.Repository
	counters counter.Repository
	outbox   kafka.OutboxRepository
	clock    clock.Clock
	timeout  time.Duration
	logger   *zap.Logger
}

func NewService(d Deps, logger ...*zap.Logger) Service {
	l := zap.L().Named("invoice.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("invoice.service")
	}
	if d.Clock == nil {
		d.Clock = clock.Real()
	}
	if d.Timeout <= 0 {
		d.Timeout = contextutil.DefaultOperationTimeout
	}
	return &service{
		tx:       d.Transactor,
		repo:     d.Repo,
		entries:  d.Entries,
		counters: d.Counters,
		outbox:   d.Outbox,
		clock:    d.Clock,
		timeout:  d.Timeout,
		logger:   l,
	}
}

func authorize(caller domain.Caller, companyID string) error {
	if err := caller.EnsureTenant(companyID); err != nil {
		return err
	}
	return caller.RequireAdmin()
}

func FormatNumber(n int64) string {
	return fmt.Sprintf("INV-%06d", n)
}

// CreateFromTime bundles approved entries into one invoice and locks them.
// Either every entry is stamped with the new invoice or nothing changes.
func (s *service) CreateFromTime(ctx context.Context, caller domain.Caller, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := authorize(caller, req.CompanyID); err != nil {
		return nil, err
	}
	if req.HourlyRateCents < 0 {
		return nil, invoiceerrors.ErrInvalidRate
	}
	ids, err := normalizeIDs(req.EntryIDs)
	if err != nil {
		return nil, err
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	now := s.clock.Now()
	actor := caller.ActorID()
	var created *Invoice

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		entries := s.entries.WithTx(tx)

		rows, err := entries.LockByIDs(ctx, caller.CompanyID, ids)
		if err != nil {
			return err
		}
		customerID, err := checkInvoiceable(ids, rows, req.CustomerID)
		if err != nil {
			return err
		}

		seq, err := s.counters.WithTx(tx).GetNextValue(ctx, caller.CompanyID, counter.TypeInvoiceNumber)
		if err != nil {
			return err
		}

		inv := build(rows, caller.CompanyID, customerID, actor, req.HourlyRateCents, now)
		inv.Number = FormatNumber(seq)
		if err := s.repo.WithTx(tx).Create(ctx, inv); err != nil {
			return err
		}

		stamped, err := entries.StampInvoice(ctx, caller.CompanyID, ids, inv.ID, now)
		if err != nil {
			return err
		}
		if stamped != int64(len(ids)) {
			return invoiceerrors.ErrEntriesNotInvoiceable
		}

		created = inv
		return s.emit(ctx, tx, events.InvoiceCreated, inv, len(inv.Items), actor, now)
	})
	if err != nil {
		return nil, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("invoice created",
		contextutil.CompanyField(caller.CompanyID),
		zap.String("invoice_id", created.ID),
		zap.String("number", created.Number),
		zap.Int("entries", len(ids)),
		zap.Int64("amount_cents", created.AmountCents),
	)
	res := ToResponse(created)
	return &res, nil
}

// checkInvoiceable returns the customer the entries are billed to. Missing
// entries are reported before entries in the wrong state.
func checkInvoiceable(ids []string, rows []timeentry.TimeEntry, customerID string) (string, error) {
	byID := make(map[string]*timeentry.TimeEntry, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	var missing []apperror.EntryDetail
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, apperror.EntryDetail{
				EntryID: id,
				Code:    apperror.CodeNotFound,
				Message: "Time entry not found",
			})
		}
	}
	if len(missing) > 0 {
		return "", invoiceerrors.ErrEntriesNotFound.WithDetails(missing)
	}

	var blocked []apperror.EntryDetail
	for _, id := range ids {
		e := byID[id]
		var reason string
		switch {
		case e.IsInvoiced():
			reason = "Entry is already invoiced"
		case e.Status != timeentry.StatusApproved:
			reason = "Entry is " + e.Status
		case e.ClockOutAt == nil:
			reason = "Entry has no clock-out"
		}
		if reason != "" {
			blocked = append(blocked, apperror.EntryDetail{
				EntryID: id,
				Code:    apperror.CodePreconditionFailed,
				Message: reason,
			})
		}
	}
	if len(blocked) > 0 {
		return "", invoiceerrors.ErrEntriesNotInvoiceable.WithDetails(blocked)
	}

	if customerID == "" {
		customerID = byID[ids[0]].CustomerID
	}
	var mixed []apperror.EntryDetail
	for _, id := range ids {
		if byID[id].CustomerID != customerID {
			mixed = append(mixed, apperror.EntryDetail{
				EntryID: id,
				Code:    apperror.CodeValidation,
				Message: "Entry belongs to customer " + byID[id].CustomerID,
			})
		}
	}
	if len(mixed) > 0 {
		return "", invoiceerrors.ErrMixedCustomers.WithDetails(mixed)
	}
	return customerID, nil
}

func build(rows []timeentry.TimeEntry, companyID, customerID, actor string, rate int64, now time.Time) *Invoice {
	inv := &Invoice{
		ID:              uuid.NewString(),
		CompanyID:       companyID,
		CustomerID:      customerID,
		HourlyRateCents: rate,
		Status:          StatusIssued,
		CreatedBy:       actor,
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           make([]InvoiceItem, 0, len(rows)),
	}
	for i := range rows {
		e := &rows[i]
		secs := int64(e.Duration() / time.Second)
		amount := AmountFor(secs, rate)
		inv.Items = append(inv.Items, InvoiceItem{
			ID:          uuid.NewString(),
			InvoiceID:   inv.ID,
			CompanyID:   companyID,
			EntryID:     e.ID,
			WorkerID:    e.WorkerID,
			JobID:       e.JobID,
			ClockInAt:   e.ClockInAt,
			ClockOutAt:  *e.ClockOutAt,
			Seconds:     secs,
			AmountCents: amount,
			CreatedAt:   now,
		})
		inv.TotalSeconds += secs
		inv.AmountCents += amount
	}
	return inv
}

// Cancel voids an issued invoice and releases its entries back to APPROVED.
func (s *service) Cancel(ctx context.Context, caller domain.Caller, id string, req CancelRequest) (*InvoiceResponse, error) {
	if err := authorize(caller, req.CompanyID); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, invoiceerrors.ErrReasonRequired
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	now := s.clock.Now()
	actor := caller.ActorID()
	var released int64

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		inv, err := repo.FindByIDForUpdate(ctx, caller.CompanyID, id)
		if err != nil {
			return err
		}
		if inv.Status == StatusCancelled {
			return invoiceerrors.ErrAlreadyCancelled
		}

		n, err := repo.MarkCancelled(ctx, caller.CompanyID, id, actor, reason, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return invoiceerrors.ErrAlreadyCancelled
		}

		released, err = s.entries.WithTx(tx).ReleaseInvoice(ctx, caller.CompanyID, id, now)
		if err != nil {
			return err
		}

		inv.Status = StatusCancelled
		return s.emit(ctx, tx, events.InvoiceCancelled, inv, int(released), actor, now)
	})
	if err != nil {
		return nil, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("invoice cancelled",
		contextutil.CompanyField(caller.CompanyID),
		zap.String("invoice_id", id),
		zap.Int64("released", released),
	)

	inv, err := s.repo.FindByID(ctx, caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	res := ToResponse(inv)
	return &res, nil
}

func (s *service) GetByID(ctx context.Context, caller domain.Caller, id string) (*InvoiceResponse, error) {
	if err := authorize(caller, ""); err != nil {
		return nil, err
	}

	ctx, cancel := contextutil.Bound(ctx, s.timeout)
	defer cancel()

	inv, err := s.repo.FindByID(ctx, caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	res := ToResponse(inv)
	return &res, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, eventType string, inv *Invoice, entryCount int, actor string, at time.Time) error {
	ev, err := kafka.NewEvent(ctx, "invoice", inv.ID, eventType, events.InvoiceLifecycleTopic, events.InvoiceEvent{
		EventType:   eventType,
		RequestID:   contextutil.GetRequestID(ctx),
		InvoiceID:   inv.ID,
		CompanyID:   inv.CompanyID,
		Number:      inv.Number,
		CustomerID:  inv.CustomerID,
		EntryCount:  entryCount,
		AmountCents: inv.AmountCents,
		ActorID:     actor,
		OccurredAt:  at,
	})
	if err != nil {
		return err
	}
	ev.CreatedAt, ev.UpdatedAt = at, at
	return s.outbox.WithTx(tx).Create(ctx, ev)
}

func normalizeIDs(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, invoiceerrors.ErrNoEntries
	}
	if len(out) > MaxEntries {
		return nil, invoiceerrors.ErrTooManyEntries.WithDetails(map[string]int{
			"max":       MaxEntries,
			"requested": len(out),
		})
	}
	return out, nil
}
