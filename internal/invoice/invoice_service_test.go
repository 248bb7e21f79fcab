package invoice_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/invoice"
	invoiceerrors "go-fieldtime/internal/invoice/errors"
	"go-fieldtime/internal/messaging/kafka"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/shared/counter"
	"go-fieldtime/internal/shared/database"
	"go-fieldtime/internal/shared/testdb"
	"go-fieldtime/internal/timeentry"
)

const (
	companyID  = "11111111-1111-1111-1111-111111111111"
	workerID   = "22222222-2222-2222-2222-222222222222"
	customerID = "33333333-3333-3333-3333-333333333333"
	otherCust  = "44444444-4444-4444-4444-444444444444"
	jobID      = "55555555-5555-5555-5555-555555555555"
)

var admin = domain.Caller{UserID: "66666666-6666-6666-6666-666666666666", CompanyID: companyID, Role: domain.RoleAdmin}

type fixture struct {
	db      *gorm.DB
	clk     *clock.Fake
	entries timeentry.Repository
	svc     invoice.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t, timeentry.Migrate, kafka.Migrate, invoice.Migrate, counter.Migrate)
	clk := clock.NewFake(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	entries := timeentry.NewRepository(db)
	svc := invoice.NewService(invoice.Deps{
		Transactor: database.NewTransactor(db),
		Repo:       invoice.NewRepository(db),
		Entries:    entries,
		Counters:   counter.NewRepository(db),
		Outbox:     kafka.NewOutboxRepository(db),
		Clock:      clk,
		Timeout:    5 * time.Second,
	})
	return &fixture{db: db, clk: clk, entries: entries, svc: svc}
}

func entryID(i int) string {
	return fmt.Sprintf("eeeeeeee-0000-0000-0000-%012d", i)
}

func (f *fixture) seed(t *testing.T, i int, status string, length time.Duration, mutate ...func(*timeentry.TimeEntry)) {
	t.Helper()
	in := f.clk.Now().Add(-72 * time.Hour).Add(time.Duration(i) * 2 * time.Hour)
	out := in.Add(length)
	e := &timeentry.TimeEntry{
		ID: entryID(i), CompanyID: companyID, WorkerID: workerID, JobID: jobID, AssignmentID: jobID,
		CustomerID: customerID, Status: status, ClockInAt: in, ClockOutAt: &out,
		GeofenceIn: true, GeofenceOut: true, ClientEventID: fmt.Sprintf("in-%d", i),
		CreatedAt: in, UpdatedAt: in,
	}
	for _, m := range mutate {
		m(e)
	}
	require.NoError(t, f.entries.Create(context.Background(), e))
}

func (f *fixture) entry(t *testing.T, i int) *timeentry.TimeEntry {
	t.Helper()
	e, err := f.entries.FindByID(context.Background(), companyID, entryID(i))
	require.NoError(t, err)
	return e
}

func entryDetails(t *testing.T, err error) []apperror.EntryDetail {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	d, ok := appErr.Details.([]apperror.EntryDetail)
	require.True(t, ok)
	return d
}

func TestAmountFor(t *testing.T) {
	assert.EqualValues(t, 6000, invoice.AmountFor(3600, 6000))
	assert.EqualValues(t, 1, invoice.AmountFor(1, 1800))
	assert.EqualValues(t, 0, invoice.AmountFor(1, 1799))
	assert.EqualValues(t, 0, invoice.AmountFor(5400, 0))
}

func TestCreateFromTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, 1, timeentry.StatusApproved, time.Hour)
	f.seed(t, 2, timeentry.StatusApproved, 30*time.Minute)

	inv, err := f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{
		EntryIDs: []string{entryID(1), entryID(2), entryID(1)}, HourlyRateCents: 6000,
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-000001", inv.Number)
	assert.Equal(t, customerID, inv.CustomerID)
	assert.Equal(t, invoice.StatusIssued, inv.Status)
	assert.EqualValues(t, 5400, inv.TotalSeconds)
	assert.EqualValues(t, 9000, inv.AmountCents)
	require.Len(t, inv.Items, 2)

	for _, i := range []int{1, 2} {
		e := f.entry(t, i)
		assert.Equal(t, timeentry.StatusInvoiced, e.Status)
		require.NotNil(t, e.InvoiceID)
		assert.Equal(t, inv.ID, *e.InvoiceID)
	}

	var events []kafka.OutboxEvent
	require.NoError(t, f.db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "invoice.created", events[0].EventType)
	assert.Equal(t, inv.ID, events[0].AggregateID)

	got, err := f.svc.GetByID(ctx, admin, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.Number, got.Number)
	assert.Len(t, got.Items, 2)
}

func TestCreateFromTime_InvoicesAreDisjoint(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, 1, timeentry.StatusApproved, time.Hour)
	f.seed(t, 2, timeentry.StatusApproved, time.Hour)
	f.seed(t, 3, timeentry.StatusApproved, time.Hour)

	first, err := f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{EntryIDs: []string{entryID(1), entryID(2)}})
	require.NoError(t, err)

	_, err = f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{EntryIDs: []string{entryID(2), entryID(3)}})
	assert.ErrorIs(t, err, invoiceerrors.ErrEntriesNotInvoiceable)
	d := entryDetails(t, err)
	require.Len(t, d, 1)
	assert.Equal(t, entryID(2), d[0].EntryID)

	// nothing from the failed attempt sticks
	assert.Nil(t, f.entry(t, 3).InvoiceID)
	assert.Equal(t, first.ID, *f.entry(t, 2).InvoiceID)

	second, err := f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{EntryIDs: []string{entryID(3)}})
	require.NoError(t, err)
	assert.Equal(t, "INV-000002", second.Number)

	var items []invoice.InvoiceItem
	require.NoError(t, f.db.Order("entry_id").Find(&items).Error)
	seen := map[string]string{}
	for _, it := range items {
		prev, dup := seen[it.EntryID]
		assert.False(t, dup, "entry %s on invoices %s and %s", it.EntryID, prev, it.InvoiceID)
		seen[it.EntryID] = it.InvoiceID
	}
	assert.Len(t, seen, 3)
}

func TestCreateFromTime_Preconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing entries", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, 1, timeentry.StatusApproved, time.Hour)

		_, err := f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{EntryIDs: []string{entryID(1), entryID(9)}})
		assert.ErrorIs(t, err, invoiceerrors.ErrEntriesNotFound)
		d := entryDetails(t, err)
		require.Len(t, d, 1)
		assert.Equal(t, entryID(9), d[0].EntryID)
		assert.Nil(t, f.entry(t, 1).InvoiceID)
	})

	t.Run("Entries not approved", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, 1, timeentry.StatusApproved, time.Hour)
		f.seed(t, 2, timeentry.StatusPendingReview, time.Hour)

		_, err := f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{EntryIDs: []string{entryID(1), entryID(2)}})
		assert.ErrorIs(t, err, invoiceerrors.ErrEntriesNotInvoiceable)
		assert.Equal(t, timeentry.StatusApproved, f.entry(t, 1).Status)

		var count int64
		require.NoError(t, f.db.Model(&invoice.Invoice{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Mixed customers", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, 1, timeentry.StatusApproved, time.Hour)
		f.seed(t, 2, timeentry.StatusApproved, time.Hour, func(e *timeentry.TimeEntry) { e.CustomerID = otherCust })

		_, err := f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{EntryIDs: []string{entryID(1), entryID(2)}})
		assert.ErrorIs(t, err, invoiceerrors.ErrMixedCustomers)

		_, err = f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{CustomerID: otherCust, EntryIDs: []string{entryID(2)}})
		assert.NoError(t, err)
	})

	t.Run("Too many entries", func(t *testing.T) {
		f := newFixture(t)
		ids := make([]string, 0, 501)
		for i := 0; i < 501; i++ {
			ids = append(ids, entryID(i))
		}
		_, err := f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{EntryIDs: ids})
		assert.ErrorIs(t, err, invoiceerrors.ErrTooManyEntries)
	})

	t.Run("Guards", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{})
		assert.ErrorIs(t, err, invoiceerrors.ErrNoEntries)

		_, err = f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{EntryIDs: []string{entryID(1)}, HourlyRateCents: -1})
		assert.ErrorIs(t, err, invoiceerrors.ErrInvalidRate)

		_, err = f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{
			CompanyID: "99999999-9999-9999-9999-999999999999", EntryIDs: []string{entryID(1)},
		})
		assert.ErrorIs(t, err, apperror.ErrTenantMismatch)

		worker := domain.Caller{UserID: "u", CompanyID: companyID, WorkerID: workerID, Role: domain.RoleWorker}
		_, err = f.svc.CreateFromTime(ctx, worker, invoice.CreateInvoiceRequest{EntryIDs: []string{entryID(1)}})
		assert.ErrorIs(t, err, apperror.ErrPermissionDenied)
	})
}

func TestCancel_ReleasesEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, 1, timeentry.StatusApproved, time.Hour)

	inv, err := f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{EntryIDs: []string{entryID(1)}, HourlyRateCents: 4500})
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, admin, inv.ID, invoice.CancelRequest{Reason: " "})
	assert.ErrorIs(t, err, invoiceerrors.ErrReasonRequired)

	cancelled, err := f.svc.Cancel(ctx, admin, inv.ID, invoice.CancelRequest{Reason: "wrong rate"})
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "wrong rate", *cancelled.CancelReason)
	assert.Len(t, cancelled.Items, 1)

	e := f.entry(t, 1)
	assert.Equal(t, timeentry.StatusApproved, e.Status)
	assert.Nil(t, e.InvoiceID)

	_, err = f.svc.Cancel(ctx, admin, inv.ID, invoice.CancelRequest{Reason: "again"})
	assert.ErrorIs(t, err, invoiceerrors.ErrAlreadyCancelled)

	reissued, err := f.svc.CreateFromTime(ctx, admin, invoice.CreateInvoiceRequest{EntryIDs: []string{entryID(1)}, HourlyRateCents: 5000})
	require.NoError(t, err)
	assert.Equal(t, "INV-000002", reissued.Number)
	assert.EqualValues(t, 5000, reissued.AmountCents)

	var types []string
	require.NoError(t, f.db.Model(&kafka.OutboxEvent{}).Order("created_at, event_type").Pluck("event_type", &types).Error)
	assert.ElementsMatch(t, []string{"invoice.created", "invoice.cancelled", "invoice.created"}, types)

	_, err = f.svc.GetByID(ctx, admin, "ffffffff-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, invoiceerrors.ErrInvoiceNotFound)
}
