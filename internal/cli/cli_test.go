package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-fieldtime/internal/cli"
	"go-fieldtime/internal/config"
	"go-fieldtime/internal/offlinequeue"
	"go-fieldtime/internal/offlinequeue/mock"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/clock"
	"go-fieldtime/internal/sweeper"
)

type harness struct {
	opts cli.Options
}

func newHarness(t *testing.T, transport offlinequeue.Transport) *harness {
	t.Helper()
	return &harness{opts: cli.Options{
		Config:    config.Config{QueuePath: filepath.Join(t.TempDir(), "queue.db")},
		Logger:    zap.NewNop(),
		Clock:     clock.NewFake(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)),
		Transport: transport,
		Sweep: func(context.Context, sweeper.Options) (sweeper.Report, error) {
			return sweeper.Report{}, nil
		},
	}}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	opts := h.opts
	opts.Out = &out
	cmd := cli.NewRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

type status struct {
	Stats  offlinequeue.Stats `json:"stats"`
	Failed []struct {
		Seq       int64  `json:"seq"`
		LastError string `json:"last_error"`
	} `json:"failed"`
}

func (h *harness) status(t *testing.T, worker string) status {
	t.Helper()
	out, err := h.run(t, "queue", "status", "--worker", worker)
	require.NoError(t, err)
	var s status
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	return s
}

func TestQueue_EnqueueAndSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mock.NewMockTransport(ctrl)
	h := newHarness(t, transport)

	out, err := h.run(t, "queue", "clock-in", "--worker", "w1", "--company", "c1",
		"--job", "job-1", "--lat", "52.52", "--lng", "13.40", "--accuracy", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "queued clock_in #1")

	out, err = h.run(t, "queue", "clock-out", "--worker", "w1", "--company", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "queued clock_out #2")

	assert.Equal(t, offlinequeue.Stats{Pending: 2}, h.status(t, "w1").Stats)

	gomock.InOrder(
		transport.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, it *offlinequeue.Item, p offlinequeue.Payload) (offlinequeue.Receipt, error) {
				assert.Equal(t, offlinequeue.KindClockIn, it.Kind)
				assert.Equal(t, "job-1", p.JobID)
				require.NotNil(t, p.Latitude)
				require.NotNil(t, p.Accuracy)
				assert.InDelta(t, 52.52, *p.Latitude, 1e-9)
				assert.InDelta(t, 12.0, *p.Accuracy, 1e-9)
				return offlinequeue.Receipt{EntryID: "entry-1"}, nil
			}),
		transport.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, it *offlinequeue.Item, p offlinequeue.Payload) (offlinequeue.Receipt, error) {
				assert.Equal(t, offlinequeue.KindClockOut, it.Kind)
				assert.Equal(t, "entry-1", p.EntryID)
				return offlinequeue.Receipt{EntryID: "entry-1"}, nil
			}),
	)

	out, err = h.run(t, "queue", "sync")
	require.NoError(t, err)
	var report offlinequeue.DrainReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 2, report.Acked)

	assert.Equal(t, offlinequeue.Stats{Acknowledged: 2}, h.status(t, "w1").Stats)
}

func TestQueue_SyncRetriesTransientFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mock.NewMockTransport(ctrl)
	h := newHarness(t, transport)

	_, err := h.run(t, "queue", "clock-in", "--worker", "w1", "--company", "c1")
	require.NoError(t, err)

	transport.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(offlinequeue.Receipt{}, assert.AnError)

	_, err = h.run(t, "queue", "sync")
	require.NoError(t, err)

	s := h.status(t, "w1")
	assert.Equal(t, int64(1), s.Stats.Pending)
	assert.Empty(t, s.Failed)
}

func TestQueue_StatusListsRejectedItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mock.NewMockTransport(ctrl)
	h := newHarness(t, transport)

	_, err := h.run(t, "queue", "clock-in", "--worker", "w1", "--company", "c1")
	require.NoError(t, err)
	_, err = h.run(t, "queue", "clock-out", "--worker", "w1", "--company", "c1")
	require.NoError(t, err)

	transport.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(offlinequeue.Receipt{}, apperror.ErrInvalidInput)

	out, err := h.run(t, "queue", "sync")
	require.NoError(t, err)
	var report offlinequeue.DrainReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, int64(1), report.Cascaded)

	s := h.status(t, "w1")
	assert.Equal(t, int64(2), s.Stats.Failed)
	require.Len(t, s.Failed, 2)
	assert.Equal(t, int64(1), s.Failed[0].Seq)
	assert.NotEmpty(t, s.Failed[0].LastError)
}

func TestQueue_RequiresIdentity(t *testing.T) {
	h := newHarness(t, mock.NewMockTransport(gomock.NewController(t)))

	_, err := h.run(t, "queue", "clock-in", "--worker", "w1")
	assert.Error(t, err)

	_, err = h.run(t, "queue", "clock-in", "--worker", "w1", "--company", "c1", "--lat", "1")
	assert.Error(t, err)
}

func TestSweep_PassesDryRun(t *testing.T) {
	h := newHarness(t, nil)
	var got sweeper.Options
	h.opts.Sweep = func(_ context.Context, opts sweeper.Options) (sweeper.Report, error) {
		got = opts
		return sweeper.Report{DryRun: opts.DryRun, Scanned: 3, Stale: 1, StaleIDs: []string{"e-1"}}, nil
	}

	out, err := h.run(t, "sweep", "--dry-run")
	require.NoError(t, err)
	assert.True(t, got.DryRun)

	var report sweeper.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, []string{"e-1"}, report.StaleIDs)
}
