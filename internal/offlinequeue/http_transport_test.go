package offlinequeue_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-fieldtime/internal/offlinequeue"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/timeentry"
)

func TestHTTPTransport_Send(t *testing.T) {
	lat, lng := 42.6526, -73.7562
	item := &offlinequeue.Item{
		WorkerID: workerA, CompanyID: companyID, Kind: offlinequeue.KindClockOut, ClientEventID: "evt-out-1",
	}
	payload := offlinequeue.Payload{EntryID: "entry-1", ClockInEventID: "evt-in-1", Latitude: &lat, Longitude: &lng}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/time-entries/clock-out", r.URL.Path)
		assert.Equal(t, "evt-out-1", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req timeentry.ClockOutRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, companyID, req.CompanyID)
		assert.Equal(t, "entry-1", req.EntryID)
		assert.Equal(t, "evt-in-1", req.ClockInEventID)
		if assert.NotNil(t, req.Location) {
			assert.Equal(t, lat, req.Location.Latitude)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true,"data":{"entry":{"id":"entry-1","status":"PENDING_REVIEW"},"replayed":true}}`))
	}))
	defer srv.Close()

	tr := offlinequeue.NewHTTPTransport(srv.URL+"/api/v1/", "tok", srv.Client())
	receipt, err := tr.Send(context.Background(), item, payload)
	require.NoError(t, err)
	assert.Equal(t, offlinequeue.Receipt{EntryID: "entry-1", Replayed: true}, receipt)
}

func TestHTTPTransport_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  string
		retryable bool
	}{
		{"Domain rejection", http.StatusUnprocessableEntity, `{"ok":false,"error":{"code":"NOT_ASSIGNED","message":"not assigned"}}`, apperror.CodeNotAssigned, false},
		{"Server unavailable", http.StatusServiceUnavailable, `{"ok":false,"error":{"code":"UNAVAILABLE","message":"retry"}}`, apperror.CodeUnavailable, true},
		{"Concurrent duplicate", http.StatusConflict, `{"ok":false,"error":{"code":"PROCESSING","message":"busy"}}`, apperror.CodeUnavailable, true},
		{"Rate limited", http.StatusTooManyRequests, `{"ok":false,"error":{"code":"RATE_LIMITED","message":"slow down"}}`, apperror.CodeUnavailable, true},
		{"Gateway without envelope", http.StatusBadGateway, `<html>bad gateway</html>`, apperror.CodeUnavailable, true},
		{"Internal error", http.StatusInternalServerError, `{"ok":false,"error":{"code":"INTERNAL_ERROR","message":"boom"}}`, apperror.CodeInternalError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/time-entries/clock-in", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tr := offlinequeue.NewHTTPTransport(srv.URL, "", srv.Client())
			_, err := tr.Send(context.Background(), &offlinequeue.Item{
				CompanyID: companyID, Kind: offlinequeue.KindClockIn, ClientEventID: "evt",
			}, offlinequeue.Payload{JobID: jobID})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperror.CodeOf(err))
			assert.Equal(t, tt.retryable, apperror.IsRetryable(err))
		})
	}

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		tr := offlinequeue.NewHTTPTransport(url, "", nil)
		_, err := tr.Send(context.Background(), &offlinequeue.Item{Kind: offlinequeue.KindClockIn, ClientEventID: "evt"}, offlinequeue.Payload{})
		assert.True(t, apperror.IsRetryable(err))
	})
}
