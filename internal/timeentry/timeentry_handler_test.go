package timeentry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/response"
	"go-fieldtime/internal/timeentry"
	timeentryerrors "go-fieldtime/internal/timeentry/errors"
	"go-fieldtime/internal/timeentry/mock"
)

const clockInLock = "idemp:/api/v1/time-entries/clock-in:u-1:evt-1:lock"

func newRouter(t *testing.T, svc timeentry.Service, rdb redis.Cmdable) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e, err := rbac.NewEnforcer()
	require.NoError(t, err)

	r := gin.New()
	auth := func(c *gin.Context) {
		middleware.SetCaller(c, worker)
		c.Next()
	}
	timeentry.RegisterRoutes(r.Group("/api/v1"), timeentry.NewHandler(svc), auth, rbac.NewService(e), rdb)
	return r
}

func post(r http.Handler, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(middleware.IdempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func clockResponse(replayed bool) *timeentry.ClockResponse {
	return &timeentry.ClockResponse{
		Entry:    timeentry.EntryResponse{ID: "entry-1", Status: timeentry.StatusActive},
		Replayed: replayed,
	}
}

func TestHandler_ClockIn(t *testing.T) {
	t.Run("Idempotency key becomes the client event id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().ClockIn(gomock.Any(), worker, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ domain.Caller, req timeentry.ClockInRequest) (*timeentry.ClockResponse, error) {
				assert.Equal(t, "evt-1", req.ClientEventID)
				assert.Equal(t, jobID, req.JobID)
				return clockResponse(false), nil
			})

		w := post(newRouter(t, svc, nil), "/api/v1/time-entries/clock-in", "evt-1",
			`{"job_id":"`+jobID+`","client_event_id":"ignored"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"replayed":false`)
	})

	t.Run("Replay answers 200", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().ClockIn(gomock.Any(), worker, gomock.Any()).Return(clockResponse(true), nil)

		w := post(newRouter(t, svc, nil), "/api/v1/time-entries/clock-in", "evt-1", `{}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"replayed":true`)
	})

	t.Run("Missing key never reaches the service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().ClockIn(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		w := post(newRouter(t, svc, nil), "/api/v1/time-entries/clock-in", "", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeValidation)
	})

	t.Run("Binding error is a validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().ClockIn(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		w := post(newRouter(t, svc, nil), "/api/v1/time-entries/clock-in", "evt-1", `{"job_id":"not-a-uuid"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeValidation)
	})

	t.Run("Duplicate in flight gets 409 PROCESSING", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().ClockIn(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		rdb, rmock := redismock.NewClientMock()
		rmock.ExpectSetNX(clockInLock, "locked", 30*time.Second).SetVal(false)

		w := post(newRouter(t, svc, rdb), "/api/v1/time-entries/clock-in", "evt-1", `{}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"PROCESSING"`)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("Lock is released once the write finishes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().ClockIn(gomock.Any(), worker, gomock.Any()).Return(clockResponse(false), nil)
		rdb, rmock := redismock.NewClientMock()
		rmock.ExpectSetNX(clockInLock, "locked", 30*time.Second).SetVal(true)
		rmock.ExpectDel(clockInLock).SetVal(1)

		w := post(newRouter(t, svc, rdb), "/api/v1/time-entries/clock-in", "evt-1", `{}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, rmock.ExpectationsWereMet())
	})

	t.Run("Service errors keep their code", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().ClockIn(gomock.Any(), worker, gomock.Any()).Return(nil, timeentryerrors.ErrAlreadyActive)

		w := post(newRouter(t, svc, nil), "/api/v1/time-entries/clock-in", "evt-1", `{}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeAlreadyActive)
	})
}

func TestHandler_ClockOut(t *testing.T) {
	t.Run("Idempotency key becomes the client event id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().ClockOut(gomock.Any(), worker, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ domain.Caller, req timeentry.ClockOutRequest) (*timeentry.ClockResponse, error) {
				assert.Equal(t, "evt-2", req.ClientEventID)
				assert.Equal(t, "evt-1", req.ClockInEventID)
				return clockResponse(false), nil
			})

		w := post(newRouter(t, svc, nil), "/api/v1/time-entries/clock-out", "evt-2", `{"clock_in_event_id":"evt-1"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Replay answers 200", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().ClockOut(gomock.Any(), worker, gomock.Any()).Return(clockResponse(true), nil)

		w := post(newRouter(t, svc, nil), "/api/v1/time-entries/clock-out", "evt-2", `{}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Binding error is a validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().ClockOut(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		w := post(newRouter(t, svc, nil), "/api/v1/time-entries/clock-out", "evt-2", `{"entry_id":42}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeValidation)
	})
}

func TestHandler_ListMine(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	svc.EXPECT().ListMine(gomock.Any(), worker, timeentry.ListMineQuery{Page: 2, PageSize: 10}).
		Return([]timeentry.EntryResponse{{ID: "entry-1"}}, response.NewPaginationMeta(11, 2, 10), nil)
	r := newRouter(t, svc, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/time-entries/me?page=2&page_size=10", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"meta"`)
	assert.Contains(t, w.Body.String(), `"entry-1"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/time-entries/me?page_size=500", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Dispute(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	svc.EXPECT().AddDisputeNote(gomock.Any(), worker, "entry-1", timeentry.DisputeRequest{Note: "left at 5"}).
		Return(&timeentry.EntryResponse{ID: "entry-1"}, nil)
	r := newRouter(t, svc, nil)

	w := post(r, "/api/v1/time-entries/entry-1/dispute", "", `{"note":"left at 5"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(r, "/api/v1/time-entries/entry-1/dispute", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_RequiresCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	h := timeentry.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/time-entries/clock-in", strings.NewReader(`{}`))
	h.ClockIn(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
