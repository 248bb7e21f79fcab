package resolver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
	"go-fieldtime/internal/resolver"
	"go-fieldtime/internal/resolver/mock"
)

var clockWorker = domain.Caller{UserID: "u-1", CompanyID: companyID, WorkerID: workerID, Role: domain.RoleWorker}

func newRouter(t *testing.T, svc resolver.Service, caller domain.Caller) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e, err := rbac.NewEnforcer()
	require.NoError(t, err)

	r := gin.New()
	auth := func(c *gin.Context) {
		middleware.SetCaller(c, caller)
		c.Next()
	}
	resolver.RegisterRoutes(r.Group("/api/v1"), resolver.NewHandler(svc), auth, rbac.NewService(e))
	return r
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHandler_Resolve(t *testing.T) {
	t.Run("Query fix reaches the resolver", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().Resolve(gomock.Any(), companyID, workerID, gomock.Any()).DoAndReturn(
			func(ctx context.Context, _, _ string, loc resolver.LocationProvider) (resolver.Selection, error) {
				fix, err := loc.CurrentFix(ctx)
				require.NoError(t, err)
				assert.InDelta(t, albany.Latitude, fix.Point.Latitude, 1e-9)
				assert.InDelta(t, 12.5, fix.AccuracyMeters, 1e-9)
				return resolver.SingleJobSelected{Candidate: resolver.Candidate{AssignmentID: "as-1", JobID: "j-1"}}, nil
			})

		w := serve(newRouter(t, svc, clockWorker), http.MethodGet,
			"/api/v1/clock/resolve?lat=42.6526&lng=-73.7562&accuracy=12.5")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"kind":"`+resolver.KindSingleJobSelected+`"`)
		assert.Contains(t, w.Body.String(), `"job_id":"j-1"`)
	})

	t.Run("Without a fix the provider reports none", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().Resolve(gomock.Any(), companyID, workerID, gomock.Any()).DoAndReturn(
			func(ctx context.Context, _, _ string, loc resolver.LocationProvider) (resolver.Selection, error) {
				_, err := loc.CurrentFix(ctx)
				assert.ErrorIs(t, err, resolver.ErrNoFix)
				return resolver.AlreadyClockedIn{EntryID: "e-1", JobID: "j-1", ClockInAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}, nil
			})

		w := serve(newRouter(t, svc, clockWorker), http.MethodGet, "/api/v1/clock/resolve")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"entry_id":"e-1"`)
	})

	t.Run("Out of range latitude is a validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		w := serve(newRouter(t, svc, clockWorker), http.MethodGet, "/api/v1/clock/resolve?lat=95&lng=0")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Caller without a worker id is refused", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		admin := domain.Caller{UserID: "u-9", CompanyID: companyID, Role: domain.RoleAdmin}

		w := serve(newRouter(t, svc, admin), http.MethodGet, "/api/v1/clock/resolve")

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHandler_Refresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	gomock.InOrder(
		svc.EXPECT().Refresh(companyID, workerID),
		svc.EXPECT().Resolve(gomock.Any(), companyID, workerID, gomock.Any()).Return(resolver.NoJobsAssigned{}, nil),
	)

	w := serve(newRouter(t, svc, clockWorker), http.MethodPost, "/api/v1/clock/resolve/refresh")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"candidates":[]`)
}
