package invoice_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/invoice"
	invoiceerrors "go-fieldtime/internal/invoice/errors"
	"go-fieldtime/internal/invoice/mock"
	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
	"go-fieldtime/internal/shared/apperror"
)

func newRouter(t *testing.T, svc invoice.Service, caller domain.Caller) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e, err := rbac.NewEnforcer()
	require.NoError(t, err)

	r := gin.New()
	auth := func(c *gin.Context) {
		middleware.SetCaller(c, caller)
		c.Next()
	}
	invoice.RegisterRoutes(r.Group("/api/v1"), invoice.NewHandler(svc), auth, rbac.NewService(e))
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateFromTime(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().CreateFromTime(gomock.Any(), admin, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ domain.Caller, req invoice.CreateInvoiceRequest) (*invoice.InvoiceResponse, error) {
				assert.Equal(t, []string{entryID(1), entryID(2)}, req.EntryIDs)
				assert.Equal(t, int64(4500), req.HourlyRateCents)
				return &invoice.InvoiceResponse{ID: "inv-1", Number: "INV-000001", Status: invoice.StatusIssued}, nil
			})

		w := send(newRouter(t, svc, admin), http.MethodPost, "/api/v1/invoices/from-time",
			`{"entry_ids":["`+entryID(1)+`","`+entryID(2)+`"],"hourly_rate_cents":4500}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"INV-000001"`)
	})

	t.Run("Empty selection is a validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().CreateFromTime(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		w := send(newRouter(t, svc, admin), http.MethodPost, "/api/v1/invoices/from-time", `{"entry_ids":[]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeValidation)
	})

	t.Run("Workers cannot invoice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().CreateFromTime(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		worker := domain.Caller{UserID: "u-2", CompanyID: companyID, WorkerID: workerID, Role: domain.RoleWorker}

		w := send(newRouter(t, svc, worker), http.MethodPost, "/api/v1/invoices/from-time",
			`{"entry_ids":["`+entryID(1)+`"]}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestHandler_GetAndCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)
	svc.EXPECT().GetByID(gomock.Any(), admin, "missing").Return(nil, invoiceerrors.ErrInvoiceNotFound)
	svc.EXPECT().Cancel(gomock.Any(), admin, "inv-1", invoice.CancelRequest{Reason: "duplicate"}).
		Return(&invoice.InvoiceResponse{ID: "inv-1", Status: invoice.StatusCancelled}, nil)
	r := newRouter(t, svc, admin)

	w := send(r, http.MethodGet, "/api/v1/invoices/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeNotFound)

	w = send(r, http.MethodPost, "/api/v1/invoices/inv-1/cancel", `{"reason":"duplicate"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, http.MethodPost, "/api/v1/invoices/inv-1/cancel", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
