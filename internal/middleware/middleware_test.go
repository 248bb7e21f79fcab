package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
	"go-fieldtime/internal/shared/contextutil"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims middleware.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(testSecret))
	r.GET("/me", func(c *gin.Context) {
		caller, ok := middleware.GetCaller(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"worker_id": caller.WorkerID, "role": caller.Role})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	t.Run("Valid worker token", func(t *testing.T) {
		token := signToken(t, middleware.Claims{
			UserID: "u1", CompanyID: "c1", WorkerID: "w1", Role: domain.RoleWorker,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"worker_id":"w1"`)
	})

	t.Run("Missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Expired token", func(t *testing.T) {
		token := signToken(t, middleware.Claims{
			UserID: "u1", CompanyID: "c1", WorkerID: "w1", Role: domain.RoleWorker,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token expired")
	})

	t.Run("Worker token without worker id", func(t *testing.T) {
		token := signToken(t, middleware.Claims{UserID: "u1", CompanyID: "c1", Role: domain.RoleWorker})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Missing key is a validation error", func(t *testing.T) {
		db, _ := redismock.NewClientMock()
		r := gin.New()
		r.Use(middleware.Idempotency(db))
		r.POST("/clock-in", func(c *gin.Context) { c.Status(http.StatusCreated) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/clock-in", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("Concurrent duplicate gets PROCESSING", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectSetNX("idemp:/clock-in::k1:lock", "locked", 30*time.Second).SetVal(false)

		r := gin.New()
		r.Use(middleware.Idempotency(db))
		r.POST("/clock-in", func(c *gin.Context) { c.Status(http.StatusCreated) })

		req := httptest.NewRequest(http.MethodPost, "/clock-in", nil)
		req.Header.Set(middleware.IdempotencyHeader, "k1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lock acquired and released", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectSetNX("idemp:/clock-in::k2:lock", "locked", 30*time.Second).SetVal(true)
		mock.ExpectDel("idemp:/clock-in::k2:lock").SetVal(1)

		r := gin.New()
		r.Use(middleware.Idempotency(db))
		r.POST("/clock-in", func(c *gin.Context) {
			assert.Equal(t, "k2", c.GetString(middleware.IdempotencyContextKey))
			c.Status(http.StatusCreated)
		})

		req := httptest.NewRequest(http.MethodPost, "/clock-in", nil)
		req.Header.Set(middleware.IdempotencyHeader, "k2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Redis outage skips the lock", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectSetNX("idemp:/clock-in::k3:lock", "locked", 30*time.Second).SetErr(errors.New("connection refused"))

		r := gin.New()
		r.Use(middleware.Idempotency(db))
		r.POST("/clock-in", func(c *gin.Context) { c.Status(http.StatusCreated) })

		req := httptest.NewRequest(http.MethodPost, "/clock-in", nil)
		req.Header.Set(middleware.IdempotencyHeader, "k3")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e, err := rbac.NewEnforcer()
	require.NoError(t, err)
	svc := rbac.NewService(e)

	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			middleware.SetCaller(c, domain.Caller{UserID: "u1", CompanyID: "c1", WorkerID: "w1", Role: role})
			c.Next()
		})
		r.GET("/review", middleware.RBACAuthorize(svc, rbac.ResourceReview, rbac.ActionRead), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return r
	}

	w := httptest.NewRecorder()
	newRouter(domain.RoleWorker).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/review", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "PERMISSION_DENIED")

	w = httptest.NewRecorder()
	newRouter(domain.RoleAdmin).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/review", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(middleware.RequestIDHeader))
}
