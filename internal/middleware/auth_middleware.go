package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/contextutil"
	"go-fieldtime/internal/shared/response"
)

var (
	errInvalidToken = apperror.New(apperror.CodeUnauthorized, "Invalid token", http.StatusUnauthorized)
	errTokenExpired = apperror.New(apperror.CodeUnauthorized, "Token expired", http.StatusUnauthorized)
)

// Claims carried by access tokens. Worker tokens must carry worker_id;
// admin tokens may omit it.
type Claims struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	WorkerID  string `json:"worker_id,omitempty"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found", nil)
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			errObj := errInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = errTokenExpired
			}
			response.FromError(c, errObj)
			c.Abort()
			return
		}

		if claims.UserID == "" || claims.CompanyID == "" || claims.Role == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token is missing identity claims", nil)
			c.Abort()
			return
		}
		if claims.Role == domain.RoleWorker && claims.WorkerID == "" {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Worker ID not found in token", nil)
			c.Abort()
			return
		}

		caller := domain.Caller{
			UserID:    claims.UserID,
			CompanyID: claims.CompanyID,
			WorkerID:  claims.WorkerID,
			Role:      claims.Role,
		}
		SetCaller(c, caller)

		c.Next()
	}
}

// SetCaller attaches the caller to both the gin and the request context.
func SetCaller(c *gin.Context, caller domain.Caller) {
	c.Set(domain.CallerContextKey, caller)
	c.Set("user_id", caller.UserID)
	c.Set("company_id", caller.CompanyID)
	c.Set("role", caller.Role)

	ctx := contextutil.WithUserID(c.Request.Context(), caller.UserID)
	ctx = contextutil.WithCompanyID(ctx, caller.CompanyID)
	ctx = contextutil.WithLogger(ctx, contextutil.GetLogger(ctx, nil).With(
		contextutil.UserField(caller.UserID),
		contextutil.CompanyField(caller.CompanyID),
	))
	c.Request = c.Request.WithContext(ctx)
}

// GetCaller returns the authenticated caller set by AuthMiddleware.
func GetCaller(c *gin.Context) (domain.Caller, bool) {
	v, ok := c.Get(domain.CallerContextKey)
	if !ok {
		return domain.Caller{}, false
	}
	caller, ok := v.(domain.Caller)
	return caller, ok
}
