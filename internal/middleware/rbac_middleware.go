package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-fieldtime/internal/domain"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/response"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			response.FromError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:      caller.Role,
			CompanyID: caller.CompanyID,
			Resource:  resource,
			Action:    action,
		})
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodePermissionDenied,
				apperror.ErrPermissionDenied.Message,
				map[string]string{"required": resource + ":" + action},
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
