package company

import (
	"github.com/gin-gonic/gin"

	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	company := r.Group("/companies")
	company.Use(auth)
	{
		company.GET("/me",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceCompany, rbac.ActionRead),
			handler.GetMe,
		)

		// settings changes are rare; 1 per 10s
		company.PATCH("/me",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourceCompany, rbac.ActionUpdate),
			handler.UpdateMe,
		)
	}
}
