package invoice

import (
	"github.com/gin-gonic/gin"

	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	invoices := r.Group("/invoices")
	invoices.Use(auth)
	{
		invoices.POST("/from-time",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceInvoice, rbac.ActionWrite),
			handler.CreateFromTime,
		)
		invoices.GET("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceInvoice, rbac.ActionRead),
			handler.GetByID,
		)
		invoices.POST("/:id/cancel",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceInvoice, rbac.ActionUpdate),
			handler.Cancel,
		)
	}
}
