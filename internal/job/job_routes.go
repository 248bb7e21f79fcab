package job

import (
	"github.com/gin-gonic/gin"

	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	jobs := r.Group("/jobs")
	jobs.Use(auth)
	{
		jobs.GET("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceJob, rbac.ActionRead),
			handler.List,
		)
		jobs.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceJob, rbac.ActionWrite),
			handler.Create,
		)
		jobs.POST("/:id/assignments",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceJob, rbac.ActionWrite),
			handler.Assign,
		)
		jobs.DELETE("/assignments/:assignmentId",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceJob, rbac.ActionWrite),
			handler.Unassign,
		)
	}
}
