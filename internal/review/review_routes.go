package review

import (
	"github.com/gin-gonic/gin"

	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	review := r.Group("/review")
	review.Use(auth)
	{
		review.GET("/exceptions",
			middleware.RBACAuthorize(rbacService, rbac.ResourceReview, rbac.ActionRead),
			handler.ListExceptions,
		)
		review.GET("/summary",
			middleware.RBACAuthorize(rbacService, rbac.ResourceReview, rbac.ActionRead),
			handler.Summary,
		)
		review.POST("/approve",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceReview, rbac.ActionUpdate),
			handler.Approve,
		)
		review.POST("/reject",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceReview, rbac.ActionUpdate),
			handler.Reject,
		)
		review.POST("/approve-all",
			middleware.RateLimitByUser(1, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceReview, rbac.ActionUpdate),
			handler.ApproveAll,
		)
		review.POST("/reject-all",
			middleware.RateLimitByUser(1, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceReview, rbac.ActionUpdate),
			handler.RejectAll,
		)
		review.PATCH("/entries/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceReview, rbac.ActionUpdate),
			handler.Edit,
		)
		review.POST("/entries/:id/resubmit",
			middleware.RBACAuthorize(rbacService, rbac.ResourceReview, rbac.ActionUpdate),
			handler.Resubmit,
		)
		review.POST("/entries/:id/dispute",
			middleware.RBACAuthorize(rbacService, rbac.ResourceReview, rbac.ActionUpdate),
			handler.Dispute,
		)
	}
}
