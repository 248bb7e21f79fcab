package resolver

import (
	"github.com/gin-gonic/gin"

	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService) {
	clock := r.Group("/clock")
	clock.Use(auth)
	{
		clock.GET("/resolve",
			middleware.RBACAuthorize(rbacService, rbac.ResourceClock, rbac.ActionRead),
			handler.Resolve,
		)
		clock.POST("/resolve/refresh",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceClock, rbac.ActionRead),
			handler.Refresh,
		)
	}
}
