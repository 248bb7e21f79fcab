package timeentry

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-fieldtime/internal/middleware"
	"go-fieldtime/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService middleware.RBACService, rdb redis.Cmdable) {
	entries := r.Group("/time-entries")
	entries.Use(auth)
	{
		entries.POST("/clock-in",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceClock, rbac.ActionWrite),
			middleware.Idempotency(rdb),
			handler.ClockIn,
		)
		entries.POST("/clock-out",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceClock, rbac.ActionWrite),
			middleware.Idempotency(rdb),
			handler.ClockOut,
		)
		entries.GET("/me",
			middleware.RBACAuthorize(rbacService, rbac.ResourceTimeEntry, rbac.ActionRead),
			handler.ListMine,
		)
		entries.GET("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceTimeEntry, rbac.ActionRead),
			handler.GetByID,
		)
		entries.POST("/:id/dispute",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceTimeEntry, rbac.ActionWrite),
			handler.Dispute,
		)
	}
}
