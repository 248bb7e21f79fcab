package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/contextutil"
	"go-fieldtime/internal/shared/response"
)

const (
	IdempotencyHeader     = "Idempotency-Key"
	IdempotencyContextKey = "idempotency_key"

	idempotencyLockTTL = 30 * time.Second
)

// Idempotency requires an Idempotency-Key on POST requests and holds a short
// Redis SET NX lock while the request runs, so a concurrent duplicate gets
// 409 PROCESSING instead of racing. Durable replay detection lives in the
// database unique indexes; a Redis outage therefore only skips the lock.
func Idempotency(rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			response.FromError(c, apperror.ErrIdempotencyKeyRequired)
			c.Abort()
			return
		}
		c.Set(IdempotencyContextKey, key)

		if rdb == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		lockKey := fmt.Sprintf("idemp:%s:%s:%s:lock", c.FullPath(), c.GetString("user_id"), key)

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			contextutil.GetLogger(ctx, zap.L()).Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		c.Next()

		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			contextutil.GetLogger(ctx, zap.L()).Warn("idempotency lock release failed", zap.Error(err))
		}
	}
}
