package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-fieldtime/internal/shared/contextutil"
)

const RequestIDHeader = "X-Request-ID"

// RequestID puts the caller's request id, or a fresh one, on the request
// context. Outbox events copy it so a clock action can be traced end to end.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}

		c.Request = c.Request.WithContext(contextutil.WithRequestID(c.Request.Context(), rid))
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}
