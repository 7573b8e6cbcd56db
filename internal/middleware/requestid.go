package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ritualhq/backend/internal/logger"
)

// RequestID assigns every request a correlation ID. An inbound
// X-Request-ID is trusted and echoed back; otherwise a UUID is
// generated. The ID rides both the gin context and the request context
// so handlers and log lines agree.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}
