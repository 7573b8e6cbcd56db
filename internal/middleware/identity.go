package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ritualhq/backend/internal/apierror"
	"github.com/ritualhq/backend/internal/logger"
)

// Identity extracts the user identity set by the upstream gateway.
// Authentication itself happens before this service; a request without
// X-User-ID never belongs here and is rejected outright.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c),
				"X-User-ID header is required"))
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}
