package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/baltabekpro/tr-velMap/internal/infra/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID stamps every request with a correlation identifier, honoring the
// one supplied by the client when present. The identifier is echoed on the
// response and carried in the request context for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), logger.RequestIDKey{}, reqID),
		)

		c.Next()
	}
}
