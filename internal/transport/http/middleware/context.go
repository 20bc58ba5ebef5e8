package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
)

const (
	// TraceIDHeader carries the trace identifier between services.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the gin context key holding the trace identifier.
	TraceIDKey = "trace_id"
	// IdentityKey is the gin context key holding the resolved caller identity.
	IdentityKey = "identity"

	requestContextKey = "request_context"
)

// RequestContext aggregates the request-scoped facts handlers may need.
// UserID is filled in later by the auth middleware once resolution succeeds.
type RequestContext struct {
	TraceID   string
	UserID    int64
	IP        string
	UserAgent string
}

// EnrichContext assigns a trace identifier and seeds the request context.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		c.Set(requestContextKey, &RequestContext{
			TraceID:   traceID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})

		c.Next()
	}
}

// GetTraceID returns the trace identifier assigned by EnrichContext.
func GetTraceID(c *gin.Context) string {
	if value, exists := c.Get(TraceIDKey); exists {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

// GetRequestContext returns the request context, or an empty one when
// EnrichContext did not run.
func GetRequestContext(c *gin.Context) *RequestContext {
	if value, exists := c.Get(requestContextKey); exists {
		if reqCtx, ok := value.(*RequestContext); ok {
			return reqCtx
		}
	}
	return &RequestContext{}
}

// GetIdentity returns the resolved caller identity, if any.
func GetIdentity(c *gin.Context) (*domain.Identity, bool) {
	if value, exists := c.Get(IdentityKey); exists {
		if identity, ok := value.(*domain.Identity); ok {
			return identity, true
		}
	}
	return nil, false
}
