package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/baltabekpro/tr-velMap/internal/core/domain"
	"github.com/baltabekpro/tr-velMap/internal/usecase"
)

// ErrorResponse matches the handlers.ErrorResponse structure
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// newErrorResponse creates an error response with trace ID
func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// bearerToken extracts the credential from the Authorization header. The same
// header carries either the signed access token or the opaque session token;
// resolution decides which one it is.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// RequireAuth resolves the caller identity from the bearer credential,
// preferring the signed token and falling back to the opaque session. All
// credential failures produce the same 401 body; a banned account gets 403.
func RequireAuth(auth *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		identity, err := auth.ResolveIdentity(c.Request.Context(), token, token)
		if err != nil {
			abortAuthError(c, err)
			return
		}

		attachIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth resolves the identity when a credential is present but lets
// anonymous requests through. A banned account is still rejected.
func OptionalAuth(auth *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		identity, err := auth.ResolveIdentity(c.Request.Context(), token, token)
		if err != nil {
			if errors.Is(err, usecase.ErrUnauthenticated) {
				c.Next()
				return
			}
			abortAuthError(c, err)
			return
		}

		attachIdentity(c, identity)
		c.Next()
	}
}

// RequireRole rejects callers whose resolved role is not in the allowed set.
// It must run after RequireAuth.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	allowed := make(map[domain.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if !allowed[identity.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "insufficient permissions"))
			return
		}

		c.Next()
	}
}

func attachIdentity(c *gin.Context, identity *domain.Identity) {
	c.Set(IdentityKey, identity)
	if reqCtx := GetRequestContext(c); reqCtx != nil {
		reqCtx.UserID = identity.UserID
	}
}

func abortAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserBanned):
		c.AbortWithStatusJSON(http.StatusForbidden,
			newErrorResponse(c, "account is banned"))
	case errors.Is(err, usecase.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			newErrorResponse(c, "authentication required"))
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			newErrorResponse(c, "authentication failed"))
	}
}
