package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/nsukonny/ecurring-sync/internal/types"
)

// IdentityMiddleware carries the authenticated local user id into the
// request context. Authentication itself happens upstream (session layer,
// gateway); this service only consumes the resulting identity header.
func IdentityMiddleware(c *gin.Context) {
	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		c.Request = c.Request.WithContext(
			types.SetUserID(c.Request.Context(), userID))
	}

	c.Next()
}
