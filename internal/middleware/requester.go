package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDHeader carries the caller identity validated by the upstream
// gateway. Authentication itself happens outside this service; the core only
// consumes the already-validated user ID.
const userIDHeader = "X-User-ID"

// RequesterIdentity extracts the validated caller ID from the request headers
// and stores it in the context. Requests without an identity are rejected.
func RequesterIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
			return
		}
		c.Set(string(userIDKey), userID)
		c.Next()
	}
}
