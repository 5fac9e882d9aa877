package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the caller's user ID in the Gin context.
const userIDKey = contextKey("userID")

// GetUserIDFromContext retrieves the caller's user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		userIDCtxVal := c.Request.Context().Value(userIDKey)
		if userIDCtxVal != nil {
			if userID, ok := userIDCtxVal.(string); ok {
				return userID, true
			}
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}
