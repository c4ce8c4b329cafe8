package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/shopmobile/storefront_bff/internal/core/domain"
)

// userKey is the key used to store the authenticated user in the Gin context.
// Using a custom type prevents collisions.
const userKey = contextKey("user")

// GetUserFromContext retrieves the authenticated user from the Gin context.
// It returns the user and a boolean indicating if it was found.
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	userVal, exists := c.Get(string(userKey))
	if !exists {
		// check in the request context as well
		ctxVal := c.Request.Context().Value(userKey)
		if ctxVal != nil {
			if user, ok := ctxVal.(*domain.User); ok {
				return user, true
			}
		}
		return nil, false
	}

	user, ok := userVal.(*domain.User)
	if !ok {
		// This should not happen if the auth middleware sets it correctly
		return nil, false
	}
	return user, true
}

// GetUserIDFromContext retrieves the authenticated user's local ID.
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	user, ok := GetUserFromContext(c)
	if !ok {
		return 0, false
	}
	return user.ID, true
}
