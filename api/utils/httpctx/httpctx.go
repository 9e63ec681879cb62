package httpctx

import (
	"Yatube/api/models"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userID"
	userKey   = "currentUser"
)

// SetCurrentUser records the authenticated account on the request context.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userIDKey, user.ID)
	c.Set(userKey, user)
}

// CurrentUserID retrieves the authenticated user ID from Gin context if present.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok
}

// CurrentUser returns the authenticated account, or nil for anonymous visitors.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}

// ClearCurrentUser makes the rest of the request anonymous.
func ClearCurrentUser(c *gin.Context) {
	delete(c.Keys, userIDKey)
	delete(c.Keys, userKey)
}
