package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/errors"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/models"
)

// ContextUserKey is where the resolved viewer lives on the gin context.
// Only AuthMiddleware writes it; everything else reads through CurrentUser.
const ContextUserKey = "currentUser"

// AuthMiddleware resolves the bearer token to a user row. The token is
// opaque to clients: authentication is a plain lookup of the stored token
// column, so a login that rotates the token invalidates the old one.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}

		var user models.User
		if err := db.Where("token = ?", parts[1]).First(&user).Error; err != nil {
			logger.Log.Warn("unknown bearer token", zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}

		c.Set(ContextUserKey, &user)
		c.Next()
	}
}

// CurrentUser returns the viewer resolved by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	raw, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := raw.(*models.User)
	return user, ok
}
