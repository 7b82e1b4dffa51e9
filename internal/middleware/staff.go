package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/vicharak/vicharak-api/internal/database"
	apierrors "github.com/vicharak/vicharak-api/internal/errors"
	"github.com/vicharak/vicharak-api/internal/models"
)

// RequireStaff checks that the authenticated user has the staff flag.
// Must run after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, userID).Error; err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !user.IsStaff {
			apierrors.Forbidden(c, "Only staff users can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
