package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipeshare/backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RequireActiveUser blocks deactivated accounts from write routes. It must
// run after AuthMiddleware.
func RequireActiveUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		var user models.User
		err := db.WithContext(c.Request.Context()).Select("id", "is_active").First(&user, "id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "account no longer exists")
			return
		}
		if err != nil {
			log.WithFields(log.Fields{"user_id": userID, "error": err}).Error("failed to check user status")
			abortWithError(c, http.StatusInternalServerError, "SERVER_ERROR", "failed to verify user status")
			return
		}
		if !user.IsActive {
			abortWithError(c, http.StatusForbidden, "ACCESS_DENIED", "account is deactivated")
			return
		}

		c.Next()
	}
}
