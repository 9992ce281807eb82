package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/session"
)

// RequireAdmin lets through only storefronts whose session carries the admin role.
// Must run after ClientMiddleware.
func RequireAdmin(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := GetStorefrontFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		if !sf.Session.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			c.Abort()
			return
		}

		if !sf.Session.IsAdmin() {
			logger.Warn("Non-admin rejected from admin route",
				zap.String("client_id", sf.ClientID),
				zap.String("user_id", sf.Session.UserID()),
				zap.String("path", c.Request.URL.Path),
			)
			c.JSON(http.StatusForbidden, gin.H{"error": session.MsgNotAdmin})
			c.Abort()
			return
		}

		c.Next()
	}
}
