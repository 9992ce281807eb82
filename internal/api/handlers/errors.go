package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/api/middleware"
	"github.com/luxeshop/storefront/internal/session"
	"github.com/luxeshop/storefront/internal/storefront"
	"github.com/luxeshop/storefront/pkg/errors"
)

// respondError maps the error taxonomy onto HTTP statuses. Anything untyped
// came from the content store, auth provider or local storage.
func respondError(c *gin.Context, logger *zap.Logger, action string, err error) {
	if verr, ok := errors.AsValidation(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  verr.Error(),
			"fields": verr.Fields,
		})
		return
	}

	switch {
	case errors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.IsUnauthorized(err):
		status := http.StatusUnauthorized
		if err.Error() == session.MsgNotAdmin {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": err.Error()})
	case errors.IsConflict(err), errors.IsInvalidStateTransition(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "failed to " + action,
			"details": err.Error(),
		})
	}
}

// bindJSON binds the body and answers 422 on malformed input
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation failed",
			"details": err.Error(),
		})
		return false
	}
	return true
}

func storefrontFromContext(c *gin.Context) (*storefront.Storefront, bool) {
	sf, ok := middleware.GetStorefrontFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "client state unavailable"})
		return nil, false
	}
	return sf, true
}
