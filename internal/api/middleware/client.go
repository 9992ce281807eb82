package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/storefront"
)

const (
	ClientIDHeader       = "X-Client-ID"
	StorefrontContextKey = "storefront"
	maxClientIDLength    = 128
)

// Storefronts resolves the storefront of a client device. Release is called
// once the request that got the storefront has finished.
type Storefronts interface {
	Get(ctx context.Context, clientID string) (*storefront.Storefront, error)
	Release(clientID string)
}

// ClientMiddleware binds the request to the caller's storefront. A request
// without a client ID gets a fresh one, echoed back in the response header.
func ClientMiddleware(storefronts Storefronts, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := strings.TrimSpace(c.GetHeader(ClientIDHeader))
		if clientID == "" {
			clientID = uuid.New().String()
		}
		if len(clientID) > maxClientIDLength || strings.ContainsAny(clientID, " \t\r\n") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
			c.Abort()
			return
		}
		c.Header(ClientIDHeader, clientID)

		sf, err := storefronts.Get(c.Request.Context(), clientID)
		if err != nil {
			logger.Error("Failed to open storefront", zap.String("client_id", clientID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to restore client state"})
			c.Abort()
			return
		}
		defer storefronts.Release(clientID)

		c.Set(StorefrontContextKey, sf)
		c.Next()
	}
}

// GetStorefrontFromContext retrieves the storefront set by ClientMiddleware
func GetStorefrontFromContext(c *gin.Context) (*storefront.Storefront, bool) {
	val, exists := c.Get(StorefrontContextKey)
	if !exists {
		return nil, false
	}
	sf, ok := val.(*storefront.Storefront)
	return sf, ok
}
