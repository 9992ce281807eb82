package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/repository"
)

const IdempotencyKeyHeader = "Idempotency-Key"

const (
	idempotencyKeyContextKey   = "idempotency_key"
	idempotencyHashContextKey  = "idempotency_request_hash"
	idempotencyOrderContextKey = "idempotency_existing_order_number"
)

// IdempotencyMiddleware handles idempotency key validation for order submission.
// A key belongs to the client that first used it.
func IdempotencyMiddleware(keys repository.IdempotencyKeyRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Error("Failed to read request body for idempotency", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process request"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		hash := sha256.Sum256(body)
		requestHash := hex.EncodeToString(hash[:])

		existingKey, err := keys.GetByKey(c.Request.Context(), idempotencyKey)
		if err != nil {
			logger.Error("Failed to check idempotency key", zap.Error(err))
			c.Next()
			return
		}

		if existingKey != nil {
			clientID := ""
			if sf, ok := GetStorefrontFromContext(c); ok {
				clientID = sf.ClientID
			}
			if existingKey.ClientID != clientID || existingKey.RequestHash != requestHash {
				c.JSON(http.StatusConflict, gin.H{
					"error": "idempotency key conflict: same key used with different payload",
				})
				c.Abort()
				return
			}
			c.Set(idempotencyOrderContextKey, existingKey.OrderNumber)
		} else {
			// Stored by the handler once the order exists
			c.Set(idempotencyKeyContextKey, idempotencyKey)
			c.Set(idempotencyHashContextKey, requestHash)
		}

		c.Next()
	}
}

// GetIdempotencyInfo retrieves idempotency information from context
func GetIdempotencyInfo(c *gin.Context) (key string, requestHash string, existingOrderNumber string, isExisting bool) {
	if existing, exists := c.Get(idempotencyOrderContextKey); exists {
		if number, ok := existing.(string); ok {
			return "", "", number, true
		}
	}

	keyVal, _ := c.Get(idempotencyKeyContextKey)
	hashVal, _ := c.Get(idempotencyHashContextKey)

	key, _ = keyVal.(string)
	requestHash, _ = hashVal.(string)

	return key, requestHash, "", false
}
