package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/api/middleware"
	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/repository"
)

// HandleGetCheckout handles GET /v1/checkout
func HandleGetCheckout(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"items":  sf.Cart.Items(),
			"totals": sf.Checkout.Quote(),
			"status": sf.Checkout.Status(),
		})
	}
}

// HandleSubmitCheckout handles POST /v1/checkout. A repeated Idempotency-Key
// returns the order the key produced instead of submitting again.
func HandleSubmitCheckout(keys repository.IdempotencyKeyRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		idempotencyKey, requestHash, existingNumber, isExisting := middleware.GetIdempotencyInfo(c)
		if isExisting {
			order, err := sf.Checkout.FetchByNumber(ctx, existingNumber)
			if err != nil {
				respondError(c, logger, "fetch order", err)
				return
			}
			if order == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"order": order})
			return
		}

		var info domain.ShippingInfo
		if !bindJSON(c, &info) {
			return
		}

		order, err := sf.Checkout.Submit(ctx, info)
		if err != nil {
			respondError(c, logger, "submit order", err)
			return
		}

		if idempotencyKey != "" {
			if err := keys.Create(ctx, &domain.IdempotencyKey{
				Key:         idempotencyKey,
				ClientID:    sf.ClientID,
				OrderNumber: order.OrderNumber,
				RequestHash: requestHash,
			}); err != nil {
				logger.Error("Failed to store idempotency key",
					zap.String("order_number", order.OrderNumber),
					zap.Error(err),
				)
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"order":  order,
			"status": sf.Checkout.Status(),
		})
	}
}

// HandleGetOrder handles GET /v1/orders/:number
func HandleGetOrder(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		number := strings.TrimSpace(c.Param("number"))
		order, err := sf.Checkout.FetchByNumber(c.Request.Context(), number)
		if err != nil {
			respondError(c, logger, "fetch order", err)
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}
