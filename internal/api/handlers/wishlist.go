package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/storefront"
)

func wishlistResponse(sf *storefront.Storefront) gin.H {
	items := sf.Wishlist.Items()
	if items == nil {
		items = []domain.Product{}
	}
	return gin.H{"items": items, "count": len(items)}
}

// HandleGetWishlist handles GET /v1/wishlist
func HandleGetWishlist(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, wishlistResponse(sf))
	}
}

// HandleAddWishlistItem handles POST /v1/wishlist/items
func HandleAddWishlistItem(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var req AddItemRequest
		if !bindJSON(c, &req) {
			return
		}

		product, err := resolveProduct(c.Request.Context(), sf, req.ProductID)
		if err != nil {
			respondError(c, logger, "resolve product", err)
			return
		}

		if err := sf.Wishlist.Add(c.Request.Context(), product); err != nil {
			respondError(c, logger, "save wishlist", err)
			return
		}

		c.JSON(http.StatusOK, wishlistResponse(sf))
	}
}

// HandleRemoveWishlistItem handles DELETE /v1/wishlist/items/:id
func HandleRemoveWishlistItem(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		if err := sf.Wishlist.Remove(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, logger, "save wishlist", err)
			return
		}

		c.JSON(http.StatusOK, wishlistResponse(sf))
	}
}

// HandleClearWishlist handles DELETE /v1/wishlist
func HandleClearWishlist(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		if err := sf.Wishlist.Clear(c.Request.Context()); err != nil {
			respondError(c, logger, "save wishlist", err)
			return
		}

		c.JSON(http.StatusOK, wishlistResponse(sf))
	}
}
