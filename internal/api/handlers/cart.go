package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/storefront"
	"github.com/luxeshop/storefront/pkg/errors"
)

// AddItemRequest names the product to add by ID
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// SetQuantityRequest represents a cart quantity change; values below 1 are clamped
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartResponse represents the cart and its selectors
type CartResponse struct {
	Items    []domain.CartLine `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
}

func newCartResponse(sf *storefront.Storefront) CartResponse {
	return CartResponse{
		Items:    sf.Cart.Items(),
		Count:    sf.Cart.Count(),
		Subtotal: sf.Cart.Subtotal(),
	}
}

// resolveProduct looks the product up in the catalog, fetching it once if needed
func resolveProduct(ctx context.Context, sf *storefront.Storefront, productID string) (domain.Product, error) {
	if p, ok := sf.Catalog.ProductByID(productID); ok {
		return p, nil
	}
	if !sf.Catalog.Loaded() {
		if err := sf.Catalog.FetchAll(ctx); err != nil {
			return domain.Product{}, err
		}
		if p, ok := sf.Catalog.ProductByID(productID); ok {
			return p, nil
		}
	}
	return domain.Product{}, &errors.ErrNotFound{Resource: "product", ID: productID}
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, newCartResponse(sf))
	}
}

// HandleAddCartItem handles POST /v1/cart/items
func HandleAddCartItem(logger *zap.Logger) gin.HandlerFunc {
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

		if err := sf.Cart.Add(c.Request.Context(), product); err != nil {
			respondError(c, logger, "save cart", err)
			return
		}

		c.JSON(http.StatusOK, newCartResponse(sf))
	}
}

// HandleSetCartQuantity handles PATCH /v1/cart/items/:id
func HandleSetCartQuantity(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var req SetQuantityRequest
		if !bindJSON(c, &req) {
			return
		}

		if err := sf.Cart.SetQuantity(c.Request.Context(), c.Param("id"), *req.Quantity); err != nil {
			respondError(c, logger, "save cart", err)
			return
		}

		c.JSON(http.StatusOK, newCartResponse(sf))
	}
}

// HandleRemoveCartItem handles DELETE /v1/cart/items/:id
func HandleRemoveCartItem(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		if err := sf.Cart.Remove(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, logger, "save cart", err)
			return
		}

		c.JSON(http.StatusOK, newCartResponse(sf))
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		if err := sf.Cart.Clear(c.Request.Context()); err != nil {
			respondError(c, logger, "save cart", err)
			return
		}

		c.JSON(http.StatusOK, newCartResponse(sf))
	}
}
