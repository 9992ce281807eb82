package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/catalog"
	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/storefront"
	"github.com/luxeshop/storefront/pkg/errors"
)

// ProductListResponse is the derived catalog view
type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Filters  catalog.Filters  `json:"filters"`
	Total    int              `json:"total"`
	Error    string           `json:"error,omitempty"`
}

func newProductListResponse(cat *catalog.Catalog) ProductListResponse {
	view := cat.View()
	if view == nil {
		view = []domain.Product{}
	}
	return ProductListResponse{
		Products: view,
		Filters:  cat.Filters(),
		Total:    len(view),
		Error:    cat.Err(),
	}
}

// refreshCatalog refetches the catalog on every list request. Once a fetch
// has succeeded, a failed refresh is served from the retained items with the
// error text left on the catalog.
func refreshCatalog(ctx context.Context, sf *storefront.Storefront, logger *zap.Logger) error {
	err := sf.Catalog.FetchAll(ctx)
	if err != nil && sf.Catalog.Loaded() {
		logger.Warn("Serving stale catalog", zap.Error(err))
		return nil
	}
	return err
}

// HandleListProducts handles GET /v1/products
func HandleListProducts(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		if err := refreshCatalog(c.Request.Context(), sf, logger); err != nil {
			respondError(c, logger, "fetch catalog", err)
			return
		}

		c.JSON(http.StatusOK, newProductListResponse(sf.Catalog))
	}
}

// HandleGetProduct handles GET /v1/products/:slug
func HandleGetProduct(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		product, err := sf.Catalog.FetchOne(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": catalog.MsgProductNotFound})
				return
			}
			respondError(c, logger, "fetch product", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"product":     product,
			"in_wishlist": sf.Wishlist.Contains(product.ID),
		})
	}
}

// HandlePatchFilters handles PATCH /v1/products/filters
func HandlePatchFilters(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var patch catalog.FilterPatch
		if !bindJSON(c, &patch) {
			return
		}

		if err := sf.Catalog.SetFilter(patch); err != nil {
			respondError(c, logger, "apply filters", err)
			return
		}

		c.JSON(http.StatusOK, newProductListResponse(sf.Catalog))
	}
}

// HandleClearFilters handles DELETE /v1/products/filters
func HandleClearFilters(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		sf.Catalog.ClearFilters()
		c.JSON(http.StatusOK, newProductListResponse(sf.Catalog))
	}
}

// HandleRefreshCatalog handles POST /v1/catalog/refresh
func HandleRefreshCatalog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		if err := sf.Catalog.FetchAll(c.Request.Context()); err != nil {
			respondError(c, logger, "refresh catalog", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products":   len(sf.Catalog.Items()),
			"categories": len(sf.Catalog.Categories()),
		})
	}
}

// HandleListCategories handles GET /v1/categories
func HandleListCategories(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		if err := refreshCatalog(c.Request.Context(), sf, logger); err != nil {
			respondError(c, logger, "fetch catalog", err)
			return
		}

		categories := sf.Catalog.Categories()
		if categories == nil {
			categories = []domain.Category{}
		}
		resp := gin.H{"categories": categories}
		if msg := sf.Catalog.Err(); msg != "" {
			resp["error"] = msg
		}
		c.JSON(http.StatusOK, resp)
	}
}
