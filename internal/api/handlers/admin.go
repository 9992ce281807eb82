package handlers

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/checkout"
	"github.com/luxeshop/storefront/internal/contentstore"
	"github.com/luxeshop/storefront/internal/domain"
)

const maxImageSize = 10 << 20

// ImageUploader stores admin image uploads in the content store
type ImageUploader interface {
	UploadImage(ctx context.Context, filename, contentType string, data io.Reader) (*contentstore.Asset, error)
}

// UpdateOrderStatusRequest represents an order status change
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// DashboardResponse summarises the store for the admin console
type DashboardResponse struct {
	Products      int     `json:"products"`
	Categories    int     `json:"categories"`
	Orders        int     `json:"orders"`
	PendingOrders int     `json:"pending_orders"`
	Revenue       float64 `json:"revenue"`
}

// HandleAdminDashboard handles GET /v1/admin/dashboard
func HandleAdminDashboard(orders *checkout.Orders, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		if err := refreshCatalog(ctx, sf, logger); err != nil {
			respondError(c, logger, "fetch catalog", err)
			return
		}
		list, err := orders.FetchOrders(ctx)
		if err != nil {
			respondError(c, logger, "list orders", err)
			return
		}

		resp := DashboardResponse{
			Products:   len(sf.Catalog.Items()),
			Categories: len(sf.Catalog.Categories()),
			Orders:     len(list),
		}
		revenue := decimal.Zero
		for _, o := range list {
			revenue = revenue.Add(decimal.NewFromFloat(o.Total))
			if o.Status == domain.OrderStatusPending {
				resp.PendingOrders++
			}
		}
		resp.Revenue = revenue.Round(2).InexactFloat64()

		c.JSON(http.StatusOK, resp)
	}
}

// HandleListOrders handles GET /v1/admin/orders
func HandleListOrders(orders *checkout.Orders, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.FetchOrders(c.Request.Context())
		if err != nil {
			respondError(c, logger, "list orders", err)
			return
		}

		// Optional filter by status
		if status := strings.ToLower(c.Query("status")); status != "" {
			filtered := make([]domain.Order, 0, len(list))
			for _, o := range list {
				if string(o.Status) == status {
					filtered = append(filtered, o)
				}
			}
			list = filtered
		}
		if list == nil {
			list = []domain.Order{}
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": list,
			"total":  len(list),
		})
	}
}

// HandleUpdateOrderStatus handles PATCH /v1/admin/orders/:number/status
func HandleUpdateOrderStatus(orders *checkout.Orders, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var req UpdateOrderStatusRequest
		if !bindJSON(c, &req) {
			return
		}

		order, err := orders.UpdateStatus(c.Request.Context(), c.Param("number"), req.Status, sf.ClientID)
		if err != nil {
			respondError(c, logger, "update order status", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"order_number": order.OrderNumber,
			"status":       order.Status,
		})
	}
}

// HandleCreateProduct handles POST /v1/admin/products
func HandleCreateProduct(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var in domain.ProductInput
		if !bindJSON(c, &in) {
			return
		}

		product, err := sf.Catalog.CreateProduct(c.Request.Context(), in)
		if err != nil {
			respondError(c, logger, "create product", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"product": product})
	}
}

// HandleUpdateProduct handles PUT /v1/admin/products/:id
func HandleUpdateProduct(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var in domain.ProductInput
		if !bindJSON(c, &in) {
			return
		}

		product, err := sf.Catalog.UpdateProduct(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, logger, "update product", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

// HandleDeleteProduct handles DELETE /v1/admin/products/:id
func HandleDeleteProduct(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		if err := sf.Catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, logger, "delete product", err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleCreateCategory handles POST /v1/admin/categories
func HandleCreateCategory(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var in domain.CategoryInput
		if !bindJSON(c, &in) {
			return
		}

		category, err := sf.Catalog.CreateCategory(c.Request.Context(), in)
		if err != nil {
			respondError(c, logger, "create category", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"category": category})
	}
}

// HandleUpdateCategory handles PUT /v1/admin/categories/:id
func HandleUpdateCategory(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var in domain.CategoryInput
		if !bindJSON(c, &in) {
			return
		}

		category, err := sf.Catalog.UpdateCategory(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, logger, "update category", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"category": category})
	}
}

// HandleDeleteCategory handles DELETE /v1/admin/categories/:id
func HandleDeleteCategory(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		if err := sf.Catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, logger, "delete category", err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleUploadImage handles POST /v1/admin/images (multipart field "file")
func HandleUploadImage(uploader ImageUploader, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": "file is required",
			})
			return
		}
		if fileHeader.Size > maxImageSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds 10 MB"})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": "file must be an image",
			})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			logger.Error("Failed to open uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer file.Close()

		asset, err := uploader.UploadImage(c.Request.Context(), filepath.Base(fileHeader.Filename), contentType, file)
		if err != nil {
			respondError(c, logger, "upload image", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"asset": asset})
	}
}
