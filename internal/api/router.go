package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/api/handlers"
	"github.com/luxeshop/storefront/internal/api/middleware"
	"github.com/luxeshop/storefront/internal/checkout"
	"github.com/luxeshop/storefront/internal/config"
	"github.com/luxeshop/storefront/internal/repository"
	"github.com/luxeshop/storefront/internal/session"
)

// Dependencies are the shared services behind the routes
type Dependencies struct {
	Storefronts   middleware.Storefronts
	Authenticator *session.Authenticator
	Orders        *checkout.Orders
	Images        handlers.ImageUploader
	Repos         *repository.Repositories
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Dependencies, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "LUXE Storefront API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/products",
				"GET /v1/categories",
				"GET /v1/cart",
				"GET /v1/wishlist",
				"POST /v1/auth/login",
				"GET /v1/checkout",
				"POST /v1/checkout",
				"GET /v1/orders/:number",
				"GET /v1/admin/dashboard",
			},
		})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.Use(middleware.ClientMiddleware(deps.Storefronts, logger))
	{
		v1.GET("/products", handlers.HandleListProducts(logger))
		v1.PATCH("/products/filters", handlers.HandlePatchFilters(logger))
		v1.DELETE("/products/filters", handlers.HandleClearFilters(logger))
		v1.GET("/products/:slug", handlers.HandleGetProduct(logger))
		v1.POST("/catalog/refresh", handlers.HandleRefreshCatalog(logger))
		v1.GET("/categories", handlers.HandleListCategories(logger))

		v1.GET("/cart", handlers.HandleGetCart(logger))
		v1.DELETE("/cart", handlers.HandleClearCart(logger))
		v1.POST("/cart/items", handlers.HandleAddCartItem(logger))
		v1.PATCH("/cart/items/:id", handlers.HandleSetCartQuantity(logger))
		v1.DELETE("/cart/items/:id", handlers.HandleRemoveCartItem(logger))

		v1.GET("/wishlist", handlers.HandleGetWishlist(logger))
		v1.DELETE("/wishlist", handlers.HandleClearWishlist(logger))
		v1.POST("/wishlist/items", handlers.HandleAddWishlistItem(logger))
		v1.DELETE("/wishlist/items/:id", handlers.HandleRemoveWishlistItem(logger))

		auth := v1.Group("/auth")
		{
			auth.POST("/login", handlers.HandleLogin(deps.Authenticator, logger))
			auth.POST("/register", handlers.HandleRegister(deps.Authenticator, logger))
			auth.POST("/admin/login", handlers.HandleAdminLogin(deps.Authenticator, logger))
			auth.POST("/logout", handlers.HandleLogout(logger))
			auth.GET("/me", handlers.HandleGetMe(logger))
			auth.PATCH("/me", handlers.HandleUpdateMe(logger))
		}

		v1.GET("/preferences", handlers.HandleGetPreferences(logger))
		v1.PATCH("/preferences", handlers.HandleUpdatePreferences(logger))

		checkoutRoutes := v1.Group("")
		checkoutRoutes.Use(middleware.IdempotencyMiddleware(deps.Repos.IdempotencyKey, logger))
		{
			checkoutRoutes.GET("/checkout", handlers.HandleGetCheckout(logger))
			checkoutRoutes.POST("/checkout", handlers.HandleSubmitCheckout(deps.Repos.IdempotencyKey, logger))
			checkoutRoutes.GET("/orders/:number", handlers.HandleGetOrder(logger))
		}

		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.RequireAdmin(logger))
		{
			adminRoutes.GET("/dashboard", handlers.HandleAdminDashboard(deps.Orders, logger))
			adminRoutes.GET("/orders", handlers.HandleListOrders(deps.Orders, logger))
			adminRoutes.PATCH("/orders/:number/status", handlers.HandleUpdateOrderStatus(deps.Orders, logger))
			adminRoutes.POST("/products", handlers.HandleCreateProduct(logger))
			adminRoutes.PUT("/products/:id", handlers.HandleUpdateProduct(logger))
			adminRoutes.DELETE("/products/:id", handlers.HandleDeleteProduct(logger))
			adminRoutes.POST("/categories", handlers.HandleCreateCategory(logger))
			adminRoutes.PUT("/categories/:id", handlers.HandleUpdateCategory(logger))
			adminRoutes.DELETE("/categories/:id", handlers.HandleDeleteCategory(logger))
			adminRoutes.POST("/images", handlers.HandleUploadImage(deps.Images, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("client_id", c.Writer.Header().Get(middleware.ClientIDHeader)),
		)
	}
}
