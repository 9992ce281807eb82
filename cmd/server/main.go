package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/api"
	"github.com/luxeshop/storefront/internal/authprovider"
	"github.com/luxeshop/storefront/internal/checkout"
	"github.com/luxeshop/storefront/internal/config"
	"github.com/luxeshop/storefront/internal/contentstore"
	"github.com/luxeshop/storefront/internal/repository/sqldb"
	"github.com/luxeshop/storefront/internal/session"
	"github.com/luxeshop/storefront/internal/storefront"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting storefront server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("auth_provider", cfg.Auth.Provider),
	)

	// Initialize database
	db, dialect, err := sqldb.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := sqldb.RunMigrations(context.Background(), db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := sqldb.NewRepositories(db, dialect, logger)
	content := contentstore.NewClient(cfg.ContentStore, logger)

	provider, err := authprovider.New(cfg.Auth, repos.Credential, logger)
	if err != nil {
		logger.Fatal("Failed to initialize auth provider", zap.Error(err))
	}

	registry := storefront.NewRegistry(storefront.Deps{
		Backend:     repos.ClientStorage,
		Content:     content,
		Events:      repos.OrderEvent,
		Pricing:     checkout.PricingFromConfig(cfg.Checkout),
		OrderPrefix: cfg.Checkout.OrderPrefix,
		Logger:      logger,
	}, cfg.Session.IdleTTL)

	router := api.NewRouter(cfg, api.Dependencies{
		Storefronts:   registry,
		Authenticator: session.NewAuthenticator(provider, content, logger),
		Orders:        checkout.NewOrders(content, repos.OrderEvent, logger),
		Images:        content,
		Repos:         repos,
	}, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Idle storefronts are dropped from memory; their state stays in client_storage
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go registry.RunJanitor(janitorCtx, storefront.JanitorInterval)
	logger.Info("Storefront janitor started", zap.Duration("idle_ttl", cfg.Session.IdleTTL))

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopJanitor()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newLogger builds a production logger in production and a development one
// otherwise, at LOG_LEVEL when it parses
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Environment == "production" {
		zcfg = zap.NewProductionConfig()
	}
	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zcfg.Level = level
	}
	return zcfg.Build()
}
