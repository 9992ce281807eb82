package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port         string
	Environment  string
	LogLevel     string
	Database     DatabaseConfig
	ContentStore ContentStoreConfig
	Auth         AuthConfig
	Checkout     CheckoutConfig
	Session      SessionConfig
}

type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite file path; ":memory:" for an in-process database
}

// ContentStoreConfig is used to reach the headless content store.
// ReadToken is optional (public datasets); WriteToken is required for admin writes and orders.
type ContentStoreConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	UseCDN     bool
	ReadToken  string
	WriteToken string
	BaseURL    string // overrides the derived API host, e.g. for a local proxy
}

// AuthConfig selects the authentication provider
type AuthConfig struct {
	Provider string // local or identitytoolkit
	APIKey   string
	BaseURL  string
}

type CheckoutConfig struct {
	OrderPrefix           string
	FreeShippingThreshold float64
	ShippingFee           float64
	TaxRate               float64
}

type SessionConfig struct {
	IdleTTL time.Duration
}

const (
	AuthProviderLocal           = "local"
	AuthProviderIdentityToolkit = "identitytoolkit"
)

func Load() (*Config, error) {
	// Shared .env from the working dir or the repo root; missing files are fine
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "storefront.db")
	v.SetDefault("CONTENT_DATASET", "production")
	v.SetDefault("CONTENT_API_VERSION", "2023-10-01")
	v.SetDefault("CONTENT_USE_CDN", true)
	v.SetDefault("AUTH_PROVIDER", AuthProviderLocal)
	v.SetDefault("ORDER_PREFIX", "ORD")
	v.SetDefault("FREE_SHIPPING_THRESHOLD", 100.0)
	v.SetDefault("SHIPPING_FEE", 10.0)
	v.SetDefault("TAX_RATE", 0.08)
	v.SetDefault("SESSION_IDLE_TTL", "30m")

	// Read from environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Port:        getEnvOrViper(v, "PORT", "8080"),
		Environment: getEnvOrViper(v, "ENVIRONMENT", "development"),
		LogLevel:    getEnvOrViper(v, "LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnvOrViper(v, "DB_DRIVER", "postgres")),
			Host:     getEnvOrViper(v, "DB_HOST", "localhost"),
			Port:     getEnvOrViper(v, "DB_PORT", "5432"),
			User:     getEnvOrViper(v, "DB_USER", "postgres"),
			Password: getEnvOrViper(v, "DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper(v, "DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper(v, "DB_SSLMODE", "disable"),
			Path:     getEnvOrViper(v, "DB_PATH", "storefront.db"),
		},
		ContentStore: ContentStoreConfig{
			ProjectID:  strings.TrimSpace(getEnvOrViper(v, "CONTENT_PROJECT_ID", "")),
			Dataset:    getEnvOrViper(v, "CONTENT_DATASET", "production"),
			APIVersion: getEnvOrViper(v, "CONTENT_API_VERSION", "2023-10-01"),
			UseCDN:     v.GetBool("CONTENT_USE_CDN"),
			ReadToken:  strings.TrimSpace(getEnvOrViper(v, "CONTENT_READ_TOKEN", "")),
			WriteToken: strings.TrimSpace(getEnvOrViper(v, "CONTENT_WRITE_TOKEN", "")),
			BaseURL:    strings.TrimSpace(getEnvOrViper(v, "CONTENT_BASE_URL", "")),
		},
		Auth: AuthConfig{
			Provider: strings.ToLower(getEnvOrViper(v, "AUTH_PROVIDER", AuthProviderLocal)),
			APIKey:   strings.TrimSpace(getEnvOrViper(v, "AUTH_API_KEY", "")),
			BaseURL:  strings.TrimSpace(getEnvOrViper(v, "AUTH_BASE_URL", "")),
		},
		Checkout: CheckoutConfig{
			OrderPrefix:           getEnvOrViper(v, "ORDER_PREFIX", "ORD"),
			FreeShippingThreshold: v.GetFloat64("FREE_SHIPPING_THRESHOLD"),
			ShippingFee:           v.GetFloat64("SHIPPING_FEE"),
			TaxRate:               v.GetFloat64("TAX_RATE"),
		},
		Session: SessionConfig{
			IdleTTL: v.GetDuration("SESSION_IDLE_TTL"),
		},
	}

	// Validate required fields
	if cfg.ContentStore.ProjectID == "" && cfg.ContentStore.BaseURL == "" {
		return nil, fmt.Errorf("CONTENT_PROJECT_ID is required")
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.Database.Driver)
	}
	switch cfg.Auth.Provider {
	case AuthProviderLocal:
	case AuthProviderIdentityToolkit:
		if cfg.Auth.APIKey == "" {
			return nil, fmt.Errorf("AUTH_API_KEY is required for the identitytoolkit provider")
		}
	default:
		return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.Auth.Provider)
	}
	if cfg.Session.IdleTTL <= 0 {
		cfg.Session.IdleTTL = 30 * time.Minute
	}

	return cfg, nil
}

func getEnvOrViper(v *viper.Viper, key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return defaultValue
}
