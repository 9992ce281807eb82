package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CONTENT_PROJECT_ID", "iidkm49g")
		t.Setenv("AUTH_PROVIDER", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "production", cfg.ContentStore.Dataset)
		assert.True(t, cfg.ContentStore.UseCDN)
		assert.Equal(t, AuthProviderLocal, cfg.Auth.Provider)
		assert.Equal(t, "ORD", cfg.Checkout.OrderPrefix)
		assert.Equal(t, 100.0, cfg.Checkout.FreeShippingThreshold)
		assert.Equal(t, 10.0, cfg.Checkout.ShippingFee)
		assert.Equal(t, 0.08, cfg.Checkout.TaxRate)
		assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("CONTENT_PROJECT_ID", "proj")
		t.Setenv("DB_DRIVER", "SQLite")
		t.Setenv("CONTENT_USE_CDN", "false")
		t.Setenv("TAX_RATE", "0.2")
		t.Setenv("SESSION_IDLE_TTL", "5m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.False(t, cfg.ContentStore.UseCDN)
		assert.Equal(t, 0.2, cfg.Checkout.TaxRate)
		assert.Equal(t, 5*time.Minute, cfg.Session.IdleTTL)
	})

	t.Run("missing project id", func(t *testing.T) {
		t.Setenv("CONTENT_PROJECT_ID", "")
		t.Setenv("CONTENT_BASE_URL", "")

		_, err := Load()
		assert.EqualError(t, err, "CONTENT_PROJECT_ID is required")
	})

	t.Run("identitytoolkit needs api key", func(t *testing.T) {
		t.Setenv("CONTENT_PROJECT_ID", "proj")
		t.Setenv("AUTH_PROVIDER", "identitytoolkit")
		t.Setenv("AUTH_API_KEY", "")

		_, err := Load()
		assert.Error(t, err)
	})
}
