package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
)

// PreferencesRequest represents a preferences change. DarkMode is the desired theme.
type PreferencesRequest struct {
	DarkMode *bool            `json:"dark_mode"`
	Language *domain.Language `json:"language"`
}

// HandleGetPreferences handles GET /v1/preferences
func HandleGetPreferences(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, sf.Preferences.Snapshot())
	}
}

// HandleUpdatePreferences handles PATCH /v1/preferences
func HandleUpdatePreferences(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var req PreferencesRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx := c.Request.Context()
		if req.Language != nil {
			if err := sf.Preferences.SetLanguage(ctx, *req.Language); err != nil {
				respondError(c, logger, "save language", err)
				return
			}
		}
		if req.DarkMode != nil && *req.DarkMode != sf.Preferences.DarkMode() {
			if _, err := sf.Preferences.ToggleDarkMode(ctx); err != nil {
				respondError(c, logger, "save theme", err)
				return
			}
		}

		c.JSON(http.StatusOK, sf.Preferences.Snapshot())
	}
}
