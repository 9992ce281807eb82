package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/session"
)

// HandleLogin handles POST /v1/auth/login
func HandleLogin(auth *session.Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var form session.LoginForm
		if !bindJSON(c, &form) {
			return
		}

		user, err := auth.SignIn(c.Request.Context(), sf.Session, form)
		if err != nil {
			respondError(c, logger, "sign in", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// HandleAdminLogin handles POST /v1/auth/admin/login
func HandleAdminLogin(auth *session.Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var form session.LoginForm
		if !bindJSON(c, &form) {
			return
		}

		user, err := auth.AdminSignIn(c.Request.Context(), sf.Session, form)
		if err != nil {
			respondError(c, logger, "sign in", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// HandleRegister handles POST /v1/auth/register
func HandleRegister(auth *session.Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var form session.RegisterForm
		if !bindJSON(c, &form) {
			return
		}

		user, err := auth.Register(c.Request.Context(), sf.Session, form)
		if err != nil {
			respondError(c, logger, "register", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user": user})
	}
}

// HandleLogout handles POST /v1/auth/logout
func HandleLogout(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		if err := sf.Session.Logout(c.Request.Context()); err != nil {
			respondError(c, logger, "sign out", err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleGetMe handles GET /v1/auth/me
func HandleGetMe(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		user := sf.Session.User()
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user, "is_admin": user.IsAdmin()})
	}
}

// HandleUpdateMe handles PATCH /v1/auth/me
func HandleUpdateMe(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sf, ok := storefrontFromContext(c)
		if !ok {
			return
		}

		var patch session.UserPatch
		if !bindJSON(c, &patch) {
			return
		}

		user, err := sf.Session.UpdateUser(c.Request.Context(), patch)
		if err != nil {
			respondError(c, logger, "update profile", err)
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
