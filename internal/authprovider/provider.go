// Package authprovider verifies credentials against an identity service and
// returns the provider's opaque user ID. Profile data lives in the content store.
package authprovider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/config"
	"github.com/luxeshop/storefront/internal/repository"
)

// Identity is what a provider knows about a signed-in user
type Identity struct {
	UID   string
	Email string
}

// Provider signs users in and up
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignUp(ctx context.Context, email, password string) (*Identity, error)
}

// Messages surfaced to users for provider failures
const (
	MsgInvalidCredential = "invalid credential"
	MsgEmailInUse        = "email already in use"
)

// New builds the provider selected by cfg.Provider
func New(cfg config.AuthConfig, creds repository.CredentialRepository, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case config.AuthProviderIdentityToolkit:
		return NewIdentityToolkit(cfg.BaseURL, cfg.APIKey, logger), nil
	case config.AuthProviderLocal, "":
		if creds == nil {
			return nil, fmt.Errorf("local auth provider requires a credential repository")
		}
		return NewLocal(creds, logger), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}
