package authprovider

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/repository"
	"github.com/luxeshop/storefront/pkg/errors"
)

// Local keeps bcrypt hashes in the service database. Used for development
// and self-hosted deployments without an identity service.
type Local struct {
	creds  repository.CredentialRepository
	cost   int
	logger *zap.Logger
}

// NewLocal creates a local provider
func NewLocal(creds repository.CredentialRepository, logger *zap.Logger) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Local{creds: creds, cost: bcrypt.DefaultCost, logger: logger}
}

// SignIn verifies the password against the stored hash
func (l *Local) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	cred, err := l.creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, &errors.ErrUnauthorized{Message: MsgInvalidCredential}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		l.logger.Debug("Password mismatch", zap.String("email", cred.Email))
		return nil, &errors.ErrUnauthorized{Message: MsgInvalidCredential}
	}

	return &Identity{UID: cred.UserID.String(), Email: cred.Email}, nil
}

// SignUp hashes the password and stores a new credential
func (l *Local) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return nil, err
	}

	cred := &domain.Credential{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
	}
	if err := l.creds.Create(ctx, cred); err != nil {
		if errors.IsConflict(err) {
			return nil, &errors.ErrConflict{Message: MsgEmailInUse}
		}
		return nil, err
	}

	return &Identity{UID: cred.UserID.String(), Email: cred.Email}, nil
}
