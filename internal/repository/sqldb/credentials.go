package sqldb

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/pkg/errors"
)

type credentialRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *sql.DB, dialect Dialect, logger *zap.Logger) *credentialRepository {
	return &credentialRepository{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	query := r.dialect.Rebind(`
		SELECT user_id, email, password_hash, created_at
		FROM credentials
		WHERE email = $1
	`)

	var cred domain.Credential
	err := r.db.QueryRowContext(ctx, query, normalizeEmail(email)).Scan(
		&cred.UserID,
		&cred.Email,
		&cred.PasswordHash,
		&cred.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "credential", ID: email}
	}
	if err != nil {
		r.logger.Error("Failed to get credential by email", zap.Error(err))
		return nil, err
	}

	return &cred, nil
}

func (r *credentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	// The unique index on email is the real guard; this check gives a typed error on the common path
	if existing, err := r.GetByEmail(ctx, cred.Email); err == nil && existing != nil {
		return &errors.ErrConflict{Message: "email already in use"}
	}

	query := r.dialect.Rebind(`
		INSERT INTO credentials (user_id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`)

	if cred.UserID == uuid.Nil {
		cred.UserID = uuid.New()
	}
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = time.Now()
	}
	cred.Email = normalizeEmail(cred.Email)

	_, err := r.db.ExecContext(ctx, query,
		cred.UserID,
		cred.Email,
		cred.PasswordHash,
		cred.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return &errors.ErrConflict{Message: "email already in use"}
		}
		r.logger.Error("Failed to create credential", zap.Error(err))
		return err
	}

	return nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
