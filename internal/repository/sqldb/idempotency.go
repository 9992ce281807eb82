package sqldb

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
)

type idempotencyKeyRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// NewIdempotencyKeyRepository creates a new idempotency key repository
func NewIdempotencyKeyRepository(db *sql.DB, dialect Dialect, logger *zap.Logger) *idempotencyKeyRepository {
	return &idempotencyKeyRepository{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

func (r *idempotencyKeyRepository) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	query := r.dialect.Rebind(`
		SELECT idempotency_key, client_id, order_number, request_hash, created_at
		FROM idempotency_keys
		WHERE idempotency_key = $1
	`)

	var idempotencyKey domain.IdempotencyKey

	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&idempotencyKey.Key,
		&idempotencyKey.ClientID,
		&idempotencyKey.OrderNumber,
		&idempotencyKey.RequestHash,
		&idempotencyKey.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get idempotency key", zap.Error(err))
		return nil, err
	}

	return &idempotencyKey, nil
}

func (r *idempotencyKeyRepository) Create(ctx context.Context, key *domain.IdempotencyKey) error {
	query := r.dialect.Rebind(`
		INSERT INTO idempotency_keys (idempotency_key, client_id, order_number, request_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`)

	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		key.Key,
		key.ClientID,
		key.OrderNumber,
		key.RequestHash,
		key.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create idempotency key", zap.Error(err))
		return err
	}

	return nil
}
