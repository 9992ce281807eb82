package sqldb

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
)

type clientStorageRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// NewClientStorageRepository creates a new client storage repository
func NewClientStorageRepository(db *sql.DB, dialect Dialect, logger *zap.Logger) *clientStorageRepository {
	return &clientStorageRepository{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

func (r *clientStorageRepository) Get(ctx context.Context, clientID, key string) (*domain.StorageEntry, error) {
	query := r.dialect.Rebind(`
		SELECT client_id, storage_key, value, updated_at
		FROM client_storage
		WHERE client_id = $1 AND storage_key = $2
	`)

	var entry domain.StorageEntry
	err := r.db.QueryRowContext(ctx, query, clientID, key).Scan(
		&entry.ClientID,
		&entry.Key,
		&entry.Value,
		&entry.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get client storage entry", zap.Error(err), zap.String("key", key))
		return nil, err
	}

	return &entry, nil
}

func (r *clientStorageRepository) Put(ctx context.Context, entry *domain.StorageEntry) error {
	query := r.dialect.Rebind(`
		INSERT INTO client_storage (client_id, storage_key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (client_id, storage_key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)

	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ClientID,
		entry.Key,
		entry.Value,
		entry.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to put client storage entry", zap.Error(err), zap.String("key", entry.Key))
		return err
	}

	return nil
}

func (r *clientStorageRepository) Delete(ctx context.Context, clientID, key string) error {
	query := r.dialect.Rebind(`DELETE FROM client_storage WHERE client_id = $1 AND storage_key = $2`)

	if _, err := r.db.ExecContext(ctx, query, clientID, key); err != nil {
		r.logger.Error("Failed to delete client storage entry", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}

func (r *clientStorageRepository) ListKeys(ctx context.Context, clientID string) ([]string, error) {
	query := r.dialect.Rebind(`
		SELECT storage_key
		FROM client_storage
		WHERE client_id = $1
		ORDER BY storage_key ASC
	`)

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		r.logger.Error("Failed to list client storage keys", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
