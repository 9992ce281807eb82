package sqldb

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, dialect Dialect, logger *zap.Logger) *repository.Repositories {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &repository.Repositories{
		ClientStorage:  NewClientStorageRepository(db, dialect, logger),
		OrderEvent:     NewOrderEventRepository(db, dialect, logger),
		IdempotencyKey: NewIdempotencyKeyRepository(db, dialect, logger),
		Credential:     NewCredentialRepository(db, dialect, logger),
	}
}
