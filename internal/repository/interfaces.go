package repository

import (
	"context"

	"github.com/luxeshop/storefront/internal/domain"
)

// ClientStorageRepository persists the per-device key/value partitions
type ClientStorageRepository interface {
	Get(ctx context.Context, clientID, key string) (*domain.StorageEntry, error)
	Put(ctx context.Context, entry *domain.StorageEntry) error
	Delete(ctx context.Context, clientID, key string) error
	ListKeys(ctx context.Context, clientID string) ([]string, error)
}

// OrderEventRepository defines order event data access methods
type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
	GetByOrderNumber(ctx context.Context, orderNumber string) ([]*domain.OrderEvent, error)
}

// IdempotencyKeyRepository defines idempotency key data access methods
type IdempotencyKeyRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Create(ctx context.Context, key *domain.IdempotencyKey) error
}

// CredentialRepository stores email/password hashes for the local auth provider
type CredentialRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
	Create(ctx context.Context, cred *domain.Credential) error
}

// Repositories aggregates all repositories
type Repositories struct {
	ClientStorage  ClientStorageRepository
	OrderEvent     OrderEventRepository
	IdempotencyKey IdempotencyKeyRepository
	Credential     CredentialRepository
}
