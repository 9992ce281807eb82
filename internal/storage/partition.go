package storage

import (
	"context"
	"time"

	"github.com/luxeshop/storefront/internal/domain"
)

type partition struct {
	backend  Backend
	clientID string
}

// Partition exposes one client's slice of a multi-client backend as a Store
func Partition(backend Backend, clientID string) Store {
	return &partition{backend: backend, clientID: clientID}
}

func (p *partition) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := p.backend.Get(ctx, p.clientID, key)
	if err != nil {
		return "", false, err
	}
	if entry == nil {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (p *partition) Set(ctx context.Context, key, value string) error {
	return p.backend.Put(ctx, &domain.StorageEntry{
		ClientID:  p.clientID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	})
}

func (p *partition) Remove(ctx context.Context, key string) error {
	return p.backend.Delete(ctx, p.clientID, key)
}
