// Package storage is the client-side persistence port: a key to JSON-string
// map scoped to one client device, plus the identity-scoped key scheme used
// by the cart, wishlist and session containers.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/luxeshop/storefront/internal/domain"
)

// Store is one client's key/value partition. Values are JSON documents.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend persists entries for many clients (see repository.ClientStorageRepository).
type Backend interface {
	Get(ctx context.Context, clientID, key string) (*domain.StorageEntry, error)
	Put(ctx context.Context, entry *domain.StorageEntry) error
	Delete(ctx context.Context, clientID, key string) error
}

// Fixed keys
const (
	KeyUser     = "user"
	KeyDarkMode = "darkMode"
	KeyLanguage = "language"

	cartBase     = "cart"
	wishlistBase = "wishlist"
)

// ScopedKey namespaces base by user ID; an empty ID selects the shared anonymous key.
func ScopedKey(base, userID string) string {
	if userID == "" {
		return base
	}
	return base + "_" + userID
}

// CartKey returns the cart key for the given user ("" for anonymous)
func CartKey(userID string) string {
	return ScopedKey(cartBase, userID)
}

// WishlistKey returns the wishlist key for the given user ("" for anonymous)
func WishlistKey(userID string) string {
	return ScopedKey(wishlistBase, userID)
}

// ErrCorrupt marks a stored value that is not valid JSON for its key
var ErrCorrupt = errors.New("corrupt stored value")

// LoadJSON decodes the value under key into out. It reports false when the key is absent.
func LoadJSON(ctx context.Context, s Store, key string, out interface{}) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("%w: decode %s: %w", ErrCorrupt, key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key
func SaveJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(raw))
}
