package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/storage"
)

// Wishlist is a set of product snapshots keyed by product ID
type Wishlist struct {
	store  storage.Store
	scope  ScopeFunc
	logger *zap.Logger

	mu    sync.Mutex
	key   string
	items []domain.Product
}

// NewWishlist creates a wishlist bound to the scope's current key
func NewWishlist(store storage.Store, scope ScopeFunc, logger *zap.Logger) *Wishlist {
	if scope == nil {
		scope = Anonymous
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wishlist{
		store:  store,
		scope:  scope,
		logger: logger,
		key:    storage.WishlistKey(scope()),
		items:  []domain.Product{},
	}
}

// Load rebinds the wishlist to the scope's current key and reads its items
func (w *Wishlist) Load(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.key = storage.WishlistKey(w.scope())
	var items []domain.Product
	if err := load(ctx, w.store, w.key, &items, w.logger); err != nil {
		w.items = []domain.Product{}
		return fmt.Errorf("load wishlist: %w", err)
	}

	// Enforce uniqueness on data written by older clients
	seen := make(map[string]bool, len(items))
	w.items = make([]domain.Product, 0, len(items))
	for _, p := range items {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		w.items = append(w.items, p)
	}
	return nil
}

// Add appends the product unless it is already present; a duplicate writes nothing
func (w *Wishlist) Add(ctx context.Context, product domain.Product) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range w.items {
		if p.ID == product.ID {
			return nil
		}
	}
	next := append(append(make([]domain.Product, 0, len(w.items)+1), w.items...), product)
	return w.commit(ctx, next)
}

// Remove drops the product
func (w *Wishlist) Remove(ctx context.Context, productID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := make([]domain.Product, 0, len(w.items))
	for _, p := range w.items {
		if p.ID != productID {
			next = append(next, p)
		}
	}
	return w.commit(ctx, next)
}

// Clear empties the wishlist
func (w *Wishlist) Clear(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.commit(ctx, []domain.Product{})
}

func (w *Wishlist) commit(ctx context.Context, next []domain.Product) error {
	if err := storage.SaveJSON(ctx, w.store, w.key, next); err != nil {
		w.logger.Error("Failed to persist wishlist", zap.String("key", w.key), zap.Error(err))
		return fmt.Errorf("save wishlist: %w", err)
	}
	w.items = next
	return nil
}

// Contains reports whether the product is on the wishlist
func (w *Wishlist) Contains(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.items {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the wishlist in insertion order
func (w *Wishlist) Items() []domain.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.Product{}, w.items...)
}
