// Package cart holds the cart and wishlist of one client. Both persist the
// whole collection under an identity-scoped key after every mutation.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/storage"
)

// ScopeFunc returns the signed-in user ID, or "" when anonymous
type ScopeFunc func() string

// Anonymous is the scope used when no session exists
func Anonymous() string { return "" }

// load reads the collection stored under key. A missing or corrupt value is an empty collection.
func load(ctx context.Context, store storage.Store, key string, out interface{}, logger *zap.Logger) error {
	_, err := storage.LoadJSON(ctx, store, key, out)
	if errors.Is(err, storage.ErrCorrupt) {
		logger.Warn("Discarding corrupt stored collection", zap.String("key", key), zap.Error(err))
		return nil
	}
	return err
}

// Cart is safe for concurrent use
type Cart struct {
	store  storage.Store
	scope  ScopeFunc
	logger *zap.Logger

	mu    sync.Mutex
	key   string
	lines []domain.CartLine
}

// New creates a cart bound to the scope's current key. Call Load to read the stored lines.
func New(store storage.Store, scope ScopeFunc, logger *zap.Logger) *Cart {
	if scope == nil {
		scope = Anonymous
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cart{
		store:  store,
		scope:  scope,
		logger: logger,
		key:    storage.CartKey(scope()),
		lines:  []domain.CartLine{},
	}
}

// Load rebinds the cart to the scope's current key and reads its lines
func (c *Cart) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.key = storage.CartKey(c.scope())
	var lines []domain.CartLine
	if err := load(ctx, c.store, c.key, &lines, c.logger); err != nil {
		c.lines = []domain.CartLine{}
		return fmt.Errorf("load cart: %w", err)
	}

	// Drop lines that violate the quantity invariant
	c.lines = make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity >= 1 {
			c.lines = append(c.lines, line)
		}
	}
	return nil
}

// Add increments the product's line or appends a new line with quantity 1
func (c *Cart) Add(ctx context.Context, product domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.copyLines()
	found := false
	for i := range next {
		if next[i].Product.ID == product.ID {
			next[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		next = append(next, domain.CartLine{Product: product, Quantity: 1})
	}
	return c.commit(ctx, next)
}

// Remove drops the product's line
func (c *Cart) Remove(ctx context.Context, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]domain.CartLine, 0, len(c.lines))
	for _, line := range c.lines {
		if line.Product.ID != productID {
			next = append(next, line)
		}
	}
	return c.commit(ctx, next)
}

// SetQuantity sets the line's quantity, clamped to at least 1.
// An unknown product changes nothing but the cart is still persisted.
func (c *Cart) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.copyLines()
	for i := range next {
		if next[i].Product.ID == productID {
			next[i].Quantity = quantity
			break
		}
	}
	return c.commit(ctx, next)
}

// Clear empties the cart
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit(ctx, []domain.CartLine{})
}

// commit persists next and swaps it in; on a storage error the cart is unchanged
func (c *Cart) commit(ctx context.Context, next []domain.CartLine) error {
	if err := storage.SaveJSON(ctx, c.store, c.key, next); err != nil {
		c.logger.Error("Failed to persist cart", zap.String("key", c.key), zap.Error(err))
		return fmt.Errorf("save cart: %w", err)
	}
	c.lines = next
	return nil
}

func (c *Cart) copyLines() []domain.CartLine {
	return append(make([]domain.CartLine, 0, len(c.lines)+1), c.lines...)
}

// Items returns a copy of the cart lines in insertion order
func (c *Cart) Items() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.CartLine{}, c.lines...)
}

// Count is the sum of quantities
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// Subtotal is the sum of price times quantity over all lines
func (c *Cart) Subtotal() float64 {
	return Subtotal(c.Items()).InexactFloat64()
}

// Subtotal sums price times quantity without float drift
func Subtotal(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(decimal.NewFromFloat(line.Product.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Key returns the storage key the cart is bound to
func (c *Cart) Key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}
