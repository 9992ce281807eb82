// Package storefront wires one client's state containers together and keeps
// a registry of live storefronts keyed by client ID.
package storefront

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/cart"
	"github.com/luxeshop/storefront/internal/catalog"
	"github.com/luxeshop/storefront/internal/checkout"
	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/preferences"
	"github.com/luxeshop/storefront/internal/session"
	"github.com/luxeshop/storefront/internal/storage"
)

// ContentStore is everything a storefront reads from or writes to the content store
type ContentStore interface {
	catalog.Store
	checkout.OrderStore
}

// Deps are shared by every storefront
type Deps struct {
	Backend     storage.Backend
	Content     ContentStore
	Events      checkout.EventRecorder
	Pricing     checkout.Pricing
	OrderPrefix string
	Logger      *zap.Logger
}

// Storefront is the state of one client device
type Storefront struct {
	ClientID    string
	Storage     storage.Store
	Session     *session.Session
	Cart        *cart.Cart
	Wishlist    *cart.Wishlist
	Catalog     *catalog.Catalog
	Checkout    *checkout.Workflow
	Preferences *preferences.Preferences
}

// Open builds the client's containers and restores their persisted state
func Open(ctx context.Context, clientID string, deps Deps) (*Storefront, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("client_id", clientID))

	store := storage.Partition(deps.Backend, clientID)
	sess := session.New(store, logger)
	if err := sess.Load(ctx); err != nil {
		return nil, err
	}

	sf := &Storefront{
		ClientID:    clientID,
		Storage:     store,
		Session:     sess,
		Cart:        cart.New(store, sess.UserID, logger),
		Wishlist:    cart.NewWishlist(store, sess.UserID, logger),
		Catalog:     catalog.New(deps.Content, logger),
		Preferences: preferences.New(store, logger),
	}
	sf.Checkout = checkout.NewWorkflow(checkout.Options{
		ClientID: clientID,
		Orders:   deps.Content,
		Events:   deps.Events,
		Cart:     sf.Cart,
		Buyer:    sess.User,
		Pricing:  deps.Pricing,
		Numbers:  checkout.NewOrderNumbers(deps.OrderPrefix),
		Logger:   logger,
	})

	if err := sf.reloadCollections(ctx); err != nil {
		return nil, err
	}
	if err := sf.Preferences.Load(ctx); err != nil {
		return nil, err
	}

	// The cart and wishlist follow the signed-in identity
	sess.OnChange(func(ctx context.Context, _ *domain.User) {
		if err := sf.reloadCollections(ctx); err != nil {
			logger.Error("Failed to reload collections after session change", zap.Error(err))
		}
	})

	return sf, nil
}

func (sf *Storefront) reloadCollections(ctx context.Context) error {
	if err := sf.Cart.Load(ctx); err != nil {
		return fmt.Errorf("client %s: %w", sf.ClientID, err)
	}
	if err := sf.Wishlist.Load(ctx); err != nil {
		return fmt.Errorf("client %s: %w", sf.ClientID, err)
	}
	return nil
}
