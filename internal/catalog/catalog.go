// Package catalog holds the fetched products and categories of one client,
// the active filter criteria and the derived (filtered and sorted) view.
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/pkg/errors"
)

// MsgProductNotFound is the error text retained when a slug lookup misses
const MsgProductNotFound = "Product not found"

// Source reads the catalog from the content store
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

// Writer applies admin mutations to the content store
type Writer interface {
	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Store is the full content store surface used by the catalog
type Store interface {
	Source
	Writer
}

// Catalog is safe for concurrent use. Network calls run without the lock;
// each fetch takes a ticket and only the newest ticket of its kind commits.
type Catalog struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	mu         sync.Mutex
	items      []domain.Product
	categories []domain.Category
	view       []domain.Product
	current    *domain.Product
	filters    Filters
	loadingAll bool
	loadingOne bool
	loaded     bool
	errMsg     string
	allTicket  uint64
	oneTicket  uint64
}

// New creates an empty catalog with default filters
func New(store Store, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		store:   store,
		logger:  logger,
		now:     time.Now,
		filters: DefaultFilters(),
		view:    []domain.Product{},
	}
}

// FetchAll replaces products and categories with the store's copies. On
// failure the previous items stay visible and the error text is retained.
func (c *Catalog) FetchAll(ctx context.Context) error {
	c.mu.Lock()
	c.allTicket++
	ticket := c.allTicket
	c.loadingAll = true
	c.errMsg = ""
	c.mu.Unlock()

	var (
		products   []domain.Product
		categories []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = c.store.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = c.store.ListCategories(gctx)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if ticket != c.allTicket {
		c.logger.Debug("Discarding superseded catalog fetch", zap.Uint64("ticket", ticket))
		return nil
	}

	c.loadingAll = false
	if err != nil {
		c.errMsg = err.Error()
		c.logger.Warn("Catalog fetch failed", zap.Error(err))
		return err
	}

	c.items = products
	c.categories = categories
	c.loaded = true
	c.recompute()
	return nil
}

// FetchOne loads a single product into Current. A missing slug returns
// *errors.ErrNotFound; transport failures return the wrapped store error.
func (c *Catalog) FetchOne(ctx context.Context, slug string) (*domain.Product, error) {
	c.mu.Lock()
	c.oneTicket++
	ticket := c.oneTicket
	c.loadingOne = true
	c.errMsg = ""
	c.mu.Unlock()

	product, err := c.store.ProductBySlug(ctx, slug)

	c.mu.Lock()
	defer c.mu.Unlock()

	stale := ticket != c.oneTicket
	if stale {
		c.logger.Debug("Discarding superseded product fetch", zap.String("slug", slug))
	} else {
		c.loadingOne = false
	}

	switch {
	case err != nil:
		if !stale {
			c.errMsg = err.Error()
		}
		return nil, err
	case product == nil:
		if !stale {
			c.errMsg = MsgProductNotFound
		}
		return nil, &errors.ErrNotFound{Resource: "product", ID: slug}
	}

	if !stale {
		p := *product
		c.current = &p
	}
	return product, nil
}

// SetFilter merges patch into the criteria and recomputes the view
func (c *Catalog) SetFilter(patch FilterPatch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = patch.Apply(c.filters)
	c.recompute()
	return nil
}

// ClearFilters resets the criteria to defaults and recomputes the view
func (c *Catalog) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = DefaultFilters()
	c.recompute()
}

// CreateProduct writes the product remotely, then adds it locally
func (c *Catalog) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	in.Slug = ProductSlug(in.Title)

	product, err := c.store.CreateProduct(ctx, in)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolveCategory(product)
	c.items = append(c.items, *product)
	c.recompute()
	return product, nil
}

// UpdateProduct writes the product remotely, then replaces the local copy
func (c *Catalog) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	in.Slug = ProductSlug(in.Title)

	product, err := c.store.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolveCategory(product)
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i] = *product
			c.recompute()
			break
		}
	}
	if c.current != nil && c.current.ID == id {
		p := *product
		c.current = &p
	}
	return product, nil
}

// DeleteProduct deletes the product remotely, then drops it locally
func (c *Catalog) DeleteProduct(ctx context.Context, id string) error {
	if err := c.store.DeleteProduct(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, p := range c.items {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.items = kept
	if c.current != nil && c.current.ID == id {
		c.current = nil
	}
	c.recompute()
	return nil
}

// CreateCategory writes the category remotely, then adds it locally
func (c *Catalog) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	in.Slug = Slugify(in.Title)

	category, err := c.store.CreateCategory(ctx, in)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = append(c.categories, *category)
	return category, nil
}

// UpdateCategory writes the category remotely with a fresh timestamped slug
func (c *Catalog) UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	in.Slug = UpdatedCategorySlug(in.Title, c.now())

	category, err := c.store.UpdateCategory(ctx, id, in)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.categories {
		if c.categories[i].ID == id {
			// productCount is derived by the store; keep the last known value
			if category.ProductCount == 0 {
				category.ProductCount = c.categories[i].ProductCount
			}
			c.categories[i] = *category
			break
		}
	}
	return category, nil
}

// DeleteCategory deletes the category remotely, then drops it locally
func (c *Catalog) DeleteCategory(ctx context.Context, id string) error {
	if err := c.store.DeleteCategory(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.categories[:0]
	for _, cat := range c.categories {
		if cat.ID != id {
			kept = append(kept, cat)
		}
	}
	c.categories = kept
	return nil
}

// recompute must be called with c.mu held
func (c *Catalog) recompute() {
	c.view = Derive(c.items, c.filters)
}

// resolveCategory fills the category title and slug from the local categories
func (c *Catalog) resolveCategory(p *domain.Product) {
	if p.Category.ID == "" || p.Category.Slug != "" {
		return
	}
	for _, cat := range c.categories {
		if cat.ID == p.Category.ID {
			p.Category.Title = cat.Title
			p.Category.Slug = cat.Slug
			return
		}
	}
}

func validateProduct(in domain.ProductInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "required"
	}
	if in.Price < 0 {
		fields["price"] = "must not be negative"
	}
	if in.Stock < 0 {
		fields["stock"] = "must not be negative"
	}
	if len(fields) > 0 {
		return &errors.ErrValidation{Message: "invalid product", Fields: fields}
	}
	return nil
}

func validateCategory(in domain.CategoryInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return &errors.ErrValidation{Message: "invalid category", Fields: map[string]string{"title": "required"}}
	}
	return nil
}

// View returns a copy of the derived product list
func (c *Catalog) View() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Product(nil), c.view...)
}

// Items returns a copy of the source product list in fetch order
func (c *Catalog) Items() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Product(nil), c.items...)
}

// Categories returns a copy of the categories
func (c *Catalog) Categories() []domain.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Category(nil), c.categories...)
}

// Current returns the product last loaded by FetchOne
func (c *Catalog) Current() *domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	p := *c.current
	return &p
}

// Filters returns the active criteria
func (c *Catalog) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := c.filters
	if f.Category != nil {
		slug := *f.Category
		f.Category = &slug
	}
	return f
}

// Loading reports whether a FetchAll or FetchOne is in flight
func (c *Catalog) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingAll || c.loadingOne
}

// Loaded reports whether a FetchAll has ever succeeded
func (c *Catalog) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Err returns the retained error text of the last failed fetch
func (c *Catalog) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ProductByID looks a product up in the source list
func (c *Catalog) ProductByID(id string) (domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.items {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
