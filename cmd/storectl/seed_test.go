package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/catalog"
	"github.com/luxeshop/storefront/internal/domain"
)

type seedStore struct {
	products   []domain.Product
	categories []domain.Category
	created    []domain.ProductInput
}

func (s *seedStore) ListProducts(context.Context) ([]domain.Product, error) {
	return append([]domain.Product(nil), s.products...), nil
}

func (s *seedStore) ListCategories(context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), s.categories...), nil
}

func (s *seedStore) ProductBySlug(context.Context, string) (*domain.Product, error) {
	return nil, nil
}

func (s *seedStore) CreateProduct(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	s.created = append(s.created, in)
	return &domain.Product{ID: "prod-" + in.Slug, Title: in.Title, Slug: in.Slug, Category: domain.CategoryRef{ID: in.CategoryID}}, nil
}

func (s *seedStore) UpdateProduct(_ context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	return &domain.Product{ID: id, Title: in.Title, Slug: in.Slug}, nil
}

func (s *seedStore) DeleteProduct(context.Context, string) error { return nil }

func (s *seedStore) CreateCategory(_ context.Context, in domain.CategoryInput) (*domain.Category, error) {
	return &domain.Category{ID: "cat-" + in.Slug, Title: in.Title, Slug: in.Slug}, nil
}

func (s *seedStore) UpdateCategory(_ context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	return &domain.Category{ID: id, Title: in.Title, Slug: in.Slug}, nil
}

func (s *seedStore) DeleteCategory(context.Context, string) error { return nil }

const seedYAML = `
categories:
  - title: Watches
  - title: Evening Wear
    description: Gowns and suits
products:
  - title: Classic Watch
    price: 120
    old_price: 150
    stock: 5
    on_sale: true
    category: Watches
  - title: Silk Scarf
    price: 40
    category: evening-wear
  - title: Leather Belt
    price: 30
    category: Belts
`

func TestParseSeed(t *testing.T) {
	f, err := parseSeed([]byte(seedYAML))
	require.NoError(t, err)
	require.Len(t, f.Categories, 2)
	require.Len(t, f.Products, 3)
	require.NotNil(t, f.Products[0].OldPrice)
	assert.Equal(t, 150.0, *f.Products[0].OldPrice)
	assert.True(t, f.Products[0].OnSale)

	_, err = parseSeed([]byte("products:\n  - price: 10\n"))
	assert.Error(t, err)

	_, err = parseSeed([]byte("categories: [unclosed"))
	assert.Error(t, err)
}

func TestApplySeedSkipsExistingAndResolvesCategories(t *testing.T) {
	store := &seedStore{
		categories: []domain.Category{{ID: "cat-belts", Title: "Belts", Slug: "belts"}},
		products:   []domain.Product{{ID: "old", Title: "Silk Scarf", Slug: "silk_scarf"}},
	}
	f, err := parseSeed([]byte(seedYAML))
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := applySeed(context.Background(), catalog.New(store, zap.NewNop()), f, false, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, res.CategoriesCreated)
	assert.Equal(t, 2, res.ProductsCreated)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, store.created, 2)
	assert.Equal(t, "cat-watches", store.created[0].CategoryID)
	assert.Equal(t, "cat-belts", store.created[1].CategoryID)
	assert.Contains(t, out.String(), `skip product "Silk Scarf"`)
}

func TestApplySeedDryRunWritesNothing(t *testing.T) {
	store := &seedStore{}
	f, err := parseSeed([]byte("categories:\n  - title: Watches\nproducts:\n  - title: Classic Watch\n    category: Watches\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	res, err := applySeed(context.Background(), catalog.New(store, zap.NewNop()), f, true, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, res.CategoriesCreated)
	assert.Equal(t, 1, res.ProductsCreated)
	assert.Empty(t, store.created)
}

func TestApplySeedUnknownCategory(t *testing.T) {
	f, err := parseSeed([]byte("products:\n  - title: Hat\n    category: Hats\n"))
	require.NoError(t, err)

	_, err = applySeed(context.Background(), catalog.New(&seedStore{}, zap.NewNop()), f, false, &bytes.Buffer{})
	assert.ErrorContains(t, err, `unknown category "Hats"`)
}
