package contentstore

import (
	"context"
	"fmt"

	"github.com/luxeshop/storefront/internal/domain"
)

// ListProducts fetches every product in store order
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var docs []productDoc
	if err := c.Query(ctx, ProductsQuery, nil, &docs); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	products := make([]domain.Product, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toDomain())
	}
	return products, nil
}

// ProductBySlug returns (nil, nil) when no product has the slug
func (c *Client) ProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var doc *productDoc
	if err := c.Query(ctx, ProductBySlugQuery, map[string]interface{}{"slug": slug}, &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	p := doc.toDomain()
	return &p, nil
}

// ListCategories fetches every category with its product count
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var docs []categoryDoc
	if err := c.Query(ctx, CategoriesQuery, nil, &docs); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	categories := make([]domain.Category, 0, len(docs))
	for i := range docs {
		categories = append(categories, docs[i].toDomain())
	}
	return categories, nil
}

// CreateProduct stores a new product. The returned category carries only its ID.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	resp, err := c.Mutate(ctx, CreateMutation("product", productFields(in)))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return productResult(resp, "", in)
}

// UpdateProduct overwrites the editable fields of product id
func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	resp, err := c.Mutate(ctx, SetMutation(id, productFields(in)))
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return productResult(resp, id, in)
}

// DeleteProduct removes product id
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if _, err := c.Mutate(ctx, DeleteMutation(id)); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// CreateCategory stores a new category
func (c *Client) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	resp, err := c.Mutate(ctx, CreateMutation("category", categoryFields(in)))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return categoryResult(resp, "", in)
}

// UpdateCategory overwrites the editable fields of category id
func (c *Client) UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	resp, err := c.Mutate(ctx, SetMutation(id, categoryFields(in)))
	if err != nil {
		return nil, fmt.Errorf("failed to update category %s: %w", id, err)
	}
	return categoryResult(resp, id, in)
}

// DeleteCategory removes category id
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	if _, err := c.Mutate(ctx, DeleteMutation(id)); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}

func productResult(resp *MutateResponse, id string, in domain.ProductInput) (*domain.Product, error) {
	var doc productDoc
	ok, err := resp.firstDocument(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	if ok {
		p := doc.toDomain()
		return &p, nil
	}

	// No document returned; rebuild from the input
	if id == "" {
		id = resp.firstID()
	}
	return &domain.Product{
		ID:          id,
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		Image:       in.Image,
		Price:       in.Price,
		OldPrice:    in.OldPrice,
		OnSale:      in.OnSale,
		Category:    domain.CategoryRef{ID: in.CategoryID},
		Rating:      in.Rating,
		Stock:       in.Stock,
		IsNew:       in.IsNew,
	}, nil
}

func categoryResult(resp *MutateResponse, id string, in domain.CategoryInput) (*domain.Category, error) {
	var doc categoryDoc
	ok, err := resp.firstDocument(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode category: %w", err)
	}
	if ok {
		cat := doc.toDomain()
		return &cat, nil
	}

	if id == "" {
		id = resp.firstID()
	}
	return &domain.Category{
		ID:          id,
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		Image:       in.Image,
	}, nil
}
