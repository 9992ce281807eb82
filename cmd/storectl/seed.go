package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/luxeshop/storefront/internal/catalog"
	"github.com/luxeshop/storefront/internal/domain"
)

// SeedFile is the YAML catalog consumed by "storectl seed"
type SeedFile struct {
	Categories []SeedCategory `yaml:"categories"`
	Products   []SeedProduct  `yaml:"products"`
}

type SeedCategory struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

// SeedProduct names its category by title or slug
type SeedProduct struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	OldPrice    *float64 `yaml:"old_price"`
	Image       string   `yaml:"image"`
	Stock       int      `yaml:"stock"`
	OnSale      bool     `yaml:"on_sale"`
	Category    string   `yaml:"category"`
	Rating      float64  `yaml:"rating"`
	IsNew       *bool    `yaml:"is_new"`
}

func parseSeed(data []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	for i, c := range f.Categories {
		if strings.TrimSpace(c.Title) == "" {
			return nil, fmt.Errorf("category %d has no title", i+1)
		}
	}
	for i, p := range f.Products {
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("product %d has no title", i+1)
		}
	}
	return &f, nil
}

// seedResult counts what applySeed did
type seedResult struct {
	CategoriesCreated int
	ProductsCreated   int
	Skipped           int
}

// applySeed creates what the catalog does not already hold. Entries whose
// slug already exists are skipped, so re-running a seed is harmless.
func applySeed(ctx context.Context, cat *catalog.Catalog, f *SeedFile, dryRun bool, out io.Writer) (seedResult, error) {
	var res seedResult
	if err := cat.FetchAll(ctx); err != nil {
		return res, fmt.Errorf("failed to load catalog: %w", err)
	}

	// title and slug both resolve to the category ID
	categoryIDs := map[string]string{}
	for _, c := range cat.Categories() {
		categoryIDs[strings.ToLower(c.Title)] = c.ID
		categoryIDs[c.Slug] = c.ID
	}
	productSlugs := map[string]bool{}
	for _, p := range cat.Items() {
		productSlugs[p.Slug] = true
	}

	for _, sc := range f.Categories {
		slug := catalog.Slugify(sc.Title)
		if _, ok := categoryIDs[slug]; ok {
			fmt.Fprintf(out, "skip category %q (exists)\n", sc.Title)
			res.Skipped++
			continue
		}
		if dryRun {
			fmt.Fprintf(out, "would create category %q\n", sc.Title)
			categoryIDs[slug] = slug
			categoryIDs[strings.ToLower(sc.Title)] = slug
			res.CategoriesCreated++
			continue
		}
		created, err := cat.CreateCategory(ctx, domain.CategoryInput{
			Title:       sc.Title,
			Description: sc.Description,
			Image:       sc.Image,
		})
		if err != nil {
			return res, fmt.Errorf("failed to create category %q: %w", sc.Title, err)
		}
		categoryIDs[created.Slug] = created.ID
		categoryIDs[strings.ToLower(created.Title)] = created.ID
		fmt.Fprintf(out, "created category %q (%s)\n", created.Title, created.ID)
		res.CategoriesCreated++
	}

	for _, sp := range f.Products {
		slug := catalog.ProductSlug(sp.Title)
		if productSlugs[slug] {
			fmt.Fprintf(out, "skip product %q (exists)\n", sp.Title)
			res.Skipped++
			continue
		}

		var categoryID string
		if sp.Category != "" {
			id, ok := categoryIDs[strings.ToLower(sp.Category)]
			if !ok {
				id, ok = categoryIDs[catalog.Slugify(sp.Category)]
			}
			if !ok {
				return res, fmt.Errorf("product %q: unknown category %q", sp.Title, sp.Category)
			}
			categoryID = id
		}

		if dryRun {
			fmt.Fprintf(out, "would create product %q\n", sp.Title)
			productSlugs[slug] = true
			res.ProductsCreated++
			continue
		}
		created, err := cat.CreateProduct(ctx, domain.ProductInput{
			Title:       sp.Title,
			Description: sp.Description,
			Price:       sp.Price,
			OldPrice:    sp.OldPrice,
			Image:       sp.Image,
			Stock:       sp.Stock,
			OnSale:      sp.OnSale,
			CategoryID:  categoryID,
			Rating:      sp.Rating,
			IsNew:       sp.IsNew,
		})
		if err != nil {
			return res, fmt.Errorf("failed to create product %q: %w", sp.Title, err)
		}
		productSlugs[created.Slug] = true
		fmt.Fprintf(out, "created product %q (%s)\n", created.Title, created.ID)
		res.ProductsCreated++
	}

	return res, nil
}
