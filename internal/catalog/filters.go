package catalog

import (
	"fmt"
	"sort"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/pkg/errors"
)

// Default price bounds of the filter
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 10000
)

// Filters is the active filter criteria of the derived view
type Filters struct {
	Category   *string        `json:"category"`
	PriceRange [2]float64     `json:"price_range"`
	OnSale     bool           `json:"on_sale"`
	SortBy     domain.SortKey `json:"sort_by"`
}

// DefaultFilters returns the criteria a fresh catalog starts with
func DefaultFilters() Filters {
	return Filters{
		PriceRange: [2]float64{DefaultMinPrice, DefaultMaxPrice},
		SortBy:     domain.SortNewest,
	}
}

// FilterPatch is a partial update of Filters. Nil fields are left alone;
// a Category pointing at "" clears the category filter.
type FilterPatch struct {
	Category   *string         `json:"category"`
	PriceRange *[2]float64     `json:"price_range"`
	OnSale     *bool           `json:"on_sale"`
	SortBy     *domain.SortKey `json:"sort_by"`
}

// Validate checks the patch before it is merged
func (p FilterPatch) Validate() error {
	fields := map[string]string{}
	if p.SortBy != nil && !p.SortBy.IsValid() {
		fields["sort_by"] = fmt.Sprintf("unknown sort key %q", *p.SortBy)
	}
	if p.PriceRange != nil {
		if p.PriceRange[0] < 0 {
			fields["price_range"] = "minimum must not be negative"
		} else if p.PriceRange[0] > p.PriceRange[1] {
			fields["price_range"] = "minimum must not exceed maximum"
		}
	}
	if len(fields) > 0 {
		return &errors.ErrValidation{Message: "invalid filter", Fields: fields}
	}
	return nil
}

// Apply merges the patch into f
func (p FilterPatch) Apply(f Filters) Filters {
	if p.Category != nil {
		if *p.Category == "" {
			f.Category = nil
		} else {
			slug := *p.Category
			f.Category = &slug
		}
	}
	if p.PriceRange != nil {
		f.PriceRange = *p.PriceRange
	}
	if p.OnSale != nil {
		f.OnSale = *p.OnSale
	}
	if p.SortBy != nil {
		f.SortBy = *p.SortBy
	}
	return f
}

// Derive filters and sorts items. It never modifies items and is
// deterministic: equal prices or ratings keep their fetch order.
func Derive(items []domain.Product, f Filters) []domain.Product {
	out := make([]domain.Product, 0, len(items))
	for _, p := range items {
		if f.Category != nil && p.Category.Slug != *f.Category {
			continue
		}
		if f.OnSale && !p.OnSale {
			continue
		}
		if p.Price < f.PriceRange[0] || p.Price > f.PriceRange[1] {
			continue
		}
		out = append(out, p)
	}

	switch f.SortBy {
	case domain.SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case domain.SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case domain.SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}

	return out
}
