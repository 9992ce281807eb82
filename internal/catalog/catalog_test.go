package catalog

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/pkg/errors"
)

type fakeStore struct {
	mu         sync.Mutex
	products   []domain.Product
	categories []domain.Category
	listErr    error
	writeErr   error
	listFn     func(ctx context.Context) ([]domain.Product, error)

	productInputs  []domain.ProductInput
	categoryInputs []domain.CategoryInput
	deleted        []string
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Category(nil), f.categories...), nil
}

func (f *fakeStore) ProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	for _, p := range f.products {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productInputs = append(f.productInputs, in)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &domain.Product{ID: "new-" + in.Slug, Title: in.Title, Slug: in.Slug, Price: in.Price, Category: domain.CategoryRef{ID: in.CategoryID}}, nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productInputs = append(f.productInputs, in)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &domain.Product{ID: id, Title: in.Title, Slug: in.Slug, Price: in.Price, Category: domain.CategoryRef{ID: in.CategoryID}}, nil
}

func (f *fakeStore) DeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categoryInputs = append(f.categoryInputs, in)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &domain.Category{ID: "cat-" + in.Slug, Title: in.Title, Slug: in.Slug}, nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categoryInputs = append(f.categoryInputs, in)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &domain.Category{ID: id, Title: in.Title, Slug: in.Slug}, nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func product(id string, price, rating float64, cat string, onSale bool) domain.Product {
	return domain.Product{
		ID:       id,
		Title:    "Product " + id,
		Slug:     "product-" + id,
		Price:    price,
		Rating:   rating,
		OnSale:   onSale,
		Category: domain.CategoryRef{ID: "c-" + cat, Title: cat, Slug: cat},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func prices(products []domain.Product) []float64 {
	out := make([]float64, 0, len(products))
	for _, p := range products {
		out = append(out, p.Price)
	}
	return out
}

func sortKey(k domain.SortKey) *domain.SortKey { return &k }

func TestDerive(t *testing.T) {
	items := []domain.Product{
		product("a", 10, 3, "bags", false),
		product("b", 30, 5, "shoes", true),
		product("c", 20, 4, "bags", true),
	}

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"defaults keep fetch order", DefaultFilters(), []string{"a", "b", "c"}},
		{"price low", Filters{PriceRange: [2]float64{0, 10000}, SortBy: domain.SortPriceLow}, []string{"a", "c", "b"}},
		{"price high", Filters{PriceRange: [2]float64{0, 10000}, SortBy: domain.SortPriceHigh}, []string{"b", "c", "a"}},
		{"popular", Filters{PriceRange: [2]float64{0, 10000}, SortBy: domain.SortPopular}, []string{"b", "c", "a"}},
		{"category", func() Filters { f := DefaultFilters(); s := "bags"; f.Category = &s; return f }(), []string{"a", "c"}},
		{"on sale", Filters{PriceRange: [2]float64{0, 10000}, OnSale: true, SortBy: domain.SortNewest}, []string{"b", "c"}},
		{"inclusive price bounds", Filters{PriceRange: [2]float64{10, 20}, SortBy: domain.SortNewest}, []string{"a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Derive(items, tt.filters))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Derive() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDerivePriceExample(t *testing.T) {
	items := []domain.Product{{ID: "1", Price: 10}, {ID: "2", Price: 30}, {ID: "3", Price: 20}}
	f := DefaultFilters()

	f.SortBy = domain.SortPriceLow
	assert.Equal(t, []float64{10, 20, 30}, prices(Derive(items, f)))

	f.SortBy = domain.SortPriceHigh
	assert.Equal(t, []float64{30, 20, 10}, prices(Derive(items, f)))

	// source untouched
	assert.Equal(t, []float64{10, 30, 20}, prices(items))
}

func TestDeriveIsStableAndRepeatable(t *testing.T) {
	items := []domain.Product{
		product("a", 10, 4, "x", false),
		product("b", 10, 4, "x", false),
		product("c", 5, 4, "x", false),
		product("d", 10, 4, "x", false),
	}
	f := DefaultFilters()
	f.SortBy = domain.SortPriceLow

	first := Derive(items, f)
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(first))
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Derive(items, f)); diff != "" {
			t.Fatalf("derivation not repeatable:\n%s", diff)
		}
	}

	f.SortBy = domain.SortPopular
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(Derive(items, f)))
}

func TestFetchAll(t *testing.T) {
	store := &fakeStore{
		products:   []domain.Product{product("a", 10, 1, "bags", false), product("b", 50, 2, "shoes", false)},
		categories: []domain.Category{{ID: "c-bags", Title: "bags", Slug: "bags", ProductCount: 1}},
	}
	c := New(store, nil)

	require.NoError(t, c.FetchAll(context.Background()))
	assert.True(t, c.Loaded())
	assert.False(t, c.Loading())
	assert.Empty(t, c.Err())
	assert.Equal(t, []string{"a", "b"}, ids(c.View()))
	assert.Len(t, c.Categories(), 1)

	t.Run("failure keeps previous items", func(t *testing.T) {
		store.mu.Lock()
		store.listErr = stderrors.New("connection refused")
		store.mu.Unlock()

		err := c.FetchAll(context.Background())
		require.Error(t, err)
		assert.Equal(t, "connection refused", c.Err())
		assert.False(t, c.Loading())
		assert.Equal(t, []string{"a", "b"}, ids(c.Items()))
		assert.Equal(t, []string{"a", "b"}, ids(c.View()))
	})
}

func TestFetchAllDiscardsSupersededResponse(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	store := &fakeStore{}
	store.listFn = func(ctx context.Context) ([]domain.Product, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(entered)
			<-release
			return []domain.Product{product("old", 1, 1, "x", false)}, nil
		}
		return []domain.Product{product("new", 2, 1, "x", false)}, nil
	}
	c := New(store, nil)

	done := make(chan error, 1)
	go func() { done <- c.FetchAll(context.Background()) }()
	<-entered

	require.NoError(t, c.FetchAll(context.Background()))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"new"}, ids(c.Items()))
	assert.False(t, c.Loading())
}

func TestFetchOneDiscardsSupersededResponse(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	store := &blockingSlugStore{
		fakeStore: &fakeStore{products: []domain.Product{product("b", 20, 1, "bags", false)}},
		block:     "product-a",
		entered:   entered,
		release:   release,
	}
	c := New(store, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.FetchOne(context.Background(), "product-a")
		done <- err
	}()
	<-entered

	p, err := c.FetchOne(context.Background(), "product-b")
	require.NoError(t, err)
	assert.Equal(t, "b", p.ID)

	close(release)
	err = <-done
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	require.NotNil(t, c.Current())
	assert.Equal(t, "b", c.Current().ID)
	assert.Empty(t, c.Err())
	assert.False(t, c.Loading())
}

func TestLoadingTracksEachFetchKind(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	store := &blockingSlugStore{
		fakeStore: &fakeStore{products: []domain.Product{product("a", 10, 1, "bags", false)}},
		block:     "product-a",
		entered:   entered,
		release:   release,
	}
	c := New(store, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.FetchOne(context.Background(), "product-a")
		done <- err
	}()
	<-entered

	require.NoError(t, c.FetchAll(context.Background()))
	assert.True(t, c.Loading(), "product fetch still in flight")

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Loading())
}

// blockingSlugStore parks ProductBySlug for one slug until release is closed
type blockingSlugStore struct {
	*fakeStore
	block   string
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSlugStore) ProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if slug == b.block {
		close(b.entered)
		<-b.release
	}
	return b.fakeStore.ProductBySlug(ctx, slug)
}

func TestFetchOne(t *testing.T) {
	store := &fakeStore{products: []domain.Product{product("a", 10, 1, "bags", false)}}
	c := New(store, nil)

	p, err := c.FetchOne(context.Background(), "product-a")
	require.NoError(t, err)
	assert.Equal(t, "a", p.ID)
	require.NotNil(t, c.Current())
	assert.Equal(t, "a", c.Current().ID)

	_, err = c.FetchOne(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, MsgProductNotFound, c.Err())

	store.mu.Lock()
	store.listErr = stderrors.New("timeout")
	store.mu.Unlock()
	_, err = c.FetchOne(context.Background(), "product-a")
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))
	assert.Equal(t, "timeout", c.Err())
}

func TestSetFilterAndClear(t *testing.T) {
	store := &fakeStore{products: []domain.Product{
		product("a", 10, 1, "bags", false),
		product("b", 30, 5, "shoes", true),
		product("c", 20, 3, "bags", true),
	}}
	c := New(store, nil)
	require.NoError(t, c.FetchAll(context.Background()))

	bags := "bags"
	require.NoError(t, c.SetFilter(FilterPatch{Category: &bags}))
	assert.Equal(t, []string{"a", "c"}, ids(c.View()))

	require.NoError(t, c.SetFilter(FilterPatch{SortBy: sortKey(domain.SortPriceHigh)}))
	assert.Equal(t, []string{"c", "a"}, ids(c.View()))
	assert.Equal(t, "bags", *c.Filters().Category)

	empty := ""
	require.NoError(t, c.SetFilter(FilterPatch{Category: &empty}))
	assert.Nil(t, c.Filters().Category)
	assert.Equal(t, []string{"b", "c", "a"}, ids(c.View()))

	err := c.SetFilter(FilterPatch{SortBy: sortKey("cheapest")})
	_, ok := errors.AsValidation(err)
	assert.True(t, ok)

	err = c.SetFilter(FilterPatch{PriceRange: &[2]float64{50, 10}})
	_, ok = errors.AsValidation(err)
	assert.True(t, ok)

	c.ClearFilters()
	assert.Equal(t, DefaultFilters(), c.Filters())
	assert.Equal(t, []string{"a", "b", "c"}, ids(c.View()))
}

func TestAdminProductWrites(t *testing.T) {
	store := &fakeStore{
		products:   []domain.Product{product("a", 10, 1, "bags", false)},
		categories: []domain.Category{{ID: "c-bags", Title: "Bags", Slug: "bags"}},
	}
	c := New(store, nil)
	require.NoError(t, c.FetchAll(context.Background()))

	created, err := c.CreateProduct(context.Background(), domain.ProductInput{Title: "Leather  Tote", Price: 99, CategoryID: "c-bags"})
	require.NoError(t, err)
	assert.Equal(t, "leather_tote", store.productInputs[0].Slug)
	assert.Equal(t, "bags", created.Category.Slug)
	assert.Equal(t, []string{"a", "new-leather_tote"}, ids(c.View()))

	_, err = c.UpdateProduct(context.Background(), "a", domain.ProductInput{Title: "Renamed", Price: 12})
	require.NoError(t, err)
	p, ok := c.ProductByID("a")
	require.True(t, ok)
	assert.Equal(t, "Renamed", p.Title)

	require.NoError(t, c.DeleteProduct(context.Background(), "a"))
	_, ok = c.ProductByID("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"new-leather_tote"}, ids(c.View()))

	t.Run("remote failure leaves local state", func(t *testing.T) {
		store.writeErr = stderrors.New("forbidden")
		_, err := c.CreateProduct(context.Background(), domain.ProductInput{Title: "Ghost", Price: 1})
		require.Error(t, err)
		require.Error(t, c.DeleteProduct(context.Background(), "new-leather_tote"))
		assert.Equal(t, []string{"new-leather_tote"}, ids(c.Items()))
		store.writeErr = nil
	})

	t.Run("validation runs before the write", func(t *testing.T) {
		before := len(store.productInputs)
		_, err := c.CreateProduct(context.Background(), domain.ProductInput{Title: "  ", Price: -1})
		verr, ok := errors.AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, verr.Fields, "title")
		assert.Contains(t, verr.Fields, "price")
		assert.Len(t, store.productInputs, before)
	})
}

func TestAdminCategoryWrites(t *testing.T) {
	store := &fakeStore{categories: []domain.Category{{ID: "c1", Title: "Bags", Slug: "bags", ProductCount: 3}}}
	c := New(store, nil)
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	require.NoError(t, c.FetchAll(context.Background()))

	_, err := c.CreateCategory(context.Background(), domain.CategoryInput{Title: "Home Decor"})
	require.NoError(t, err)
	assert.Equal(t, "home-decor", store.categoryInputs[0].Slug)

	updated, err := c.UpdateCategory(context.Background(), "c1", domain.CategoryInput{Title: "Hand Bags"})
	require.NoError(t, err)
	assert.Equal(t, "hand-bags-1700000000000", updated.Slug)
	assert.Equal(t, 3, c.Categories()[0].ProductCount)

	require.NoError(t, c.DeleteCategory(context.Background(), "c1"))
	assert.Len(t, c.Categories(), 1)
	assert.Equal(t, "cat-home-decor", c.Categories()[0].ID)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "summer-sale", Slugify("Summer Sale"))
	assert.Equal(t, "a-b-c", Slugify(" A \t B\n\nC "))
	assert.Equal(t, "x-42", UpdatedCategorySlug("X", time.UnixMilli(42)))
}

func TestProductSlug(t *testing.T) {
	assert.Equal(t, "silk_tie", ProductSlug("Silk Tie"))
	assert.Equal(t, "a_b_c", ProductSlug(" A \t B\n\nC "))
}
