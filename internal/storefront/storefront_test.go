package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/repository"
	"github.com/luxeshop/storefront/internal/repository/sqldb"
)

type fakeContent struct {
	mu       sync.Mutex
	products []domain.Product
	orders   []domain.Order
}

func (f *fakeContent) ListProducts(context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeContent) ListCategories(context.Context) ([]domain.Category, error) {
	return []domain.Category{}, nil
}

func (f *fakeContent) ProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Slug == slug {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeContent) CreateProduct(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	return &domain.Product{ID: in.Slug, Title: in.Title, Slug: in.Slug}, nil
}

func (f *fakeContent) UpdateProduct(_ context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	return &domain.Product{ID: id, Title: in.Title, Slug: in.Slug}, nil
}

func (f *fakeContent) DeleteProduct(context.Context, string) error { return nil }

func (f *fakeContent) CreateCategory(_ context.Context, in domain.CategoryInput) (*domain.Category, error) {
	return &domain.Category{ID: in.Slug, Title: in.Title, Slug: in.Slug}, nil
}

func (f *fakeContent) UpdateCategory(_ context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	return &domain.Category{ID: id, Title: in.Title, Slug: in.Slug}, nil
}

func (f *fakeContent) DeleteCategory(context.Context, string) error { return nil }

func (f *fakeContent) CreateOrder(_ context.Context, o *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = "doc-" + o.OrderNumber
	f.orders = append(f.orders, *o)
	return nil
}

func (f *fakeContent) OrderByNumber(_ context.Context, number string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.OrderNumber == number {
			o := o
			return &o, nil
		}
	}
	return nil, nil
}

func (f *fakeContent) ListOrders(context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Order(nil), f.orders...), nil
}

func (f *fakeContent) UpdateOrderStatus(context.Context, string, domain.OrderStatus) error {
	return nil
}

func newDeps(t *testing.T) Deps {
	deps, _ := newDepsWithRepos(t)
	return deps
}

func newDepsWithRepos(t *testing.T) (Deps, *repository.Repositories) {
	t.Helper()
	db, err := sqldb.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqldb.RunMigrations(context.Background(), db))

	repos := sqldb.NewRepositories(db, sqldb.DialectSQLite, zap.NewNop())
	return Deps{
		Backend: repos.ClientStorage,
		Content: &fakeContent{products: []domain.Product{{ID: "p1", Slug: "watch", Title: "Watch", Price: 120}}},
		Events:  repos.OrderEvent,
	}, repos
}

var watch = domain.Product{ID: "p1", Slug: "watch", Title: "Watch", Price: 120}

func TestSwitchingUsersSwitchesCollections(t *testing.T) {
	ctx := context.Background()
	sf, err := Open(ctx, "device-1", newDeps(t))
	require.NoError(t, err)

	require.NoError(t, sf.Session.Login(ctx, domain.User{ID: "u1", Name: "One"}))
	require.NoError(t, sf.Cart.Add(ctx, watch))
	require.NoError(t, sf.Wishlist.Add(ctx, watch))
	assert.Equal(t, "cart_u1", sf.Cart.Key())

	require.NoError(t, sf.Session.Logout(ctx))
	assert.Empty(t, sf.Cart.Items())
	assert.Empty(t, sf.Wishlist.Items())

	require.NoError(t, sf.Session.Login(ctx, domain.User{ID: "u2", Name: "Two"}))
	assert.Empty(t, sf.Cart.Items(), "second user must not see the first user's cart")
	assert.False(t, sf.Wishlist.Contains("p1"))

	require.NoError(t, sf.Session.Login(ctx, domain.User{ID: "u1", Name: "One"}))
	require.Len(t, sf.Cart.Items(), 1)
	assert.True(t, sf.Wishlist.Contains("p1"))
}

func TestCheckoutThroughStorefront(t *testing.T) {
	ctx := context.Background()
	deps, repos := newDepsWithRepos(t)
	sf, err := Open(ctx, "device-1", deps)
	require.NoError(t, err)

	require.NoError(t, sf.Catalog.FetchAll(ctx))
	p, ok := sf.Catalog.ProductByID("p1")
	require.True(t, ok)
	require.NoError(t, sf.Cart.Add(ctx, p))

	order, err := sf.Checkout.Submit(ctx, domain.ShippingInfo{
		Name: "Jane", Email: "jane@example.com", Address: "1 Main", City: "Amman", Phone: "079",
	})
	require.NoError(t, err)
	assert.Equal(t, 129.6, order.Total)
	assert.Empty(t, sf.Cart.Items())

	events, err := repos.OrderEvent.GetByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestRegistryReusesAndEvicts(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newDeps(t), time.Minute)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }

	a, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	again, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	require.NoError(t, a.Cart.Add(ctx, watch))
	reg.Release("device-a")
	reg.Release("device-a")
	_, err = reg.Get(ctx, "device-b")
	require.NoError(t, err)
	reg.Release("device-b")
	assert.Equal(t, 2, reg.Len())

	clock = clock.Add(30 * time.Second)
	_, err = reg.Get(ctx, "device-b")
	require.NoError(t, err)
	reg.Release("device-b")

	clock = clock.Add(45 * time.Second)
	assert.Equal(t, 1, reg.EvictIdle())
	assert.Equal(t, 1, reg.Len())

	reopened, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	assert.NotSame(t, a, reopened)
	require.Len(t, reopened.Cart.Items(), 1, "persisted cart survives eviction")
}

func TestRegistryKeepsStorefrontsInUse(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(newDeps(t), time.Minute)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }

	first, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	_, err = reg.Get(ctx, "device-a")
	require.NoError(t, err)

	clock = clock.Add(5 * time.Minute)
	assert.Equal(t, 0, reg.EvictIdle(), "held by a running request")

	reg.Release("device-a")
	clock = clock.Add(5 * time.Minute)
	assert.Equal(t, 0, reg.EvictIdle(), "one caller still holds it")

	reg.Release("device-a")
	assert.Equal(t, 0, reg.EvictIdle(), "release counts as use")
	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 1, reg.EvictIdle())
	assert.Equal(t, 0, reg.Len())

	reg.Release("device-a")
	again, err := reg.Get(ctx, "device-a")
	require.NoError(t, err)
	assert.NotSame(t, first, again)
}

func TestRunJanitorStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reg := NewRegistry(Deps{Content: &fakeContent{}}, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		reg.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done
}
