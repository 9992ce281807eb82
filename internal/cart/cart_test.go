package cart

import (
	"context"
	stderrors "errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/storage"
)

func item(id string, price float64) domain.Product {
	return domain.Product{ID: id, Title: "Item " + id, Slug: "item-" + id, Price: price}
}

type failingStore struct {
	*storage.Memory
	failSet bool
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return stderrors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func TestCartAddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemory(), nil, nil)

	require.NoError(t, c.Add(ctx, item("a", 10)))
	require.NoError(t, c.Add(ctx, item("b", 5)))
	require.NoError(t, c.Add(ctx, item("a", 10)))

	lines := c.Items()
	require.Len(t, lines, 2)
	assert.Equal(t, "a", lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, 25.0, c.Subtotal())
}

func TestCartDistinctLinesProperty(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	pool := []string{"a", "b", "c", "d", "e"}

	for round := 0; round < 20; round++ {
		c := New(storage.NewMemory(), nil, nil)
		counts := map[string]int{}
		for i := 0; i < rng.Intn(30); i++ {
			id := pool[rng.Intn(len(pool))]
			counts[id]++
			require.NoError(t, c.Add(ctx, item(id, 1)))
		}

		lines := c.Items()
		assert.Len(t, lines, len(counts))
		for _, line := range lines {
			assert.Equal(t, counts[line.Product.ID], line.Quantity)
		}
	}
}

func TestCartSetQuantity(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	c := New(mem, nil, nil)
	require.NoError(t, c.Add(ctx, item("a", 4)))

	require.NoError(t, c.SetQuantity(ctx, "a", 5))
	assert.Equal(t, 5, c.Items()[0].Quantity)

	require.NoError(t, c.SetQuantity(ctx, "a", 0))
	assert.Equal(t, 1, c.Items()[0].Quantity)

	require.NoError(t, c.SetQuantity(ctx, "a", -3))
	assert.Equal(t, 1, c.Items()[0].Quantity)

	writes := mem.Writes()
	require.NoError(t, c.SetQuantity(ctx, "unknown", 9))
	assert.Equal(t, writes+1, mem.Writes())
	assert.Len(t, c.Items(), 1)
}

func TestCartRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	c := New(storage.NewMemory(), nil, nil)
	require.NoError(t, c.Add(ctx, item("a", 1)))
	require.NoError(t, c.Add(ctx, item("b", 1)))

	require.NoError(t, c.Remove(ctx, "a"))
	require.Len(t, c.Items(), 1)
	assert.Equal(t, "b", c.Items()[0].Product.ID)

	require.NoError(t, c.Clear(ctx))
	assert.Empty(t, c.Items())
	assert.Equal(t, 0.0, c.Subtotal())
}

func TestCartPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	c := New(mem, nil, nil)
	require.NoError(t, c.Add(ctx, item("a", 12.5)))

	reloaded := New(mem, nil, nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, c.Items(), reloaded.Items())
}

func TestCartScopeSwitching(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	user := ""
	c := New(mem, func() string { return user }, nil)

	require.NoError(t, c.Add(ctx, item("anon", 1)))
	assert.Equal(t, "cart", c.Key())

	user = "u1"
	require.NoError(t, c.Load(ctx))
	assert.Equal(t, "cart_u1", c.Key())
	assert.Empty(t, c.Items())
	require.NoError(t, c.Add(ctx, item("mine", 1)))

	user = "u2"
	require.NoError(t, c.Load(ctx))
	assert.Empty(t, c.Items())

	user = "u1"
	require.NoError(t, c.Load(ctx))
	require.Len(t, c.Items(), 1)
	assert.Equal(t, "mine", c.Items()[0].Product.ID)
}

func TestCartCorruptValueLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Set(ctx, "cart", "not json"))

	c := New(mem, nil, nil)
	require.NoError(t, c.Load(ctx))
	assert.Empty(t, c.Items())
}

func TestCartStorageFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Memory: storage.NewMemory()}
	c := New(fs, nil, nil)
	require.NoError(t, c.Add(ctx, item("a", 1)))

	fs.failSet = true
	require.Error(t, c.Add(ctx, item("a", 1)))
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestWishlist(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	w := NewWishlist(mem, nil, nil)

	require.NoError(t, w.Add(ctx, item("a", 1)))
	writes := mem.Writes()
	require.NoError(t, w.Add(ctx, item("a", 1)))
	assert.Equal(t, writes, mem.Writes(), "duplicate add must not write")
	assert.Len(t, w.Items(), 1)
	assert.True(t, w.Contains("a"))
	assert.False(t, w.Contains("b"))

	require.NoError(t, w.Add(ctx, item("b", 1)))
	require.NoError(t, w.Remove(ctx, "a"))
	assert.False(t, w.Contains("a"))

	reloaded := NewWishlist(mem, nil, nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, w.Items(), reloaded.Items())

	require.NoError(t, w.Clear(ctx))
	assert.Empty(t, w.Items())
}

func TestWishlistLoadDeduplicates(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, storage.SaveJSON(ctx, mem, "wishlist_u1", []domain.Product{item("a", 1), item("a", 1), item("b", 2)}))

	w := NewWishlist(mem, func() string { return "u1" }, nil)
	require.NoError(t, w.Load(ctx))
	assert.Len(t, w.Items(), 2)
}
