package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxeshop/storefront/internal/domain"
)

func TestScopedKeys(t *testing.T) {
	assert.Equal(t, "cart", CartKey(""))
	assert.Equal(t, "cart_u1", CartKey("u1"))
	assert.Equal(t, "wishlist", WishlistKey(""))
	assert.Equal(t, "wishlist_u1", WishlistKey("u1"))
}

func TestJSONRoundTripAndCorruptValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	var missing []string
	ok, err := LoadJSON(ctx, s, "absent", &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SaveJSON(ctx, s, "k", []string{"a", "b"}))
	var got []string
	ok, err = LoadJSON(ctx, s, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	require.NoError(t, s.Set(ctx, "bad", "{not json"))
	_, err = LoadJSON(ctx, s, "bad", &got)
	assert.ErrorIs(t, err, ErrCorrupt)
}

type fakeBackend struct {
	mu      sync.Mutex
	entries map[string]*domain.StorageEntry
}

func (f *fakeBackend) Get(_ context.Context, clientID, key string) (*domain.StorageEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[clientID+"/"+key], nil
}

func (f *fakeBackend) Put(_ context.Context, e *domain.StorageEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[e.ClientID+"/"+e.Key] = e
	return nil
}

func (f *fakeBackend) Delete(_ context.Context, clientID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, clientID+"/"+key)
	return nil
}

func TestPartitionIsolatesClients(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{entries: map[string]*domain.StorageEntry{}}
	a := Partition(backend, "device-a")
	b := Partition(backend, "device-b")

	require.NoError(t, a.Set(ctx, KeyUser, `{"id":"1"}`))

	v, ok, err := a.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"id":"1"}`, v)

	_, ok, err = b.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.Remove(ctx, KeyUser))
	_, ok, _ = a.Get(ctx, KeyUser)
	assert.False(t, ok)
}
