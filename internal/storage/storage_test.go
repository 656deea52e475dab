package storage

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tausif1337/remart/internal/domain"
)

func newTestKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisKV(client), mr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestRedisKVRoundTrip(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v"))

	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestRedisKVGetAbsentKey(t *testing.T) {
	kv, _ := newTestKV(t)

	_, err := kv.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisKVDel(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v"))
	require.NoError(t, kv.Del(ctx, "k"))

	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSnapshotRoundTrip(t *testing.T) {
	kv, _ := newTestKV(t)
	store := NewSnapshotStore[domain.CartItem](kv, testLogger())
	ctx := context.Background()

	items := []domain.CartItem{
		{Product: domain.Product{ID: "p1", Name: "Headphones", Price: 199.99, Category: "Electronics"}, Quantity: 2},
		{Product: domain.Product{ID: "p2", Name: "Keyboard", Price: 89.99}, Quantity: 1},
	}

	store.Save(ctx, NamespaceCart, items)
	loaded := store.Load(ctx, NamespaceCart)

	assert.Equal(t, items, loaded)
}

func TestSnapshotLoadAbsentNamespace(t *testing.T) {
	kv, _ := newTestKV(t)
	store := NewSnapshotStore[domain.CartItem](kv, testLogger())

	loaded := store.Load(context.Background(), NamespaceCart)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestSnapshotLoadCorruptPayload(t *testing.T) {
	kv, mr := newTestKV(t)
	store := NewSnapshotStore[domain.CartItem](kv, testLogger())

	mr.Set(NamespaceCart, "{not json")

	var loaded []domain.CartItem
	assert.NotPanics(t, func() {
		loaded = store.Load(context.Background(), NamespaceCart)
	})
	assert.Empty(t, loaded)
}

func TestSnapshotLoadLegacyBareArray(t *testing.T) {
	kv, mr := newTestKV(t)
	store := NewSnapshotStore[domain.CartItem](kv, testLogger())

	// Pre-versioned snapshots were a bare JSON array of items.
	legacy, err := json.Marshal([]domain.CartItem{
		{Product: domain.Product{ID: "p1", Price: 10}, Quantity: 3},
	})
	require.NoError(t, err)
	mr.Set(NamespaceCart, string(legacy))

	loaded := store.Load(context.Background(), NamespaceCart)
	require.Len(t, loaded, 1)
	assert.Equal(t, "p1", loaded[0].ID)
	assert.Equal(t, 3, loaded[0].Quantity)
}

func TestSnapshotLoadUnsupportedVersion(t *testing.T) {
	kv, mr := newTestKV(t)
	store := NewSnapshotStore[domain.CartItem](kv, testLogger())

	mr.Set(NamespaceCart, `{"version":99,"items":[{"id":"p1","quantity":1}]}`)

	loaded := store.Load(context.Background(), NamespaceCart)
	assert.Empty(t, loaded)
}

func TestSnapshotSaveNeverFails(t *testing.T) {
	kv, mr := newTestKV(t)
	store := NewSnapshotStore[domain.CartItem](kv, testLogger())

	// Take the backend down; Save must not panic or surface the failure.
	mr.Close()

	assert.NotPanics(t, func() {
		store.Save(context.Background(), NamespaceCart, []domain.CartItem{
			{Product: domain.Product{ID: "p1"}, Quantity: 1},
		})
	})
}

func TestSnapshotSaveNilItems(t *testing.T) {
	kv, _ := newTestKV(t)
	store := NewSnapshotStore[domain.Product](kv, testLogger())
	ctx := context.Background()

	store.Save(ctx, NamespaceWishlist, nil)

	loaded := store.Load(ctx, NamespaceWishlist)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestSnapshotClear(t *testing.T) {
	kv, _ := newTestKV(t)
	store := NewSnapshotStore[domain.Product](kv, testLogger())
	ctx := context.Background()

	store.Save(ctx, NamespaceWishlist, []domain.Product{{ID: "p1"}})
	store.Clear(ctx, NamespaceWishlist)

	assert.Empty(t, store.Load(ctx, NamespaceWishlist))
}
