package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore(10, time.Minute)
	ctx := context.Background()

	value := []byte("payload")
	require.NoError(t, store.Set(ctx, "sess", "cart", value))
	value[0] = 'X'

	got, err := store.Get(ctx, "sess", "cart")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestMemoryStore_Missing(t *testing.T) {
	store := NewMemoryStore(10, time.Minute)

	_, err := store.Get(context.Background(), "sess", "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_EvictsOldest(t *testing.T) {
	store := NewMemoryStore(2, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "cart", []byte("1")))
	require.NoError(t, store.Set(ctx, "b", "cart", []byte("2")))
	require.NoError(t, store.Set(ctx, "c", "cart", []byte("3")))

	assert.Equal(t, 2, store.Len())
	_, err := store.Get(ctx, "a", "cart")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expires(t *testing.T) {
	store := NewMemoryStore(10, 20*time.Millisecond)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "a", "cart", []byte("1")))

	require.Eventually(t, func() bool {
		_, err := store.Get(ctx, "a", "cart")
		return err != nil
	}, time.Second, 10*time.Millisecond)
}
