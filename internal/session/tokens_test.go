package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore(0)

	_, err := store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, store.Save(ctx, "sid-1", "tok-a"))
	token, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-a", token)

	require.NoError(t, store.Save(ctx, "sid-1", "tok-b"))
	token, _ = store.Load(ctx, "sid-1")
	assert.Equal(t, "tok-b", token)

	require.NoError(t, store.Delete(ctx, "sid-1"))
	_, err = store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	assert.Error(t, store.Save(ctx, "", "tok"))
}

func TestMemoryTokenStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryTokenStore(time.Hour)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "sid", "tok"))

	now = now.Add(59 * time.Minute)
	_, err := store.Load(ctx, "sid")
	assert.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Load(ctx, "sid")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestBind(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore(0)
	bound := Bind(store, "sid-1")

	token, err := bound.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save(ctx, "sid-1", "tok"))
	token, err = bound.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	// another session's token is never visible
	token, _ = Bind(store, "sid-2").Token(ctx)
	assert.Empty(t, token)
}
