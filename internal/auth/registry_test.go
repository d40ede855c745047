package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/session"
	"github.com/fitnesshub/web/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, handler http.HandlerFunc) (*Registry, *session.MemoryTokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	tokens := session.NewMemoryTokenStore(0)
	return NewRegistry(client, tokens, RegistryOptions{NoticeTTL: time.Hour}), tokens
}

func TestRegistry_GetReusesEntry(t *testing.T) {
	reg, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	a := reg.Get(ctx, "sid-a")
	again := reg.Get(ctx, "sid-a")
	b := reg.Get(ctx, "sid-b")

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.NotSame(t, a.Notices, b.Notices)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_RestoresPersistedToken(t *testing.T) {
	var gotAuth string
	reg, tokens := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"user":{"_id":"u1","name":"Ada","email":"ada@example.com","role":"user"}}`))
	})
	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "sid-a", "persisted-token"))

	entry := reg.Get(ctx, "sid-a")
	assert.Equal(t, PhaseLoading, entry.Store.Snapshot().Phase())

	<-entry.Store.Reconcile(ctx)

	st := entry.Store.Snapshot()
	assert.Equal(t, PhaseAuthenticated, st.Phase())
	assert.Equal(t, "u1", st.User.ID)
	assert.Equal(t, "Bearer persisted-token", gotAuth)
}

func TestRegistry_RejectedTokenIsCleared(t *testing.T) {
	reg, tokens := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token is not valid"}`))
	})
	ctx := context.Background()
	require.NoError(t, tokens.Save(ctx, "sid-a", "stale"))

	entry := reg.Get(ctx, "sid-a")
	<-entry.Store.Reconcile(ctx)

	assert.False(t, entry.Store.Snapshot().IsAuthenticated())
	_, err := tokens.Load(ctx, "sid-a")
	assert.ErrorIs(t, err, session.ErrTokenNotFound)
}

func TestRegistry_Evict(t *testing.T) {
	reg, _ := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	old := reg.Get(ctx, "old")
	old.Notices.Show("pending", false)

	now = now.Add(20 * time.Minute)
	reg.Get(ctx, "fresh")

	now = now.Add(15 * time.Minute)
	evicted := reg.Evict(30 * time.Minute)

	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, reg.Len())
	_, ok := old.Notices.Current()
	assert.False(t, ok, "evicted channel should be closed")

	// a returning browser gets a fresh entry
	assert.NotSame(t, old, reg.Get(ctx, "old"))
}

func TestRegistry_Rotate(t *testing.T) {
	reg, tokens := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"tok","user":{"_id":"u1","name":"Ada","email":"ada@example.com","role":"user"}}`))
	})
	ctx := context.Background()

	old := reg.Get(ctx, "planted")
	require.True(t, old.Store.Login(ctx, types.Credentials{Email: "ada@example.com", Password: "secret"}))

	fresh, err := reg.Rotate(ctx, old, "issued")
	require.NoError(t, err)

	assert.Equal(t, "issued", fresh.ID)
	st := fresh.Store.Snapshot()
	assert.Equal(t, PhaseAuthenticated, st.Phase())
	assert.Equal(t, "u1", st.User.ID)
	n, ok := fresh.Notices.Current()
	require.True(t, ok)
	assert.Equal(t, "Login successful!", n.Text)

	token, err := tokens.Load(ctx, "issued")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	_, err = tokens.Load(ctx, "planted")
	assert.ErrorIs(t, err, session.ErrTokenNotFound)

	// the old id is forgotten and comes back anonymous
	assert.False(t, old.Store.Snapshot().IsAuthenticated())
	_, ok = old.Notices.Current()
	assert.False(t, ok, "old channel should be closed")
	again := reg.Get(ctx, "planted")
	assert.NotSame(t, old, again)
	assert.Equal(t, PhaseUnauthenticated, again.Store.Snapshot().Phase())
	assert.Same(t, fresh, reg.Get(ctx, "issued"))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_RotateAnonymous(t *testing.T) {
	reg, tokens := newTestRegistry(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	old := reg.Get(ctx, "a")
	fresh, err := reg.Rotate(ctx, old, "b")
	require.NoError(t, err)

	assert.Equal(t, PhaseUnauthenticated, fresh.Store.Snapshot().Phase())
	_, err = tokens.Load(ctx, "b")
	assert.ErrorIs(t, err, session.ErrTokenNotFound)
	assert.Equal(t, 1, reg.Len())
}
