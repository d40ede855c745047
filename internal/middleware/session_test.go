package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret-0123456789"

type harness struct {
	mgr    *session.Manager
	tokens *session.MemoryTokenStore
	client *api.Client
}

func newHarness(t *testing.T, backend http.HandlerFunc) *harness {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	client, err := api.New(srv.URL)
	require.NoError(t, err)
	return &harness{
		mgr:    session.NewManager(testSecret, session.Options{}),
		tokens: session.NewMemoryTokenStore(0),
		client: client,
	}
}

func (h *harness) registry() *auth.Registry {
	return auth.NewRegistry(h.client, h.tokens, auth.RegistryOptions{NoticeTTL: time.Hour})
}

// run sends one request through LoadSession and returns the state the handler saw
func (h *harness) run(t *testing.T, reg *auth.Registry, wait time.Duration, path string, cookies ...*http.Cookie) (auth.State, bool, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen auth.State
	var ok bool
	handler := LoadSession(h.mgr, reg, wait)(func(c echo.Context) error {
		seen, ok = auth.GetState(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return seen, ok, rec
}

func TestLoadSession_NewBrowser(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("anonymous session must not call the backend")
	})

	state, ok, rec := h.run(t, h.registry(), 50*time.Millisecond, "/")
	require.True(t, ok)
	assert.Equal(t, auth.PhaseUnauthenticated, state.Phase())
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestLoadSession_SkipsStatic(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})

	_, ok, rec := h.run(t, h.registry(), 0, "/public/css/app.css")
	assert.False(t, ok)
	assert.Empty(t, rec.Result().Cookies())
}

// restoredCookie issues a session cookie and persists a token for it, as if the
// browser had logged in before a server restart.
func (h *harness) restoredCookie(t *testing.T, token string) *http.Cookie {
	t.Helper()
	_, _, rec := h.run(t, h.registry(), 0, "/")
	cookie := rec.Result().Cookies()[0]

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sid, err := h.mgr.EnsureID(e.NewContext(req, httptest.NewRecorder()))
	require.NoError(t, err)
	require.NoError(t, h.tokens.Save(context.Background(), sid, token))
	return cookie
}

func TestLoadSession_RestoresWithinWait(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"user":{"_id":"u1","name":"Ada","email":"ada@example.com","role":"trainer"}}`))
	})
	cookie := h.restoredCookie(t, "tok")

	state, ok, _ := h.run(t, h.registry(), 2*time.Second, "/dashboard", cookie)
	require.True(t, ok)
	assert.Equal(t, auth.PhaseAuthenticated, state.Phase())
	assert.Equal(t, "u1", state.User.ID)
}

func TestLoadSession_SlowVerificationShowsLoading(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"user":{"_id":"u1","name":"Ada","email":"ada@example.com","role":"user"}}`))
	})
	defer close(release)
	cookie := h.restoredCookie(t, "tok")

	state, ok, _ := h.run(t, h.registry(), 20*time.Millisecond, "/dashboard", cookie)
	require.True(t, ok)
	assert.Equal(t, auth.PhaseLoading, state.Phase())
}
