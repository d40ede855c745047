package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/flash"
	"github.com/fitnesshub/web/internal/types"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testSiteURL = "http://localhost:8080"

// backend is a scripted stand-in for the REST API
type backend struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	bodies map[string][]byte
	hits   map[string]int
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{
		routes: make(map[string]http.HandlerFunc),
		bodies: make(map[string][]byte),
		hits:   make(map[string]int),
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

func (b *backend) handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

// on answers method+path with a fixed JSON document
func (b *backend) on(method, path string, status int, body any) {
	b.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	raw, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.bodies[key] = raw
	b.hits[key]++
	h, ok := b.routes[key]
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
		return
	}
	h(w, r)
}

// received decodes the last body sent to method+path into v
func (b *backend) received(t *testing.T, method, path string, v any) {
	t.Helper()
	b.mu.Lock()
	raw, ok := b.bodies[method+" "+path]
	b.mu.Unlock()
	require.True(t, ok, "no request to %s %s", method, path)
	require.NoError(t, json.Unmarshal(raw, v))
}

func (b *backend) rawBody(method, path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.bodies[method+" "+path])
}

func (b *backend) calls(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[method+" "+path]
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func fakeUser(role types.Role) *types.User {
	return &types.User{
		ID:    gofakeit.UUID(),
		Name:  gofakeit.Name(),
		Email: gofakeit.Email(),
		Role:  role,
	}
}

// newSessions creates the session registry of a test against b
func newSessions(t *testing.T, b *backend) *TestSessions {
	t.Helper()
	sessions, err := NewTestSessions(b.URL + "/api")
	require.NoError(t, err)
	return sessions
}

// newSession opens a browser session against b, signed in as user when non-nil
func newSession(t *testing.T, b *backend, user *types.User) *auth.Entry {
	t.Helper()
	entry := newSessions(t, b).Open()
	if user != nil {
		b.on(http.MethodPost, "/api/auth/login", http.StatusOK, types.AuthResult{Token: "token-" + user.ID, User: user})
		ok := entry.Store.Login(context.Background(), types.Credentials{Email: user.Email, Password: "secret"})
		require.True(t, ok)
		entry.Notices.Clear()
	}
	t.Cleanup(entry.Notices.Close)
	return entry
}

// newRequest builds a handler context bound to entry. params fill the :id path parameter.
func newRequest(entry *auth.Entry, method, target string, form url.Values, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	var body interface{}
	if form != nil {
		body = form
	}
	c, rec := NewTestContext(method, target, body)
	if len(params) > 0 {
		c.SetParamNames("id")
		c.SetParamValues(params...)
	}
	if entry != nil {
		SetTestSession(c, entry)
	}
	return c, rec
}

func currentNotice(t *testing.T, entry *auth.Entry) flash.Notification {
	t.Helper()
	n, ok := entry.Notices.Current()
	require.True(t, ok, "expected a notice")
	return n
}

func testPages() *Pages {
	return NewPages(testSiteURL, nil)
}
