package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fitnesshub/web/internal/session"
	"github.com/fitnesshub/web/internal/types"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse"

// fakeBackend is an in-process stand-in for the REST API
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	accounts map[string]*types.User // by email
	tokens   map[string]*types.User // by issued token
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		t:        t,
		accounts: map[string]*types.User{},
		tokens:   map[string]*types.User{},
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) addUser(name, email string, role types.Role) *types.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := &types.User{ID: "u-" + strings.Split(email, "@")[0], Name: name, Email: email, Role: role}
	b.accounts[email] = u
	return u
}

// revoke makes every issued token invalid, as after a backend secret rotation
func (b *fakeBackend) revoke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = map[string]*types.User{}
}

func (b *fakeBackend) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	switch r.Method + " " + r.URL.Path {
	case "POST /api/auth/login":
		var creds types.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		b.mu.Lock()
		u, ok := b.accounts[creds.Email]
		b.mu.Unlock()
		if !ok || creds.Password != testPassword {
			b.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		token := "tok-" + u.ID + "-" + time.Now().Format("150405.000000000")
		b.mu.Lock()
		b.tokens[token] = u
		b.mu.Unlock()
		b.writeJSON(w, http.StatusOK, types.AuthResult{Token: token, User: u})

	case "GET /api/auth/me":
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		u, ok := b.tokens[token]
		b.mu.Unlock()
		if !ok {
			b.writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token is not valid"})
			return
		}
		b.writeJSON(w, http.StatusOK, map[string]any{"user": u})

	case "GET /api/trainers":
		b.writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})

	case "GET /api/classes":
		b.writeJSON(w, http.StatusOK, []any{})

	default:
		b.writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
	}
}

func testConfig(apiURL string) *Config {
	cfg := &Config{
		Environment:   "test",
		Port:          "8080",
		BaseURL:       "http://localhost:8080",
		TokenStore:    TokenStoreMemory,
		ReconcileWait: 2 * time.Second,
		NoticeTTL:     5 * time.Second,
	}
	cfg.API.BaseURL = apiURL + "/api"
	cfg.API.Timeout = 5 * time.Second
	cfg.Session.Secret = "test-session-secret"
	return cfg
}

// setupTestEcho creates an Echo instance with routes registered against backend
func setupTestEcho(t *testing.T, backend *fakeBackend, tokens session.TokenStore) (*echo.Echo, *Service) {
	t.Helper()

	svc, err := New(testConfig(backend.server.URL), tokens)
	require.NoError(t, err)

	e := echo.New()
	svc.RegisterRoutes(e)
	return e, svc
}

// serve runs one request through e, attaching cookies
func serve(e *echo.Echo, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// sessionCookie returns the session cookie set by rec. A rotated session sets
// the cookie twice; the browser keeps the last one.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var last *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "fitnesshub_session" {
			last = c
		}
	}
	if last == nil {
		t.Fatal("response set no session cookie")
	}
	return last
}

// sidOf decodes the browser session id carried by cookie
func sidOf(t *testing.T, svc *Service, cookie *http.Cookie) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	sid, err := svc.sessions.EnsureID(echo.New().NewContext(req, rec))
	require.NoError(t, err)
	require.Empty(t, rec.Result().Cookies(), "cookie does not carry a valid session")
	return sid
}

// login signs email in and returns the session cookie
func login(t *testing.T, e *echo.Echo, email string) *http.Cookie {
	t.Helper()
	rec := serve(e, http.MethodPost, "/login", url.Values{"email": {email}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	return sessionCookie(t, rec)
}
