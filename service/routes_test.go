package service

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/fitnesshub/web/internal/session"
	"github.com/fitnesshub/web/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTier1_CriticalPublicRoutes tests that public routes exist and are accessible
func TestTier1_CriticalPublicRoutes(t *testing.T) {
	e, _ := setupTestEcho(t, newFakeBackend(t), session.NewMemoryTokenStore(0))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"Home page", "GET", "/", http.StatusOK},
		{"Health check", "GET", "/health", http.StatusOK},
		{"Login page", "GET", "/login", http.StatusOK},
		{"Register page", "GET", "/register", http.StatusOK},
		{"Trainer listing", "GET", "/trainers", http.StatusOK},
		{"Unknown page", "GET", "/no-such-page", http.StatusNotFound},
		{"Unknown nested page", "GET", "/classes/abc/def", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.path, nil)
			assert.Equal(t, tt.wantStatus, rec.Code,
				"Route %s %s should return %d, got %d",
				tt.method, tt.path, tt.wantStatus, rec.Code)
		})
	}
}

func TestNotFoundPage(t *testing.T) {
	e, _ := setupTestEcho(t, newFakeBackend(t), session.NewMemoryTokenStore(0))

	rec := serve(e, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page Not Found")
}

// TestTier2_AuthProtectedRoutes tests that protected routes send guests to the login page
func TestTier2_AuthProtectedRoutes(t *testing.T) {
	e, _ := setupTestEcho(t, newFakeBackend(t), session.NewMemoryTokenStore(0))

	paths := []string{
		"/dashboard",
		"/classes",
		"/my-bookings",
		"/add-class",
		"/my-classes",
		"/trainer/edit-profile",
		"/feedback",
		"/feedback/history",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := serve(e, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
		})
	}
}

func TestLogin_ValidCredentials(t *testing.T) {
	backend := newFakeBackend(t)
	backend.addUser("Ada Lovelace", "ada@example.com", types.RoleUser)
	e, _ := setupTestEcho(t, backend, session.NewMemoryTokenStore(0))

	rec := serve(e, http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = serve(e, http.MethodGet, "/dashboard", nil, sessionCookie(t, rec))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Login successful!")
	assert.Contains(t, body, "Welcome, Ada Lovelace!")
}

func TestLogin_RotatesSessionID(t *testing.T) {
	backend := newFakeBackend(t)
	backend.addUser("Ada Lovelace", "ada@example.com", types.RoleUser)
	tokens := session.NewMemoryTokenStore(0)
	e, svc := setupTestEcho(t, backend, tokens)

	// a session id handed out before sign-in, e.g. planted by another party
	rec := serve(e, http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	planted := sessionCookie(t, rec)

	rec = serve(e, http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {testPassword}}, planted)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	issued := sessionCookie(t, rec)

	oldSID, newSID := sidOf(t, svc, planted), sidOf(t, svc, issued)
	assert.NotEqual(t, oldSID, newSID)

	_, err := tokens.Load(context.Background(), oldSID)
	assert.ErrorIs(t, err, session.ErrTokenNotFound)
	_, err = tokens.Load(context.Background(), newSID)
	assert.NoError(t, err)

	rec = serve(e, http.MethodGet, "/dashboard", nil, planted)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = serve(e, http.MethodGet, "/dashboard", nil, issued)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	backend := newFakeBackend(t)
	backend.addUser("Ada Lovelace", "ada@example.com", types.RoleUser)
	e, _ := setupTestEcho(t, backend, session.NewMemoryTokenStore(0))

	rec := serve(e, http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))
	body := rec.Body.String()
	assert.Contains(t, body, "Invalid credentials")
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, `value="ada@example.com"`)

	rec = serve(e, http.MethodGet, "/dashboard", nil, sessionCookie(t, rec))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestLogin_GuestOnly(t *testing.T) {
	backend := newFakeBackend(t)
	backend.addUser("Ada Lovelace", "ada@example.com", types.RoleUser)
	e, _ := setupTestEcho(t, backend, session.NewMemoryTokenStore(0))
	cookie := login(t, e, "ada@example.com")

	for _, path := range []string{"/login", "/register"} {
		rec := serve(e, http.MethodGet, path, nil, cookie)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"), path)
	}
}

func TestLogout_ClearsPersistedToken(t *testing.T) {
	backend := newFakeBackend(t)
	backend.addUser("Ada Lovelace", "ada@example.com", types.RoleUser)
	tokens := session.NewMemoryTokenStore(0)
	e, svc := setupTestEcho(t, backend, tokens)

	cookie := login(t, e, "ada@example.com")
	sid := sidOf(t, svc, cookie)
	_, err := tokens.Load(context.Background(), sid)
	require.NoError(t, err)

	rec := serve(e, http.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	_, err = tokens.Load(context.Background(), sid)
	assert.ErrorIs(t, err, session.ErrTokenNotFound)

	rec = serve(e, http.MethodGet, "/login", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out successfully.")
}

func TestRestart_RestoresSession(t *testing.T) {
	backend := newFakeBackend(t)
	backend.addUser("Grace Hopper", "grace@example.com", types.RoleTrainer)
	tokens := session.NewMemoryTokenStore(0)
	e, _ := setupTestEcho(t, backend, tokens)
	cookie := login(t, e, "grace@example.com")

	// a fresh service has no in-memory sessions, only the persisted token
	restarted, _ := setupTestEcho(t, backend, tokens)
	rec := serve(restarted, http.MethodGet, "/add-class", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome back!")
	assert.Contains(t, rec.Body.String(), "Add New Class")
}

func TestRestart_InvalidTokenIsCleared(t *testing.T) {
	backend := newFakeBackend(t)
	backend.addUser("Grace Hopper", "grace@example.com", types.RoleTrainer)
	tokens := session.NewMemoryTokenStore(0)
	e, svc := setupTestEcho(t, backend, tokens)
	cookie := login(t, e, "grace@example.com")
	sid := sidOf(t, svc, cookie)

	backend.revoke()
	restarted, _ := setupTestEcho(t, backend, tokens)
	rec := serve(restarted, http.MethodGet, "/dashboard", nil, cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	_, err := tokens.Load(context.Background(), sid)
	assert.ErrorIs(t, err, session.ErrTokenNotFound)

	rec = serve(restarted, http.MethodGet, "/login", nil, cookie)
	assert.Contains(t, rec.Body.String(), "Session expired or invalid. Please log in again.")
}

func TestRoleGating(t *testing.T) {
	backend := newFakeBackend(t)
	backend.addUser("Ada Lovelace", "ada@example.com", types.RoleUser)
	backend.addUser("Grace Hopper", "grace@example.com", types.RoleTrainer)
	e, _ := setupTestEcho(t, backend, session.NewMemoryTokenStore(0))
	member := login(t, e, "ada@example.com")
	trainer := login(t, e, "grace@example.com")

	tests := []struct {
		name       string
		path       string
		cookie     *http.Cookie
		wantStatus int
		wantLoc    string
	}{
		{"member add class", "/add-class", member, http.StatusFound, "/dashboard"},
		{"member edit profile", "/trainer/edit-profile", member, http.StatusFound, "/dashboard"},
		{"trainer add class", "/add-class", trainer, http.StatusOK, ""},
		{"trainer edit profile", "/trainer/edit-profile", trainer, http.StatusOK, ""},
		{"trainer my bookings", "/my-bookings", trainer, http.StatusFound, "/dashboard"},
		{"member classes", "/classes", member, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, http.MethodGet, tt.path, nil, tt.cookie)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
		})
	}
}

func TestHealth_SkipsSession(t *testing.T) {
	e, _ := setupTestEcho(t, newFakeBackend(t), session.NewMemoryTokenStore(0))

	rec := serve(e, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Contains(t, rec.Body.String(), `"token_store":"memory"`)
}
