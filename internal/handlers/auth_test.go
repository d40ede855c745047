package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/types"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAuthTest returns a handler and the browser session it will sign in
func newAuthTest(t *testing.T, b *backend) (*AuthHandler, *TestSessions, *auth.Entry) {
	t.Helper()
	sessions := newSessions(t, b)
	entry := sessions.Open()
	t.Cleanup(entry.Notices.Close)
	return NewAuthHandler(testPages(), sessions.Rotator), sessions, entry
}

// signedInEntry returns the session the handler left on c, closing it with the test
func signedInEntry(t *testing.T, c echo.Context) *auth.Entry {
	t.Helper()
	entry, ok := auth.GetEntry(c)
	require.True(t, ok)
	t.Cleanup(entry.Notices.Close)
	return entry
}

type failingRotator struct{}

func (failingRotator) Rotate(echo.Context) (*auth.Entry, error) {
	return nil, errors.New("cookie store unavailable")
}

func TestLogin(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		b := newBackend(t)
		h, _, entry := newAuthTest(t, b)
		c, rec := newRequest(entry, http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}})

		require.NoError(t, h.Login(c))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="ada@example.com"`)
		assert.Equal(t, "Please enter your email and password.", currentNotice(t, entry).Text)
		assert.Zero(t, b.calls(http.MethodPost, "/api/auth/login"))
	})

	t.Run("rejected credentials keep the email", func(t *testing.T) {
		b := newBackend(t)
		b.on(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		h, _, entry := newAuthTest(t, b)
		c, rec := newRequest(entry, http.MethodPost, "/login", url.Values{"email": {"ada@example.com"}, "password": {"nope"}})

		require.NoError(t, h.Login(c))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Empty(t, rec.Header().Get("Location"))
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
		assert.False(t, auth.IsAuthenticated(c))
	})

	t.Run("success", func(t *testing.T) {
		b := newBackend(t)
		user := fakeUser(types.RoleUser)
		b.on(http.MethodPost, "/api/auth/login", http.StatusOK, types.AuthResult{Token: "tok", User: user})
		h, _, entry := newAuthTest(t, b)
		c, rec := newRequest(entry, http.MethodPost, "/login", url.Values{"email": {user.Email}, "password": {"secret"}})

		require.NoError(t, h.Login(c))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
		fresh := signedInEntry(t, c)
		st := fresh.Store.Snapshot()
		assert.True(t, st.IsAuthenticated())
		assert.Equal(t, user.ID, st.User.ID)
		assert.Equal(t, "Login successful!", currentNotice(t, fresh).Text)
	})

	t.Run("issues a new session id", func(t *testing.T) {
		b := newBackend(t)
		user := fakeUser(types.RoleUser)
		b.on(http.MethodPost, "/api/auth/login", http.StatusOK, types.AuthResult{Token: "tok", User: user})
		h, sessions, entry := newAuthTest(t, b)
		c, rec := newRequest(entry, http.MethodPost, "/login", url.Values{"email": {user.Email}, "password": {"secret"}})

		require.NoError(t, h.Login(c))

		fresh := signedInEntry(t, c)
		assert.NotEqual(t, entry.ID, fresh.ID)
		require.NotEmpty(t, rec.Result().Cookies(), "login must reissue the session cookie")
		assert.Equal(t, "fitnesshub_session", rec.Result().Cookies()[0].Name)

		// the id the browser held before login names nothing signed in
		assert.False(t, entry.Store.Snapshot().IsAuthenticated())
		old := sessions.Registry.Get(context.Background(), entry.ID)
		assert.NotSame(t, entry, old)
		assert.Empty(t, old.Store.Snapshot().Token)
		assert.Same(t, fresh, sessions.Registry.Get(context.Background(), fresh.ID))
	})

	t.Run("rotation failure", func(t *testing.T) {
		b := newBackend(t)
		user := fakeUser(types.RoleUser)
		b.on(http.MethodPost, "/api/auth/login", http.StatusOK, types.AuthResult{Token: "tok", User: user})
		entry := newSession(t, b, nil)
		c, rec := newRequest(entry, http.MethodPost, "/login", url.Values{"email": {user.Email}, "password": {"secret"}})

		require.NoError(t, NewAuthHandler(testPages(), failingRotator{}).Login(c))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		n := currentNotice(t, entry)
		assert.True(t, n.IsError)
		assert.Equal(t, "Could not start your session. Please try again.", n.Text)
	})
}

func TestRegister(t *testing.T) {
	form := func(role string) url.Values {
		return url.Values{
			"name":     {"Ada Lovelace"},
			"email":    {"ada@example.com"},
			"password": {"secret"},
			"role":     {role},
		}
	}

	t.Run("unknown role", func(t *testing.T) {
		b := newBackend(t)
		h, _, entry := newAuthTest(t, b)
		c, rec := newRequest(entry, http.MethodPost, "/register", form("admin"))

		require.NoError(t, h.Register(c))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), `value="Ada Lovelace"`)
		assert.Equal(t, "Please choose a valid account type.", currentNotice(t, entry).Text)
		assert.Zero(t, b.calls(http.MethodPost, "/api/auth/register"))
	})

	t.Run("trainer account", func(t *testing.T) {
		b := newBackend(t)
		b.handle(http.MethodPost, "/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, types.AuthResult{
				Token: "tok",
				User:  &types.User{ID: "u1", Name: "Ada Lovelace", Email: "ada@example.com", Role: types.RoleTrainer},
			})
		})
		h, _, entry := newAuthTest(t, b)
		c, rec := newRequest(entry, http.MethodPost, "/register", form("trainer"))

		require.NoError(t, h.Register(c))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

		var sent types.Registration
		b.received(t, http.MethodPost, "/api/auth/register", &sent)
		assert.Equal(t, types.RoleTrainer, sent.Role)
		fresh := signedInEntry(t, c)
		assert.NotEqual(t, entry.ID, fresh.ID)
		assert.Equal(t, types.RoleTrainer, fresh.Store.Snapshot().Role())
		assert.Equal(t, "Registration successful! You are now logged in.", currentNotice(t, fresh).Text)
	})
}

func TestLogout(t *testing.T) {
	b := newBackend(t)
	entry := newSession(t, b, fakeUser(types.RoleUser))
	c, rec := newRequest(entry, http.MethodPost, "/logout", url.Values{})

	require.NoError(t, NewAuthHandler(testPages(), nil).Logout(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, entry.Store.Snapshot().IsAuthenticated())
	assert.Equal(t, "Logged out successfully.", currentNotice(t, entry).Text)

	// logging out twice is harmless
	entry.Store.Logout(context.Background())
	assert.False(t, entry.Store.Snapshot().IsAuthenticated())
}
