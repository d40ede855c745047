package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
)

const (
	cookieName = "fitnesshub_session"
	idKey      = "sid"
)

// Options tunes the session cookie
type Options struct {
	MaxAge int  // seconds
	Secure bool // set in production behind HTTPS
}

// Manager hands every browser an opaque session id carried in a signed cookie.
// Nothing but the id lives in the cookie; auth state stays server side.
type Manager struct {
	store sessions.Store
}

// NewManager creates a new session manager
func NewManager(secret string, opts Options) *Manager {
	store := sessions.NewCookieStore([]byte(secret))

	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 86400 * 30
	}
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{store: store}
}

// EnsureID returns the request's session id, issuing and saving a new one when
// the browser has none (or sent a cookie we cannot verify).
func (m *Manager) EnsureID(c echo.Context) (string, error) {
	// A cookie signed with an old secret yields an error plus a fresh session
	sess, err := m.store.Get(c.Request(), cookieName)
	if sess == nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}

	if sid, ok := sess.Values[idKey].(string); ok && sid != "" && err == nil {
		return sid, nil
	}

	return m.issue(c, sess)
}

// Rotate replaces the request's session id with a fresh one and reissues the
// cookie. The login and register handlers call it once the session gains a user.
func (m *Manager) Rotate(c echo.Context) (string, error) {
	sess, err := m.store.Get(c.Request(), cookieName)
	if sess == nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	return m.issue(c, sess)
}

func (m *Manager) issue(c echo.Context, sess *sessions.Session) (string, error) {
	sid := ulid.Make().String()
	sess.Values[idKey] = sid
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return sid, nil
}
