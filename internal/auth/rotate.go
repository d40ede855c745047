package auth

import (
	"errors"

	"github.com/fitnesshub/web/internal/session"
	"github.com/labstack/echo/v4"
)

// ErrNoSession is returned when a request reaches Rotate without a session entry
var ErrNoSession = errors.New("request has no browser session")

// Rotator gives a browser session a new id: a fresh cookie plus the registry
// entry re-keyed to match.
type Rotator struct {
	sessions *session.Manager
	registry *Registry
}

// NewRotator creates a rotator over the cookie manager and registry used by LoadSession
func NewRotator(sessions *session.Manager, registry *Registry) *Rotator {
	return &Rotator{sessions: sessions, registry: registry}
}

// Rotate moves the request's session to a new id and attaches the new entry to
// c. On failure the session is signed out rather than left under its old id.
func (r *Rotator) Rotate(c echo.Context) (*Entry, error) {
	old, ok := GetEntry(c)
	if !ok {
		return nil, ErrNoSession
	}

	sid, err := r.sessions.Rotate(c)
	if err != nil {
		old.Store.reset(c.Request().Context())
		RefreshState(c)
		return nil, err
	}
	entry, err := r.registry.Rotate(c.Request().Context(), old, sid)
	if err != nil {
		RefreshState(c)
		return nil, err
	}

	SetEntry(c, entry)
	return entry, nil
}
