package auth

import (
	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/flash"
	"github.com/fitnesshub/web/internal/types"
	"github.com/labstack/echo/v4"
)

// Context keys for per-request session data
const (
	EntryKey = "session_entry"
	StateKey = "session_state"
)

// SetEntry stores the session entry and a snapshot of its state on the request
func SetEntry(c echo.Context, entry *Entry) {
	c.Set(EntryKey, entry)
	c.Set(StateKey, entry.Store.Snapshot())
}

// GetEntry retrieves the session entry from context
func GetEntry(c echo.Context) (*Entry, bool) {
	entry, ok := c.Get(EntryKey).(*Entry)
	return entry, ok && entry != nil
}

// GetState retrieves the session state captured for this request
func GetState(c echo.Context) (State, bool) {
	st, ok := c.Get(StateKey).(State)
	return st, ok
}

// RefreshState re-captures the state after the handler changed the session
func RefreshState(c echo.Context) State {
	entry, ok := GetEntry(c)
	if !ok {
		return State{}
	}
	st := entry.Store.Snapshot()
	c.Set(StateKey, st)
	return st
}

// GetUser returns the signed-in user
func GetUser(c echo.Context) (*types.User, bool) {
	st, ok := GetState(c)
	if !ok || !st.IsAuthenticated() {
		return nil, false
	}
	return st.User, true
}

// IsAuthenticated checks if the current request is authenticated
func IsAuthenticated(c echo.Context) bool {
	st, ok := GetState(c)
	return ok && st.IsAuthenticated()
}

// GetUserID returns the id of the signed-in user
func GetUserID(c echo.Context) (string, bool) {
	user, ok := GetUser(c)
	if !ok {
		return "", false
	}
	return user.ID, true
}

// Client returns the backend client bound to this browser session
func Client(c echo.Context) (*api.Client, bool) {
	entry, ok := GetEntry(c)
	if !ok {
		return nil, false
	}
	return entry.API, true
}

// Notices returns the message channel of this browser session
func Notices(c echo.Context) (*flash.Channel, bool) {
	entry, ok := GetEntry(c)
	if !ok {
		return nil, false
	}
	return entry.Notices, true
}
