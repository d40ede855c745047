package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/guard"
	"github.com/fitnesshub/web/internal/types"
	"github.com/fitnesshub/web/views/pages"
	"github.com/labstack/echo/v4"
)

// SessionRotator moves the request's browser session to a new id; *auth.Rotator implements it
type SessionRotator interface {
	Rotate(c echo.Context) (*auth.Entry, error)
}

// AuthHandler handles the login, register and logout forms
type AuthHandler struct {
	pages    *Pages
	sessions SessionRotator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(p *Pages, sessions SessionRotator) *AuthHandler {
	return &AuthHandler{pages: p, sessions: sessions}
}

// ShowLogin renders the sign-in form
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	return h.pages.Page(c, http.StatusOK, "Login", pages.Login(""))
}

// Login signs the browser session in and sends it to the dashboard. A failed
// attempt re-renders the form with the error banner.
func (h *AuthHandler) Login(c echo.Context) error {
	var creds types.Credentials
	if err := c.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	if err := creds.Validate(); err != nil {
		showValidation(c, err)
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Login", pages.Login(creds.Email))
	}

	entry, ok := auth.GetEntry(c)
	if !ok {
		return errNoSession
	}
	if !entry.Store.Login(c.Request().Context(), creds) {
		auth.RefreshState(c)
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Login", pages.Login(creds.Email))
	}

	slog.Info("login completed", "sid", entry.ID)
	return h.enter(c, guard.LoginPath)
}

// ShowRegister renders the sign-up form
func (h *AuthHandler) ShowRegister(c echo.Context) error {
	return h.pages.Page(c, http.StatusOK, "Register", pages.Register(types.Registration{}))
}

// Register creates an account and signs it in
func (h *AuthHandler) Register(c echo.Context) error {
	var reg types.Registration
	if err := c.Bind(&reg); err != nil {
		// an unknown role fails to bind; keep the rest of the form
		reg.Role = ""
		reg.Name = c.FormValue("name")
		reg.Email = c.FormValue("email")
		notify(c, "Please choose a valid account type.", true)
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Register", pages.Register(reg))
	}
	if err := reg.Validate(); err != nil {
		showValidation(c, err)
		reg.Password = ""
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Register", pages.Register(reg))
	}

	entry, ok := auth.GetEntry(c)
	if !ok {
		return errNoSession
	}
	if !entry.Store.Register(c.Request().Context(), reg) {
		auth.RefreshState(c)
		reg.Password = ""
		return h.pages.Page(c, http.StatusUnprocessableEntity, "Register", pages.Register(reg))
	}
	return h.enter(c, "/register")
}

// enter issues a new session id for the freshly signed-in browser and sends it
// to the dashboard. If the session cannot be moved it is signed out and the
// browser goes back to retry.
func (h *AuthHandler) enter(c echo.Context, retry string) error {
	if _, err := h.sessions.Rotate(c); err != nil {
		slog.Error("failed to rotate session", "error", err)
		notify(c, "Could not start your session. Please try again.", true)
		return seeOther(c, retry)
	}
	return seeOther(c, guard.DashboardPath)
}

// Logout drops the session token and returns to the login page
func (h *AuthHandler) Logout(c echo.Context) error {
	if entry, ok := auth.GetEntry(c); ok {
		entry.Store.Logout(c.Request().Context())
	}
	return seeOther(c, guard.LoginPath)
}

// showValidation surfaces a form validation failure as an error banner
func showValidation(c echo.Context, err error) {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		notify(c, ve.Message, true)
		return
	}
	notify(c, err.Error(), true)
}
