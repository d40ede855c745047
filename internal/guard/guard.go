// Package guard gates page handlers behind authentication and role checks.
package guard

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/types"
	"github.com/labstack/echo/v4"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Decision is what the guard does with a request
type Decision int

const (
	Allow Decision = iota
	ShowLoading
	RedirectLogin
	RedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case ShowLoading:
		return "show_loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectDashboard:
		return "redirect_dashboard"
	default:
		return "allow"
	}
}

// Decide maps a session state to a guard decision. Loading always wins so no
// redirect happens before reconciliation settles.
func Decide(state auth.State, required ...types.Role) Decision {
	switch state.Phase() {
	case auth.PhaseLoading:
		return ShowLoading
	case auth.PhaseUnauthenticated:
		return RedirectLogin
	}
	if !Authorized(state.Role(), required) {
		return RedirectDashboard
	}
	return Allow
}

// Authorized reports whether role satisfies required; an empty list admits any role
func Authorized(role types.Role, required []types.Role) bool {
	return len(required) == 0 || slices.Contains(required, role)
}

// Guard turns decisions into echo middleware
type Guard struct {
	// Loading renders the placeholder shown while a session is being verified
	Loading echo.HandlerFunc
	logger  *slog.Logger
}

// New creates a guard. loading renders the loading page.
func New(loading echo.HandlerFunc, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{Loading: loading, logger: logger}
}

// Require admits authenticated sessions whose role is in roles (any role when
// roles is empty). It is evaluated on every request.
func (g *Guard) Require(roles ...types.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state, _ := auth.GetState(c)
			decision := Decide(state, roles...)

			switch decision {
			case ShowLoading:
				return g.Loading(c)
			case RedirectLogin:
				g.logger.Debug("guard redirect", "path", c.Request().URL.Path, "decision", decision)
				return c.Redirect(http.StatusFound, LoginPath)
			case RedirectDashboard:
				g.logger.Debug("guard redirect", "path", c.Request().URL.Path, "decision", decision, "role", state.Role())
				return c.Redirect(http.StatusFound, DashboardPath)
			}
			return next(c)
		}
	}
}

// GuestOnly sends signed-in users from the login and register pages to the dashboard
func (g *Guard) GuestOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state, _ := auth.GetState(c)
			if state.Phase() == auth.PhaseAuthenticated {
				return c.Redirect(http.StatusFound, DashboardPath)
			}
			return next(c)
		}
	}
}
