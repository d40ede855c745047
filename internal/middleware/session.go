package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/session"
	"github.com/labstack/echo/v4"
)

// paths that never need a browser session
var sessionlessPrefixes = []string{"/public/", "/health"}

// LoadSession is middleware that attaches the browser session to the Echo context.
// A session restored with a persisted token is verified first; the request waits up
// to wait for that, then proceeds with whatever state the session is in (the route
// guard shows the loading page while verification is still running).
func LoadSession(mgr *session.Manager, registry *auth.Registry, wait time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if isSessionless(path) {
				return next(c)
			}

			sid, err := mgr.EnsureID(c)
			if err != nil {
				slog.Error("failed to establish browser session", "path", path, "error", err)
				return next(c)
			}

			ctx := c.Request().Context()
			entry := registry.Get(ctx, sid)
			done := entry.Store.Reconcile(ctx)

			if wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-done:
				case <-timer.C:
					slog.Debug("session verification still running", "path", path, "sid", sid)
				case <-ctx.Done():
				}
				timer.Stop()
			}

			auth.SetEntry(c, entry)
			return next(c)
		}
	}
}

func isSessionless(path string) bool {
	for _, prefix := range sessionlessPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
