package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/views/layout"
	"github.com/fitnesshub/web/views/pages"
	"github.com/labstack/echo/v4"
)

// loadingRefreshSeconds is how often the loading page polls for the verified session
const loadingRefreshSeconds = 1

var errNoSession = echo.NewHTTPError(http.StatusServiceUnavailable, "browser session unavailable")

// Pages renders full pages inside the site layout
type Pages struct {
	siteURL string
	logger  *slog.Logger
}

// NewPages creates the page renderer. siteURL is used for canonical links.
func NewPages(siteURL string, logger *slog.Logger) *Pages {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pages{siteURL: siteURL, logger: logger}
}

func (p *Pages) layoutFor(c echo.Context, meta layout.PageMeta) layout.Page {
	page := layout.Page{
		Meta: meta,
		Auth: auth.GetAuthContext(c),
		Path: c.Request().URL.Path,
	}
	if ch, ok := auth.Notices(c); ok {
		if n, ok := ch.Current(); ok {
			page.Notice = &n
		}
	}
	return page
}

// Page renders body under title with status
func (p *Pages) Page(c echo.Context, status int, title string, body templ.Component) error {
	meta := layout.NewPageMeta(p.siteURL, c.Request().URL.Path, title)
	return RenderStatus(c, status, layout.Base(p.layoutFor(c, meta), body))
}

// Loading renders the placeholder that reloads itself until the session settles
func (p *Pages) Loading(c echo.Context) error {
	meta := layout.NewPageMeta(p.siteURL, c.Request().URL.Path, "Loading").WithRefresh(loadingRefreshSeconds)
	return RenderStatus(c, http.StatusOK, layout.Base(p.layoutFor(c, meta), pages.Loading()))
}

// NotFound renders the catch-all page
func (p *Pages) NotFound(c echo.Context) error {
	return p.Page(c, http.StatusNotFound, "Page Not Found", pages.NotFound())
}

// Home renders the landing page
func (p *Pages) Home(c echo.Context) error {
	return p.Page(c, http.StatusOK, "Home", pages.Home(auth.GetAuthContext(c)))
}

// Dashboard renders the signed-in landing page
func (p *Pages) Dashboard(c echo.Context) error {
	user, _ := auth.GetUser(c)
	return p.Page(c, http.StatusOK, "Dashboard", pages.Dashboard(user))
}

// ErrorHandler renders the not-found page for routing errors and defers to
// echo's default handler for everything else.
func (p *Pages) ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) && (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed) {
			if rerr := p.NotFound(c); rerr != nil {
				p.logger.Error("failed to render not found page", "error", rerr)
			}
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// notify shows a banner message on the request's browser session
func notify(c echo.Context, text string, isError bool) {
	if ch, ok := auth.Notices(c); ok {
		ch.Show(text, isError)
	}
}

// failure shows the server message carried by err, or fallback
func failure(c echo.Context, err error, fallback string) {
	notify(c, api.MessageOf(err, fallback), true)
}

// sessionClient returns the backend client bound to the request's session
func sessionClient(c echo.Context) (*api.Client, error) {
	client, ok := auth.Client(c)
	if !ok {
		return nil, errNoSession
	}
	return client, nil
}

// seeOther finishes a form post with a redirect to a page
func seeOther(c echo.Context, path string) error {
	return c.Redirect(http.StatusSeeOther, path)
}
