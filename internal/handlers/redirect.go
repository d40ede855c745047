package handlers

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// paths a form post should never bounce back to
var disallowedReturnTo = map[string]struct{}{
	"/logout":           {},
	"/messages/dismiss": {},
	"/messages/stream":  {},
}

func sanitizeReturnTo(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	if strings.ContainsAny(path, "\r\n") {
		return "", false
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "//") {
		return "", false
	}

	if !strings.HasPrefix(path, "/") {
		return "", false
	}

	base := path
	if idx := strings.IndexAny(path, "?#"); idx != -1 {
		base = path[:idx]
	}

	if _, blocked := disallowedReturnTo[base]; blocked {
		return "", false
	}

	if strings.HasPrefix(base, "/api/") || strings.HasPrefix(base, "/public/") {
		return "", false
	}

	return path, true
}

// returnPath picks the same-site page the form was posted from, or fallback
func returnPath(c echo.Context, fallback string) string {
	ref := c.Request().Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil {
		return fallback
	}
	if u.Host != "" && u.Host != c.Request().Host {
		return fallback
	}
	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if sanitized, ok := sanitizeReturnTo(path); ok {
		return sanitized
	}
	return fallback
}
