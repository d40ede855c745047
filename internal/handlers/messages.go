package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/flash"
	"github.com/fitnesshub/web/views/layout"
	"github.com/labstack/echo/v4"
)

// streamKeepAlive is the interval of the comment lines that keep idle proxies from
// closing the event stream
const streamKeepAlive = 25 * time.Second

// MessageHandler serves the notification banner endpoints
type MessageHandler struct {
	keepAlive time.Duration
}

// NewMessageHandler creates a message handler
func NewMessageHandler() *MessageHandler {
	return &MessageHandler{keepAlive: streamKeepAlive}
}

// Dismiss clears the banner and returns to the page it was dismissed on
func (h *MessageHandler) Dismiss(c echo.Context) error {
	if ch, ok := auth.Notices(c); ok {
		ch.Clear()
	}
	return seeOther(c, returnPath(c, "/"))
}

// Stream pushes the rendered banner as a server-sent "banner" event on every
// change, starting with the current one. The stream ends with the session's
// channel; the browser reconnects under its current session.
func (h *MessageHandler) Stream(c echo.Context) error {
	ch, ok := auth.Notices(c)
	if !ok {
		return errNoSession
	}

	updates := make(chan *flash.Notification, 1)
	cancel := ch.Subscribe(func(n flash.Notification, showing bool) {
		var next *flash.Notification
		if showing {
			next = &n
		}
		// keep only the latest state for a slow reader
		for {
			select {
			case updates <- next:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer cancel()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	var initial *flash.Notification
	if n, ok := ch.Current(); ok {
		initial = &n
	}
	if err := h.writeBanner(c, initial); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ch.Done():
			slog.Debug("message stream ended with its session")
			return nil
		case n := <-updates:
			if err := h.writeBanner(c, n); err != nil {
				slog.Debug("message stream closed", "error", err)
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

func (h *MessageHandler) writeBanner(c echo.Context, n *flash.Notification) error {
	var buf bytes.Buffer
	if err := layout.Banner(n).Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	res := c.Response()
	if err := writeEvent(res, "banner", buf.String()); err != nil {
		return err
	}
	res.Flush()
	return nil
}

// writeEvent writes one server-sent event, splitting data over data: lines
func writeEvent(w *echo.Response, event, data string) error {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(event)
	b.WriteByte('\n')
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := w.Write([]byte(b.String()))
	return err
}
