package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeReturnTo(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{path: "/classes", want: "/classes", ok: true},
		{path: "/trainers/t1?tab=reviews", want: "/trainers/t1?tab=reviews", ok: true},
		{path: ""},
		{path: "classes"},
		{path: "https://evil.example/phish"},
		{path: "//evil.example"},
		{path: "/logout"},
		{path: "/messages/dismiss?x=1"},
		{path: "/messages/stream"},
		{path: "/api/bookings"},
		{path: "/public/css/site.css"},
		{path: "/classes\r\nSet-Cookie: x=1"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := sanitizeReturnTo(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDismiss(t *testing.T) {
	tests := []struct {
		name     string
		referer  string
		location string
	}{
		{name: "back to the page", referer: "http://example.com/classes?page=2", location: "/classes?page=2"},
		{name: "foreign referer", referer: "http://evil.example/classes", location: "/"},
		{name: "no referer", location: "/"},
		{name: "referer is blocked", referer: "http://example.com/logout", location: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			entry := newSession(t, b, nil)
			entry.Notices.Show("Class booked successfully!", false)
			c, rec := newRequest(entry, http.MethodPost, "/messages/dismiss", url.Values{})
			if tt.referer != "" {
				c.Request().Header.Set("Referer", tt.referer)
			}

			require.NoError(t, NewMessageHandler().Dismiss(c))

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			_, shown := entry.Notices.Current()
			assert.False(t, shown)
		})
	}
}

func TestStream_SendsCurrentBanner(t *testing.T) {
	b := newBackend(t)
	entry := newSession(t, b, nil)
	entry.Notices.Show("Class booked successfully!", false)

	c, rec := newRequest(entry, http.MethodGet, "/messages/stream", nil)
	ctx, cancel := context.WithCancel(c.Request().Context())
	cancel()
	c.SetRequest(c.Request().WithContext(ctx))

	require.NoError(t, NewMessageHandler().Stream(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	body := rec.Body.String()
	assert.Contains(t, body, "event: banner\n")
	assert.Contains(t, body, "Class booked successfully!")
	assert.Contains(t, body, `role="status"`)
}

func TestStream_EndsWhenSessionCloses(t *testing.T) {
	b := newBackend(t)
	entry := newSession(t, b, nil)
	c, rec := newRequest(entry, http.MethodGet, "/messages/stream", nil)

	done := make(chan error, 1)
	go func() { done <- NewMessageHandler().Stream(c) }()

	// eviction closes the channel
	entry.Notices.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stream kept running after its session was closed")
	}
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: banner\n")
}

func TestStream_RequiresSession(t *testing.T) {
	c, _ := NewTestContext(http.MethodGet, "/messages/stream", nil)

	err := NewMessageHandler().Stream(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusServiceUnavailable, he.Code)
}

func TestWriteEvent_SplitsLines(t *testing.T) {
	rec := httptest.NewRecorder()
	res := echo.NewResponse(rec, echo.New())

	require.NoError(t, writeEvent(res, "banner", "<div>\n<span>hi</span>\n</div>"))

	assert.Equal(t, "event: banner\ndata: <div>\ndata: <span>hi</span>\ndata: </div>\n\n", rec.Body.String())
}
