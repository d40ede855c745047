package handlers

import (
	"bytes"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/fitnesshub/web/internal/types"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func myBookings(userID string) []map[string]any {
	return []map[string]any{
		{
			"_id":         "b1",
			"status":      "confirmed",
			"bookingDate": "2026-03-01T07:30:00Z",
			"user":        userID,
			"class": map[string]any{
				"_id":     "c1",
				"title":   "Sunrise Yoga",
				"type":    "Yoga",
				"trainer": map[string]string{"_id": "t1", "name": "Grace Hopper"},
			},
		},
		{
			"_id":         "b2",
			"status":      "cancelled",
			"bookingDate": "2026-03-02T18:00:00Z",
			"user":        userID,
			"class":       "c2",
		},
	}
}

func TestBookingList(t *testing.T) {
	b := newBackend(t)
	member := fakeUser(types.RoleUser)
	b.on(http.MethodGet, "/api/bookings/my-bookings", http.StatusOK, map[string]any{"data": myBookings(member.ID)})
	entry := newSession(t, b, member)
	c, rec := newRequest(entry, http.MethodGet, "/my-bookings", nil)

	require.NoError(t, NewBookingHandler(testPages(), time.UTC).List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Sunrise Yoga")
	assert.Contains(t, body, `href="/my-bookings/b1/pass.pdf"`)
	assert.Contains(t, body, `action="/my-bookings/b1/reschedule"`)
}

func TestBookingList_ServiceMissing(t *testing.T) {
	b := newBackend(t)
	entry := newSession(t, b, fakeUser(types.RoleUser))
	c, rec := newRequest(entry, http.MethodGet, "/my-bookings", nil)

	require.NoError(t, NewBookingHandler(testPages(), time.UTC).List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	n := currentNotice(t, entry)
	assert.True(t, n.IsError)
	assert.Equal(t, msgBookingsUnavailable, n.Text)
}

func TestReschedule(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		notice  string
		isError bool
		sent    string
	}{
		{
			name:    "empty value",
			value:   "",
			notice:  "Please choose a new date and time.",
			isError: true,
		},
		{
			name:    "malformed value",
			value:   "next tuesday",
			notice:  "Invalid date or time format. Please use YYYY-MM-DDTHH:mm",
			isError: true,
		},
		{
			name:   "converted to UTC",
			value:  "2026-05-01T10:15",
			notice: msgRescheduled,
			sent:   "2026-05-01T08:15:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			b.on(http.MethodPut, "/api/bookings/b1", http.StatusOK, map[string]string{})
			entry := newSession(t, b, fakeUser(types.RoleUser))
			c, rec := newRequest(entry, http.MethodPost, "/my-bookings/b1/reschedule", url.Values{"bookingDate": {tt.value}}, "b1")

			h := NewBookingHandler(testPages(), time.FixedZone("UTC+2", 2*60*60))
			require.NoError(t, h.Reschedule(c))

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/my-bookings", rec.Header().Get("Location"))
			n := currentNotice(t, entry)
			assert.Equal(t, tt.isError, n.IsError)
			assert.Equal(t, tt.notice, n.Text)

			if tt.sent == "" {
				assert.Zero(t, b.calls(http.MethodPut, "/api/bookings/b1"))
				return
			}
			var sent map[string]string
			b.received(t, http.MethodPut, "/api/bookings/b1", &sent)
			assert.Equal(t, tt.sent, sent["bookingDate"])
		})
	}
}

func TestCancelBooking(t *testing.T) {
	b := newBackend(t)
	b.on(http.MethodPut, "/api/bookings/b1/cancel", http.StatusForbidden, map[string]string{"message": "Not your booking"})
	entry := newSession(t, b, fakeUser(types.RoleUser))
	c, rec := newRequest(entry, http.MethodPost, "/my-bookings/b1/cancel", url.Values{}, "b1")

	require.NoError(t, NewBookingHandler(testPages(), time.UTC).Cancel(c))

	assert.Equal(t, "/my-bookings", rec.Header().Get("Location"))
	n := currentNotice(t, entry)
	assert.True(t, n.IsError)
	assert.Equal(t, "Not your booking", n.Text)
}

func TestBookingPass(t *testing.T) {
	b := newBackend(t)
	member := fakeUser(types.RoleUser)
	b.on(http.MethodGet, "/api/bookings/my-bookings", http.StatusOK, myBookings(member.ID))
	entry := newSession(t, b, member)
	h := NewBookingHandler(testPages(), time.UTC)

	t.Run("png", func(t *testing.T) {
		c, rec := newRequest(entry, http.MethodGet, "/my-bookings/b1/pass.png", nil, "b1")

		require.NoError(t, h.PassPNG(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, `attachment; filename=fitnesshub-pass-b1.png`, rec.Header().Get(echo.HeaderContentDisposition))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
	})

	t.Run("pdf", func(t *testing.T) {
		c, rec := newRequest(entry, http.MethodGet, "/my-bookings/b1/pass.pdf", nil, "b1")

		require.NoError(t, h.PassPDF(c))

		assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("unknown booking", func(t *testing.T) {
		c, _ := newRequest(entry, http.MethodGet, "/my-bookings/zz/pass.png", nil, "zz")

		err := h.PassPNG(c)
		assert.ErrorIs(t, err, echo.ErrNotFound)
	})

	t.Run("class not populated", func(t *testing.T) {
		c, rec := newRequest(entry, http.MethodGet, "/my-bookings/b2/pass.png", nil, "b2")

		require.NoError(t, h.PassPNG(c))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, msgPassFailed, currentNotice(t, entry).Text)
	})
}

func TestAttachment(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "plain", filename: "fitnesshub-pass-b1.pdf", want: `attachment; filename=fitnesshub-pass-b1.pdf`},
		{name: "quote", filename: `fitnesshub-pass-b"1.pdf`, want: `attachment; filename="fitnesshub-pass-b\"1.pdf"`},
		{name: "header injection", filename: "pass\r\nSet-Cookie: x=1.pdf", want: "attachment; filename*=utf-8''pass%0D%0ASet-Cookie%3A%20x%3D1.pdf"},
		{name: "non-ascii", filename: "pass-ü.pdf", want: "attachment; filename*=utf-8''pass-%C3%BC.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := attachment(tt.filename)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "\n")
		})
	}
}
