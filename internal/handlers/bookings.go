package handlers

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/pass"
	"github.com/fitnesshub/web/internal/types"
	"github.com/fitnesshub/web/views/pages"
	"github.com/labstack/echo/v4"
)

const (
	msgBookingsFailed      = "Failed to fetch bookings."
	msgBookingsUnavailable = "Bookings service not found or no bookings available. Please check backend deployment."
	msgRescheduled         = "Booking rescheduled successfully!"
	msgRescheduleFailed    = "Failed to reschedule booking."
	msgPassFailed          = "Failed to create booking pass."
)

// BookingHandler serves the member's booking list and its actions
type BookingHandler struct {
	pages *Pages
	loc   *time.Location
}

// NewBookingHandler creates a booking handler. Reschedule times are read in loc.
func NewBookingHandler(p *Pages, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BookingHandler{pages: p, loc: loc}
}

// List renders the member's bookings
func (h *BookingHandler) List(c echo.Context) error {
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	view := pages.MyBookingsView{}
	view.Bookings, err = client.MyBookings(c.Request().Context())
	switch {
	case errors.Is(err, api.ErrNotFound):
		notify(c, msgBookingsUnavailable, true)
		view.LoadFailed = true
	case err != nil:
		slog.Error("failed to load bookings", "error", err)
		failure(c, err, msgBookingsFailed)
		view.LoadFailed = true
	}
	return h.pages.Page(c, http.StatusOK, "My Bookings", pages.MyBookings(view))
}

// Cancel cancels one booking
func (h *BookingHandler) Cancel(c echo.Context) error {
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	ack, err := client.CancelBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		failure(c, err, msgCancelFailed)
		return seeOther(c, "/my-bookings")
	}
	notify(c, ack.Or(msgBookingCanceled), false)
	return seeOther(c, "/my-bookings")
}

// Reschedule moves a booking to the datetime-local value in bookingDate
func (h *BookingHandler) Reschedule(c echo.Context) error {
	at, err := types.ParseReschedule(c.FormValue("bookingDate"), h.loc)
	if err != nil {
		showValidation(c, err)
		return seeOther(c, "/my-bookings")
	}
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	ack, err := client.RescheduleBooking(c.Request().Context(), c.Param("id"), at)
	if err != nil {
		failure(c, err, msgRescheduleFailed)
		return seeOther(c, "/my-bookings")
	}
	notify(c, ack.Or(msgRescheduled), false)
	return seeOther(c, "/my-bookings")
}

// PassPDF downloads the booking pass as a PDF
func (h *BookingHandler) PassPDF(c echo.Context) error {
	return h.servePass(c, "pdf", "application/pdf", pass.RenderPDF)
}

// PassPNG downloads the booking pass as an image
func (h *BookingHandler) PassPNG(c echo.Context) error {
	return h.servePass(c, "png", "image/png", pass.RenderPNG)
}

func (h *BookingHandler) servePass(c echo.Context, ext, contentType string, render func(pass.Details) ([]byte, error)) error {
	id := c.Param("id")
	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	bookings, err := client.MyBookings(c.Request().Context())
	if err != nil {
		failure(c, err, msgBookingsFailed)
		return seeOther(c, "/my-bookings")
	}

	var booking *types.Booking
	for i := range bookings {
		if bookings[i].ID == id {
			booking = &bookings[i]
			break
		}
	}
	if booking == nil {
		return echo.ErrNotFound
	}

	user, _ := auth.GetUser(c)
	details, err := pass.DetailsFor(*booking, user, h.pages.siteURL)
	if err != nil {
		slog.Warn("booking pass unavailable", "booking_id", id, "error", err)
		notify(c, msgPassFailed, true)
		return seeOther(c, "/my-bookings")
	}
	data, err := render(details)
	if err != nil {
		slog.Error("failed to render booking pass", "booking_id", id, "format", ext, "error", err)
		notify(c, msgPassFailed, true)
		return seeOther(c, "/my-bookings")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, attachment("fitnesshub-pass-"+id+"."+ext))
	return c.Blob(http.StatusOK, contentType, data)
}

// attachment builds a Content-Disposition value that survives quotes and
// non-ASCII in the file name
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
