package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fitnesshub/web/internal/types"
)

// BookClass reserves a spot in a class
func (c *Client) BookClass(ctx context.Context, req types.BookingRequest) (Ack, error) {
	var ack Ack
	err := c.do(ctx, http.MethodPost, "/bookings", nil, req, &ack)
	return ack, err
}

// MyBookings lists the signed-in member's bookings
func (c *Client) MyBookings(ctx context.Context) ([]types.Booking, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/bookings/my-bookings", nil, nil, &raw); err != nil {
		return nil, err
	}
	bookings := []types.Booking{}
	if err := unwrap(raw, "data", &bookings); err != nil {
		return nil, fmt.Errorf("decode GET /bookings/my-bookings: %w", err)
	}
	return bookings, nil
}

// CancelBooking cancels a booking; the backend also accepts a class id here
func (c *Client) CancelBooking(ctx context.Context, id string) (Ack, error) {
	var ack Ack
	err := c.do(ctx, http.MethodPut, "/bookings/"+url.PathEscape(id)+"/cancel", nil, nil, &ack)
	return ack, err
}

// RescheduleBooking moves a booking to a new date
func (c *Client) RescheduleBooking(ctx context.Context, id string, at time.Time) (Ack, error) {
	var ack Ack
	body := types.RescheduleRequest{BookingDate: at.UTC()}
	err := c.do(ctx, http.MethodPut, "/bookings/"+url.PathEscape(id), nil, body, &ack)
	return ack, err
}
