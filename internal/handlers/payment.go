package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fitnesshub/web/internal/api"
	"github.com/labstack/echo/v4"
	stripego "github.com/stripe/stripe-go/v80"
)

// PaymentHandler relays payment calls from the browser to the backend, which
// owns the Stripe account
type PaymentHandler struct {
	publishableKey string
}

func NewPaymentHandler(publishableKey string) *PaymentHandler {
	return &PaymentHandler{publishableKey: publishableKey}
}

type CreatePaymentIntentRequest struct {
	Amount int64 `json:"amount"`
}

type CreatePaymentIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	PublishableKey  string `json:"publishable_key,omitempty"`
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	var req CreatePaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Amount must be positive")
	}

	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	intent, err := client.CreatePaymentIntent(c.Request().Context(), req.Amount)
	if err != nil {
		slog.Error("failed to create payment intent", "amount", req.Amount, "error", err)
		return paymentError(err, "Failed to create payment intent")
	}

	return c.JSON(http.StatusOK, CreatePaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.PaymentIntentID,
		PublishableKey:  h.publishableKey,
	})
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

type ConfirmPaymentResponse struct {
	Message   string                       `json:"message"`
	Status    stripego.PaymentIntentStatus `json:"status,omitempty"`
	Succeeded bool                         `json:"succeeded"`
}

func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	var req ConfirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.PaymentIntentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "payment_intent_id is required")
	}

	client, err := sessionClient(c)
	if err != nil {
		return err
	}
	conf, err := client.ConfirmPayment(c.Request().Context(), req.PaymentIntentID)
	if err != nil {
		slog.Error("failed to confirm payment", "payment_intent_id", req.PaymentIntentID, "error", err)
		return paymentError(err, "Failed to confirm payment")
	}

	resp := ConfirmPaymentResponse{
		Message:   api.Ack{Message: conf.Message}.Or("Payment confirmed"),
		Succeeded: conf.Succeeded(),
	}
	if conf.Intent != nil {
		resp.Status = conf.Intent.Status
	}
	return c.JSON(http.StatusOK, resp)
}

// paymentError maps a backend failure onto the status the browser should see
func paymentError(err error, fallback string) error {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, api.MessageOf(err, "Unauthorized"))
	case errors.Is(err, api.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, api.MessageOf(err, fallback))
	default:
		return echo.NewHTTPError(http.StatusBadGateway, api.MessageOf(err, fallback))
	}
}
