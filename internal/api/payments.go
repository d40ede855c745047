package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fitnesshub/web/internal/types"
	"github.com/stripe/stripe-go/v80"
)

// PaymentConfirmation is the answer to POST /payments/confirm. The backend relays
// the Stripe PaymentIntent it confirmed.
type PaymentConfirmation struct {
	Message string
	Intent  *stripe.PaymentIntent
}

// Succeeded reports whether Stripe settled the intent
func (p *PaymentConfirmation) Succeeded() bool {
	return p.Intent != nil && p.Intent.Status == stripe.PaymentIntentStatusSucceeded
}

// CreatePaymentIntent asks the backend to open a Stripe PaymentIntent for amount
// (in the smallest currency unit)
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64) (*types.PaymentIntent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("create payment intent: %w: amount must be positive", ErrInvalid)
	}
	body := struct {
		Amount int64 `json:"amount"`
	}{Amount: amount}

	var intent types.PaymentIntent
	if err := c.do(ctx, http.MethodPost, "/payments/create-payment-intent", nil, body, &intent); err != nil {
		return nil, err
	}
	if intent.ClientSecret == "" {
		return nil, errors.New("POST /payments/create-payment-intent: response carried no client secret")
	}
	return &intent, nil
}

// ConfirmPayment reports a completed client-side payment to the backend
func (c *Client) ConfirmPayment(ctx context.Context, paymentIntentID string) (*PaymentConfirmation, error) {
	if paymentIntentID == "" {
		return nil, fmt.Errorf("confirm payment: %w: payment intent id is required", ErrInvalid)
	}
	body := struct {
		PaymentIntentID string `json:"paymentIntentId"`
	}{PaymentIntentID: paymentIntentID}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/payments/confirm", nil, body, &raw); err != nil {
		return nil, err
	}

	var ack Ack
	if err := json.Unmarshal(raw, &ack); err != nil {
		return nil, fmt.Errorf("decode POST /payments/confirm: %w", err)
	}
	intent := &stripe.PaymentIntent{}
	if err := unwrap(raw, "paymentIntent", intent); err != nil {
		return nil, fmt.Errorf("decode POST /payments/confirm: %w", err)
	}
	if intent.ID == "" {
		intent = nil
	}
	return &PaymentConfirmation{Message: ack.Message, Intent: intent}, nil
}
