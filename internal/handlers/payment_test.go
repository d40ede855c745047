package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/types"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPublishableKey = "pk_test_fitnesshub"

func TestCreatePaymentIntent(t *testing.T) {
	t.Run("amount must be positive", func(t *testing.T) {
		for _, amount := range []int64{0, -100} {
			b := newBackend(t)
			entry := newSession(t, b, fakeUser(types.RoleUser))
			c, _ := jsonRequest(entry, "/api/payments/create-payment-intent", CreatePaymentIntentRequest{Amount: amount})

			err := NewPaymentHandler(testPublishableKey).CreatePaymentIntent(c)

			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusBadRequest, he.Code)
			assert.Zero(t, b.calls(http.MethodPost, "/api/payments/create-payment-intent"))
		}
	})

	t.Run("returns the client secret", func(t *testing.T) {
		b := newBackend(t)
		b.on(http.MethodPost, "/api/payments/create-payment-intent", http.StatusOK, map[string]string{
			"clientSecret":    "pi_123_secret_456",
			"paymentIntentId": "pi_123",
		})
		entry := newSession(t, b, fakeUser(types.RoleUser))
		c, rec := jsonRequest(entry, "/api/payments/create-payment-intent", CreatePaymentIntentRequest{Amount: 2500})

		require.NoError(t, NewPaymentHandler(testPublishableKey).CreatePaymentIntent(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		body, err := AssertJSONResponse(rec)
		require.NoError(t, err)
		assert.Equal(t, "pi_123_secret_456", body["client_secret"])
		assert.Equal(t, "pi_123", body["payment_intent_id"])
		assert.Equal(t, testPublishableKey, body["publishable_key"])

		var sent map[string]int64
		b.received(t, http.MethodPost, "/api/payments/create-payment-intent", &sent)
		assert.Equal(t, int64(2500), sent["amount"])
	})
}

func TestConfirmPayment(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		succeeded bool
	}{
		{name: "succeeded", status: "succeeded", succeeded: true},
		{name: "needs action", status: "requires_action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBackend(t)
			b.on(http.MethodPost, "/api/payments/confirm", http.StatusOK, map[string]any{
				"message":       "Payment processed",
				"paymentIntent": map[string]string{"id": "pi_123", "status": tt.status},
			})
			entry := newSession(t, b, fakeUser(types.RoleUser))
			c, rec := jsonRequest(entry, "/api/payments/confirm", ConfirmPaymentRequest{PaymentIntentID: "pi_123"})

			require.NoError(t, NewPaymentHandler(testPublishableKey).ConfirmPayment(c))

			body, err := AssertJSONResponse(rec)
			require.NoError(t, err)
			assert.Equal(t, "Payment processed", body["message"])
			assert.Equal(t, tt.status, body["status"])
			assert.Equal(t, tt.succeeded, body["succeeded"])
		})
	}
}

func TestConfirmPayment_MissingID(t *testing.T) {
	b := newBackend(t)
	entry := newSession(t, b, fakeUser(types.RoleUser))
	c, _ := jsonRequest(entry, "/api/payments/confirm", ConfirmPaymentRequest{})

	err := NewPaymentHandler(testPublishableKey).ConfirmPayment(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestPaymentError(t *testing.T) {
	tests := []struct {
		status int
		want   int
	}{
		{status: http.StatusUnauthorized, want: http.StatusUnauthorized},
		{status: http.StatusBadRequest, want: http.StatusBadRequest},
		{status: http.StatusInternalServerError, want: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := paymentError(&api.Error{Status: tt.status, Message: "card declined"}, "fallback")

			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, tt.want, he.Code)
			assert.Equal(t, "card declined", he.Message)
		})
	}
}

// jsonRequest builds a JSON POST bound to entry
func jsonRequest(entry *auth.Entry, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := NewTestContext(http.MethodPost, target, body)
	SetTestSession(c, entry)
	return c, rec
}
