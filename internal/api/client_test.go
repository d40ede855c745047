package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitnesshub/web/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, error) { return string(s), nil }

type failingTokens struct{}

func (failingTokens) Token(context.Context) (string, error) { return "", errors.New("store offline") }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL+"/api", WithTimeout(2*time.Second))
	require.NoError(t, err)
	return client
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)

	_, err = New("ftp://example.com")
	assert.Error(t, err)

	c, err := New("https://api.example.com/v1")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1", c.BaseURL())
}

func TestBearerToken_AttachedWhenPresent(t *testing.T) {
	var gotAuth, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"_id":"u1","name":"Ada","email":"ada@example.com","role":"trainer"}}`))
	})

	user, err := client.WithTokenSource(staticTokens("tok-123")).Me(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/api/auth/me", gotPath)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, types.RoleTrainer, user.Role)
}

func TestBearerToken_OmittedWithoutToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.WithTokenSource(staticTokens("")).Classes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestBearerToken_SourceFailureAbortsRequest(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.WithTokenSource(failingTokens{}).Classes(context.Background())
	require.Error(t, err)
	assert.False(t, called, "request must not reach the backend")
}

func TestMe_AcceptsBareUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u2","name":"Bo","email":"bo@example.com","role":"user"}`))
	})

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
	assert.Equal(t, types.RoleUser, user.Role)
}

func TestLogin_ErrorCarriesServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	})

	_, err := client.Login(context.Background(), types.Credentials{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", MessageOf(err, "fallback"))
}

func TestLogin_MissingTokenIsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	_, err := client.Login(context.Background(), types.Credentials{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.Equal(t, "fallback", MessageOf(err, "fallback"))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	_, err = client.Classes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "Failed to load classes.", MessageOf(err, "Failed to load classes."))
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrInvalid},
	}
	for _, tt := range tests {
		err := &Error{Method: "GET", Path: "/x", Status: tt.status}
		assert.ErrorIs(t, err, tt.target, "status %d", tt.status)
		assert.Contains(t, err.Error(), "GET /x")
	}
}

func TestTrainers_UnwrapsDataEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"_id":"t1","name":"Kim","role":"trainer","averageRating":4.5,"reviewCount":8}]}`))
	})

	trainers, err := client.Trainers(context.Background())
	require.NoError(t, err)
	require.Len(t, trainers, 1)
	assert.Equal(t, "t1", trainers[0].ID)
	assert.Equal(t, "Kim", trainers[0].Name)
	assert.InDelta(t, 4.5, trainers[0].AverageRating, 0.001)
	assert.Equal(t, 8, trainers[0].ReviewCount)
}

func TestTrainer_NotFoundWhenEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null}`))
	})

	_, err := client.Trainer(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMyBookings_PopulatedReferences(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"_id":"b1","status":"confirmed","bookingDate":"2026-01-05T09:00:00Z",
			 "class":{"_id":"c1","title":"Morning Flow","trainer":{"_id":"t1","name":"Kim"}}},
			{"_id":"b2","status":"cancelled","bookingDate":"2026-01-06T09:00:00Z","class":"c2"}
		]`))
	})

	bookings, err := client.MyBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	assert.True(t, bookings[0].Class.Populated())
	assert.Equal(t, "Morning Flow", bookings[0].Class.Doc.Title)
	assert.Equal(t, "Kim", bookings[0].TrainerName())

	assert.False(t, bookings[1].Class.Populated())
	assert.Equal(t, "c2", bookings[1].Class.ID)
}

func TestRescheduleBooking_SendsUTCDate(t *testing.T) {
	var body map[string]string
	var method, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"message":"Booking rescheduled!"}`))
	})

	loc := time.FixedZone("UTC+2", 2*60*60)
	ack, err := client.RescheduleBooking(context.Background(), "b1", time.Date(2026, 3, 1, 10, 30, 0, 0, loc))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/api/bookings/b1", path)
	assert.Equal(t, "2026-03-01T08:30:00Z", body["bookingDate"])
	assert.Equal(t, "Booking rescheduled!", ack.Or("fallback"))
}

func TestFeedback_QueryParams(t *testing.T) {
	var query string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	items, err := client.Feedback(context.Background(), types.FeedbackFilter{TrainerID: "t1", Type: "trainer"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "trainerId=t1&type=trainer", query)
}

func TestUploadMedia_Multipart(t *testing.T) {
	var fields map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{}
		for name, headers := range r.MultipartForm.File {
			f, err := headers[0].Open()
			require.NoError(t, err)
			data, _ := io.ReadAll(f)
			f.Close()
			fields[name] = headers[0].Filename + ":" + headers[0].Header.Get("Content-Type") + ":" + string(data)
		}
		_, _ = w.Write([]byte(`{"message":"Files uploaded successfully!"}`))
	})

	ack, err := client.UploadMedia(context.Background(), types.MediaUpload{
		ProfilePicture: &types.UploadFile{Filename: "me.png", ContentType: "image/png", Body: strings.NewReader("PNGDATA")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Files uploaded successfully!", ack.Message)
	assert.Equal(t, map[string]string{"profilePicture": "me.png:image/png:PNGDATA"}, fields)
}

func TestPayments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/payments/create-payment-intent":
			_, _ = w.Write([]byte(`{"clientSecret":"pi_1_secret_x"}`))
		case "/api/payments/confirm":
			_, _ = w.Write([]byte(`{"message":"Payment confirmed","paymentIntent":{"id":"pi_1","object":"payment_intent","status":"succeeded","amount":2500}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	intent, err := client.CreatePaymentIntent(context.Background(), 2500)
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret_x", intent.ClientSecret)

	confirmation, err := client.ConfirmPayment(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, "Payment confirmed", confirmation.Message)
	assert.True(t, confirmation.Succeeded())
	assert.Equal(t, int64(2500), confirmation.Intent.Amount)

	_, err = client.CreatePaymentIntent(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalid)
}
