package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/auth"
	"github.com/fitnesshub/web/internal/session"
	"github.com/labstack/echo/v4"
)

// NewTestContext creates a new Echo context for testing. A url.Values body is
// sent as a form, anything else as JSON.
func NewTestContext(method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case url.Values:
		req = httptest.NewRequest(method, path, strings.NewReader(b.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	default:
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	return c, rec
}

// TestSessions stands in for the session middleware: a registry of browser
// sessions plus the rotator that re-keys them at sign-in
type TestSessions struct {
	Registry *auth.Registry
	Rotator  *auth.Rotator
}

// NewTestSessions creates a session registry whose clients talk to apiBaseURL
func NewTestSessions(apiBaseURL string) (*TestSessions, error) {
	client, err := api.New(apiBaseURL)
	if err != nil {
		return nil, err
	}
	registry := auth.NewRegistry(client, session.NewMemoryTokenStore(0), auth.RegistryOptions{})
	mgr := session.NewManager("handler-test-secret-0123456789abcd", session.Options{})
	return &TestSessions{Registry: registry, Rotator: auth.NewRotator(mgr, registry)}, nil
}

// Open returns the browser session handler tests run under
func (s *TestSessions) Open() *auth.Entry {
	return s.Registry.Get(context.Background(), "test-session")
}

// SetTestSession attaches a session to the Echo context (simulates the session middleware)
func SetTestSession(c echo.Context, entry *auth.Entry) {
	auth.SetEntry(c, entry)
}

// AssertJSONResponse checks if the response is valid JSON and returns the parsed body
func AssertJSONResponse(rec *httptest.ResponseRecorder) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}
