package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 15 * time.Second

	// maxErrorBody caps how much of a failed response we read for its message
	maxErrorBody = 64 << 10
)

// TokenSource yields the bearer token persisted for the current browser session.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the FitnessHub REST backend
type Client struct {
	baseURL    *url.URL
	transport  http.RoundTripper
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTransport replaces the underlying round tripper (tests, proxies)
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.transport = rt
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the backend rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base URL must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL:   u,
		transport: http.DefaultTransport,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient = &http.Client{Transport: c.transport, Timeout: c.timeout}
	return c, nil
}

// WithTokenSource returns a copy of the client bound to one browser session: every
// request carries the session's bearer token and cookies live in a private jar.
func (c *Client) WithTokenSource(tokens TokenSource) *Client {
	// cookiejar.New only fails when given options with a broken public suffix list
	jar, _ := cookiejar.New(nil)
	clone := *c
	clone.httpClient = &http.Client{
		Transport: &bearerTransport{base: c.transport, tokens: tokens},
		Jar:       jar,
		Timeout:   c.timeout,
	}
	return &clone
}

// BaseURL returns the backend root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// bearerTransport attaches Authorization: Bearer <token> when the session has one
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens == nil {
		return t.base.RoundTrip(req)
	}
	token, err := t.tokens.Token(req.Context())
	if err != nil {
		if req.Body != nil {
			req.Body.Close()
		}
		return nil, fmt.Errorf("read session token: %w", err)
	}
	if token == "" {
		return t.base.RoundTrip(req)
	}
	// RoundTrippers must not mutate the caller's request
	authed := req.Clone(req.Context())
	authed.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(authed)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends a JSON request and decodes a JSON response into out (when non-nil)
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.send(req, path, out)
}

func (c *Client) send(req *http.Request, path string, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "method", req.Method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w: %w", req.Method, path, ErrTransport, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Method:  req.Method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: parseErrorBody(raw),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", req.Method, path, err)
	}
	return nil
}

// unwrap decodes raw into v, looking inside the envelope key first when present.
// The backend is inconsistent: some endpoints answer {"data": ...}, some {"user": ...}
// and some the bare document.
func unwrap(raw json.RawMessage, key string, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '{' && key != "" {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		if inner, ok := envelope[key]; ok {
			return json.Unmarshal(inner, v)
		}
	}
	return json.Unmarshal(trimmed, v)
}

// Ack is the {"message": "..."} body most write endpoints answer with
type Ack struct {
	Message string `json:"message"`
}

// Or returns the server message, or fallback when the server sent none
func (a Ack) Or(fallback string) string {
	if strings.TrimSpace(a.Message) != "" {
		return a.Message
	}
	return fallback
}
