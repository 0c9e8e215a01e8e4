// Package client is the single entry point for every price-tracker backend
// call. It resolves the base URL once, attaches the current credential,
// serializes requests, and normalizes every non-2xx response into an Error
// with a Kind callers can branch on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pricetrack/session"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000/api/v1"

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 1 << 20

// Client issues typed calls against the price-tracker API. All methods are
// safe for concurrent use; no cross-request ordering is guaranteed.
type Client struct {
	base    *url.URL
	origin  *url.URL
	httpc   *http.Client
	creds   session.Store
	headers http.Header
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithSession injects the credential store the client reads on every call.
// Login and Register write freshly issued tokens to it; nothing else mutates it.
func WithSession(s session.Store) Option {
	return func(c *Client) { c.creds = s }
}

// WithHeader sets a default header on every request, overriding built-ins.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

// New builds a Client for the given base URL, e.g.
// "http://localhost:8000/api/v1". An empty baseURL falls back to
// DefaultBaseURL. Without WithSession the client runs unauthenticated against
// an in-memory store.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q missing scheme or host", baseURL)
	}
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}
	c := &Client{
		base:    base,
		origin:  origin,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		creds:   session.NewMemStore(),
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Session exposes the credential store the client was built with.
func (c *Client) Session() session.Store { return c.creds }

// apiURL joins a resource-relative path onto the configured prefix. A
// trailing slash in path is preserved, matching the backend's routes.
func (c *Client) apiURL(path string, query url.Values) *url.URL {
	u := *c.base
	u.Path = strings.TrimSuffix(c.base.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

// originURL resolves a path against the origin root, outside the API prefix.
func (c *Client) originURL(path string) *url.URL {
	u := *c.origin
	u.Path = path
	return &u
}

// do performs one HTTP exchange. A nil in sends no body; a nil out discards
// any success body. Non-2xx responses always come back as a *Error.
func (c *Client) do(ctx context.Context, method string, u *url.URL, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range c.headers {
		req.Header[k] = vs
	}
	cred, err := c.creds.Credential(ctx)
	if err != nil {
		return transportError(ctx, fmt.Errorf("resolve credential: %w", err))
	}
	if cred != "" {
		req.Header.Set("Authorization", "Bearer "+cred)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(resp.StatusCode, b)
	}
	if out == nil || !isJSON(resp.Header.Get("Content-Type")) {
		// 204s and bodyless 2xx responses resolve to an empty result.
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "malformed response body: " + err.Error()}
	}
	return nil
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "application/json")
}

// transportError distinguishes caller-driven cancellation from failures to
// reach the server, so aborted navigations don't surface as network errors.
func transportError(ctx context.Context, err error) *Error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindCanceled, Message: "request canceled"}
	}
	return &Error{Kind: KindNetwork, Message: err.Error()}
}

// Health checks the service root health endpoint, served at the origin
// outside the API prefix. No credential is required.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.originURL("/health"), nil, nil)
}
