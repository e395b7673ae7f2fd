package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/matzehuels/canister/pkg/cache"
	"github.com/matzehuels/canister/pkg/errors"
	"github.com/matzehuels/canister/pkg/observability"
)

// Client provides shared HTTP functionality for API clients.
// It owns the HTTP session lifecycle, default request headers, and the
// optional response cache. It performs exactly one round trip per call and
// never retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	mu      sync.Mutex
	http    *http.Client
	owned   bool
	timeout time.Duration

	cache    cache.Cache
	cacheTTL time.Duration
	headers  map[string]string
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient makes the client use hc for every request. The caller keeps
// ownership: [Client.Close] never closes a supplied session.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
		c.owned = false
	}
}

// WithTimeout sets the timeout of the lazily created session. It has no
// effect when a session is supplied with [WithHTTPClient].
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithCache enables response caching. Bodies of successful responses are
// stored under their full request URL for ttl.
func WithCache(backend cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		if backend != nil {
			c.cache = backend
			c.cacheTTL = ttl
		}
	}
}

// WithHeaders sets default headers applied to all requests.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) { c.headers = headers }
}

// NewClient creates a Client. Without [WithHTTPClient] the session is created
// lazily on first use and released by [Client.Close].
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout: httpTimeout,
		cache:   cache.NewNullCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the HTTP session, creating it on first use.
// Concurrent first calls observe the same session.
func (c *Client) Session() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.http == nil {
		c.http = NewHTTPClient(c.timeout)
		c.owned = true
	}
	return c.http
}

// Close releases a session the client created itself. A session supplied
// with [WithHTTPClient] is left untouched. The client stays usable; the next
// request creates a fresh session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.owned && c.http != nil {
		c.http.CloseIdleConnections()
		c.http = nil
		c.owned = false
	}
	return nil
}

// Get performs an HTTP GET of rawURL with params encoded as its query string
// and returns the response body.
//
// Headers are the client defaults overridden by headers. Responses are served
// from the cache when one is configured, unless ctx was marked with
// [WithRefresh].
//
// Errors:
//   - NOT_FOUND for HTTP 404
//   - TRANSPORT for network failures and any other non-2xx status; the
//     original error stays reachable through errors.As
func (c *Client) Get(ctx context.Context, rawURL string, params Params, headers map[string]string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Transport(err, "invalid request URL %q", rawURL)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return c.Cached(ctx, u.String(), func() ([]byte, error) {
		return c.doRequest(ctx, u, headers)
	})
}

// Cached returns the cached body for key, or calls fetch and stores its
// result. Cache failures are treated as misses; they never fail a request.
func (c *Client) Cached(ctx context.Context, key string, fetch func() ([]byte, error)) ([]byte, error) {
	if !isRefresh(ctx) {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, key)
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, key)
	}
	data, err := fetch()
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, u *url.URL, headers map[string]string) ([]byte, error) {
	ctx = observability.WithRequestID(ctx)
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Transport(err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := c.Session().Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		return nil, errors.Transport(err, "GET %s", u.Redacted())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, errors.Transport(err, "read response body")
	}
	if err := checkStatus(resp.StatusCode, u); err != nil {
		return nil, err
	}
	return body, nil
}

func checkStatus(code int, u *url.URL) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.NotFound("%s returned status %d", u.Path, code)
	default:
		return errors.Transport(&StatusError{StatusCode: code}, "GET %s", u.Redacted())
	}
}

// StatusError is the cause of a TRANSPORT error for non-2xx responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

type ctxKey int

const refreshKey ctxKey = 0

// WithRefresh marks ctx so that [Client.Get] bypasses cached responses.
// Fresh responses are still written to the cache.
func WithRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, refreshKey, true)
}

func isRefresh(ctx context.Context) bool {
	v, _ := ctx.Value(refreshKey).(bool)
	return v
}
