// Package transport fetches publisher catalogs over HTTP with bounded
// retry, exponential backoff and a short-lived response cache.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/specmap/pkg/constants"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/logging"
)

// Response is a fully read catalog response.
type Response struct {
	URL         string // Final URL after redirects, used to resolve relative links
	StatusCode  int
	ContentType string
	Body        []byte
	Cached      bool
}

// Attempt describes one HTTP round trip.
type Attempt struct {
	URL        string
	Attempt    int
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Client provides GET requests with retry and caching.
type Client struct {
	http       *http.Client
	cache      *Cache
	auth       Authenticator
	token      string
	userAgent  string
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	maxBytes   int64
	onAttempt  func(Attempt)
}

// Option configures a Client.
type Option func(*Client)

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth:       &NoAuth{},
		userAgent:  constants.DefaultUserAgent,
		maxRetries: constants.MaxRetries,
		backoff:    constants.RetryBackoff,
		maxBackoff: constants.MaxRetryBackoff,
		maxBytes:   constants.MaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithCache enables response caching.
func WithCache(cache *Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithAuth applies token to every request using auth.
func WithAuth(auth Authenticator, token string) Option {
	return func(c *Client) {
		if auth != nil {
			c.auth = auth
		}
		c.token = token
	}
}

// WithRetries sets the number of retries after the first attempt.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the base and maximum retry delay.
func WithBackoff(base, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.backoff = base
		c.maxBackoff = maxDelay
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithAttemptHook registers a callback invoked after every round trip.
func WithAttemptHook(fn func(Attempt)) Option {
	return func(c *Client) {
		c.onAttempt = fn
	}
}

// Get fetches rawURL, retrying transient failures.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	if c.cache != nil {
		if resp, ok := c.cache.Get(rawURL); ok {
			cached := *resp
			cached.Cached = true
			return &cached, nil
		}
	}

	logger := logging.FromContext(ctx)
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.delay(attempt, lastErr)
			logger.Warn().
				Err(lastErr).
				Str("url", rawURL).
				Int("attempt", attempt+1).
				Dur("backoff", delay).
				Msg("Retrying catalog request")
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		resp, err := c.do(ctx, rawURL, attempt)
		if err == nil {
			if c.cache != nil {
				c.cache.Set(rawURL, resp)
			}
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var apiErr *errors.APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return nil, err
		}
	}

	return nil, lastErr
}

// do performs one round trip.
func (c *Client) do(ctx context.Context, rawURL string, attempt int) (resp *Response, err error) {
	start := time.Now()
	status := 0
	defer func() {
		if c.onAttempt != nil {
			c.onAttempt(Attempt{URL: rawURL, Attempt: attempt + 1, StatusCode: status, Duration: time.Since(start), Err: err})
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,text/csv,application/json;q=0.9,*/*;q=0.8")
	if c.token != "" {
		c.auth.Apply(req, c.token)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, &errors.APIError{
			Publisher: host(rawURL),
			Message:   "request failed",
			Endpoint:  rawURL,
			Err:       err,
		}
	}
	defer func() {
		if cerr := httpResp.Body.Close(); cerr != nil {
			logging.FromContext(ctx).Debug().Err(cerr).Str("url", rawURL).Msg("Failed to close response body")
		}
	}()
	status = httpResp.StatusCode

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBytes+1))
	if err != nil {
		return nil, errors.WrapIO("read", rawURL, err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, &errors.ResourceError{
			Operation: "read",
			Resource:  "response",
			ID:        rawURL,
			Message:   fmt.Sprintf("body exceeds %d bytes", c.maxBytes),
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := &errors.APIError{
			Publisher:  host(rawURL),
			StatusCode: httpResp.StatusCode,
			Message:    truncate(strings.TrimSpace(string(body)), 200),
			Endpoint:   rawURL,
		}
		if ra := httpResp.Header.Get("Retry-After"); ra != "" {
			return nil, &retryAfterError{APIError: apiErr, after: parseRetryAfter(ra)}
		}
		return nil, apiErr
	}

	final := rawURL
	if httpResp.Request != nil && httpResp.Request.URL != nil {
		final = httpResp.Request.URL.String()
	}

	return &Response{
		URL:         final,
		StatusCode:  httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// delay returns the backoff before the given retry.
func (c *Client) delay(attempt int, lastErr error) time.Duration {
	var ra *retryAfterError
	if errors.As(lastErr, &ra) && ra.after > 0 {
		return min(ra.after, c.maxBackoff)
	}
	d := c.backoff << (attempt - 1)
	if d <= 0 || d > c.maxBackoff {
		d = c.maxBackoff
	}
	return d
}

// retryAfterError carries the server's requested delay.
type retryAfterError struct {
	*errors.APIError
	after time.Duration
}

// Unwrap exposes the API error.
func (e *retryAfterError) Unwrap() error {
	return e.APIError
}

func parseRetryAfter(v string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ResolveURL resolves ref against base, returning ref unchanged when either
// fails to parse.
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
