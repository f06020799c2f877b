// Package api is the typed client for the Oasi storefront REST backend.
//
// Every response is decoded into an explicit DTO and validated at the
// boundary. Failures come back as one of three kinds: *APIError for non-2xx
// responses, ErrMalformedResponse for bodies that do not fit their DTO, and
// ErrNetwork for transport failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"oasi/internal/config"
	"oasi/internal/logging"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const maxErrorBody = 64 << 10

// TokenSource returns the bearer token for the current session, or "".
type TokenSource func() string

// Client talks to the storefront backend.
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	http      *http.Client
	limiter   *rate.Limiter
	token     TokenSource
	sanitizer *Sanitizer
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource attaches the session token to every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a Client from the api section of cfg.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(cfg.API.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("api base url not configured")
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	limit := rate.Inf
	burst := cfg.API.Burst
	if cfg.API.RateLimit > 0 {
		limit = rate.Limit(cfg.API.RateLimit)
	}
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		baseURL:   base,
		userAgent: cfg.API.UserAgent,
		timeout:   cfg.GetRequestTimeout(),
		http:      &http.Client{Jar: jar},
		limiter:   rate.NewLimiter(limit, burst),
		token:     func() string { return "" },
		sanitizer: NewSanitizer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs one JSON round trip. body may be nil; out may be nil when the
// response body is ignored.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := uuid.NewString()
	timer := logging.StartTimer(logging.CategoryAPI, method+" "+path)
	defer timer.StopWithThreshold(2 * time.Second)

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("X-Request-ID", requestID)
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	logging.APIDebug("[%s] %s %s", requestID, method, path)

	resp, err := c.http.Do(req)
	if err != nil {
		logging.APIError("[%s] %s %s failed: %v", requestID, method, path, err)
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrNetwork, context.DeadlineExceeded)
		}
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, RequestID: requestID}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var msg MessageResponse
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = c.sanitizer.Text(msg.Message)
		}
		logging.APIError("[%s] %s %s -> %d %s", requestID, method, path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	logging.API("[%s] %s %s -> %d", requestID, method, path, resp.StatusCode)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrNetwork, err)
		}
		logging.APIError("[%s] decode %s: %v", requestID, path, err)
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			logging.APIError("[%s] invalid %s: %v", requestID, path, err)
			return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
		}
	}
	if tc, ok := out.(textCleaner); ok {
		tc.cleanText(c.sanitizer.Text)
	}
	return nil
}
