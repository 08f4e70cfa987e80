// Package transport provides the HTTP client used to reach the geocoding and forecast services.
package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// ErrRequestFailed marks a request that never produced an HTTP response
// (DNS, TLS, connection reset, timeout or cancellation). The underlying
// cause stays reachable through errors.Is / errors.As.
var ErrRequestFailed = errors.New("request failed")

// DefaultTimeout bounds a single attempt.
const DefaultTimeout = 30 * time.Second

// Doer is satisfied by *http.Client and by *Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps an HTTP client with request logging and optional retries.
type Client struct {
	doer     Doer
	logger   *slog.Logger
	attempts uint
	delay    time.Duration
	maxDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithDoer replaces the underlying HTTP client.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithTimeout sets the per-attempt timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.doer = &http.Client{Timeout: d}
	}
}

// WithAttempts sets how many times a request is tried. Values below 2 disable retries,
// which is the default.
func WithAttempts(n uint) Option {
	return func(c *Client) {
		if n == 0 {
			n = 1
		}
		c.attempts = n
	}
}

// WithDelay sets the initial and maximum backoff between attempts.
func WithDelay(initial, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.delay = initial
		c.maxDelay = maxDelay
	}
}

// New creates a Client. A nil logger falls back to slog.Default().
func New(logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		doer:     &http.Client{Timeout: DefaultTimeout},
		logger:   logger,
		attempts: 1,
		delay:    time.Second,
		maxDelay: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req. Any HTTP response, including 4xx and 5xx, is returned to the caller
// with a readable body; only failures to obtain a response become errors.
// When retries are enabled, network errors and 5xx responses are retried with
// exponential backoff and jitter. The request context bounds the whole exchange.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	api := req.URL.Host
	ctx := req.Context()

	c.logger.Debug("making API request", "method", req.Method, "url", req.URL.String(), "api", api)

	if c.attempts <= 1 {
		resp, err := c.doer.Do(req)
		if err != nil {
			c.logger.Debug("API request failed", "api", api, "error", err, "duration", time.Since(start))
			return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
		}
		c.logger.Debug("API request completed", "api", api, "status", resp.StatusCode, "duration", time.Since(start))
		return resp, nil
	}

	var resp *http.Response
	var lastErr error

	err := retry.Do(
		func() error {
			r, err := c.doer.Do(req.Clone(ctx))
			if err != nil {
				c.logger.Warn("API request failed", "api", api, "error", err, "duration", time.Since(start))
				resp = nil
				lastErr = err
				return err
			}

			if r.StatusCode >= http.StatusInternalServerError {
				body, readErr := io.ReadAll(r.Body)
				if closeErr := r.Body.Close(); closeErr != nil {
					c.logger.Debug("failed to close response body", "error", closeErr)
				}
				if readErr != nil {
					resp = nil
					lastErr = readErr
					return readErr
				}
				c.logger.Warn("server error", "api", api, "status", r.StatusCode, "body_size", len(body))
				r.Body = io.NopCloser(bytes.NewReader(body))
				resp = r
				lastErr = fmt.Errorf("server error from %s: %d", api, r.StatusCode)
				return lastErr
			}

			c.logger.Debug("API request completed", "api", api, "status", r.StatusCode, "duration", time.Since(start))
			resp = r
			lastErr = nil
			return nil
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.MaxDelay(c.maxDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Info("retrying API request", "api", api, "attempt", n+1, "error", err)
		}),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err == nil {
		return resp, nil
	}

	// Exhausted on a server error: hand the last response over so its body can be inspected.
	if resp != nil {
		return resp, nil
	}

	if lastErr == nil {
		lastErr = err
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(lastErr, ctxErr) {
		lastErr = fmt.Errorf("%w (last error: %v)", ctxErr, lastErr)
	}
	c.logger.Error("API request failed after retries", "api", api, "error", lastErr, "duration", time.Since(start))
	return nil, fmt.Errorf("%w: %w", ErrRequestFailed, lastErr)
}
