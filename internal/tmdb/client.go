// Package tmdb is a client for the TMDB v3 REST API.
package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/narwhalmedia/reelscout/pkg/interfaces"
	"github.com/narwhalmedia/reelscout/pkg/logger"
	"github.com/narwhalmedia/reelscout/pkg/metrics"
)

const (
	// DefaultBaseURL is the public TMDB v3 endpoint.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	serviceLabel = "tmdb"
	maxErrorBody = 64 << 10
)

// APIError is a non-2xx TMDB response.
type APIError struct {
	StatusCode    int
	StatusMessage string
	// Code is TMDB's own status_code, e.g. 30 for invalid credentials.
	Code int
}

func (e *APIError) Error() string {
	if e.StatusMessage != "" {
		return e.StatusMessage
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client talks to TMDB with a v4 read access token.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	logger      interfaces.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit throttles requests to rps per second with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMaxRetries sets how often idempotent requests are retried after a 429
// or a 5xx response. The default is 0. A wait longer than the request timeout
// is never taken.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithLogger sets the logger
func WithLogger(l interfaces.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a TMDB client. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL, accessToken string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		maxRetries:  0,
		logger:      logger.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one API call. endpoint is the templated path used as the
// metrics label.
type request struct {
	method   string
	endpoint string
	path     string
	query    url.Values
	body     interface{}
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	u := c.baseURL + "/" + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var payload []byte
	if r.body != nil {
		var err error
		if payload, err = json.Marshal(r.body); err != nil {
			return fmt.Errorf("encoding %s request: %w", r.endpoint, err)
		}
	}

	idempotent := r.method == http.MethodGet || r.method == http.MethodDelete
	backoff := 500 * time.Millisecond

	for attempt := 0; ; attempt++ {
		resp, err := c.send(ctx, r, u, payload)
		if err != nil {
			return err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			defer resp.Body.Close()
			if out == nil {
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("decoding %s response: %w", r.endpoint, err)
			}
			return nil
		}

		apiErr := readAPIError(resp)
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !idempotent || !retryable || attempt >= c.maxRetries {
			return apiErr
		}

		wait := backoff
		if ra, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && ra > 0 {
			wait = time.Duration(ra) * time.Second
		}
		if limit := c.httpClient.Timeout; limit > 0 && wait > limit {
			return apiErr
		}
		c.logger.Warn("Retrying TMDB request",
			interfaces.String("endpoint", r.endpoint),
			interfaces.Int("status", resp.StatusCode),
			interfaces.Int("attempt", attempt+1),
			interfaces.Duration("wait", wait))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		backoff *= 2
	}
}

func (c *Client) send(ctx context.Context, r request, u string, payload []byte) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if payload != nil {
		req.Header.Set("content-type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(serviceLabel, r.endpoint, "error", started)
		return nil, fmt.Errorf("executing request: %w", err)
	}
	metrics.ObserveUpstream(serviceLabel, r.endpoint, metrics.StatusLabel(resp.StatusCode), started)

	c.logger.Debug("TMDB request completed",
		interfaces.String("method", r.method),
		interfaces.String("endpoint", r.endpoint),
		interfaces.Int("status", resp.StatusCode),
		interfaces.Duration("duration", time.Since(started)))

	return resp, nil
}

func readAPIError(resp *http.Response) *APIError {
	defer resp.Body.Close()

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		StatusCode    int    `json:"status_code"`
		StatusMessage string `json:"status_message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if json.Unmarshal(data, &body) == nil {
		apiErr.Code = body.StatusCode
		apiErr.StatusMessage = body.StatusMessage
	}
	return apiErr
}

func sessionQuery(sessionID string) url.Values {
	return url.Values{"session_id": {sessionID}}
}
