// Package companion calls the AI search endpoint of the TMDB companion
// service, which turns a free text description into candidate titles.
package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/narwhalmedia/reelscout/pkg/metrics"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

const (
	// DefaultBaseURL is where a locally run companion listens.
	DefaultBaseURL = "http://localhost:3000"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	searchPath   = "/tmdbcompanion/ai"
	maxErrorBody = 4 << 10
)

// Error is a non-2xx companion response.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("companion returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("companion returned %d", e.StatusCode)
}

// Client is a companion API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client. Zero values select the defaults.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search asks the companion which titles match description.
func (c *Client) Search(ctx context.Context, description string) (*models.AiSearchResponse, error) {
	payload, err := json.Marshal(map[string]string{"description": description})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream("companion", "ai", "error", started)
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("companion", "ai", metrics.StatusLabel(resp.StatusCode), started)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out models.AiSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding ai response: %w", err)
	}
	return &out, nil
}
