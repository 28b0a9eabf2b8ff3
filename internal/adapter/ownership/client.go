// Package ownership adapts the external land-ownership service to the
// domain's OwnershipResolver interface, with an LRU cache decorator for
// repeated coordinates.
package ownership

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/firewatch/burn-data-service/internal/observability"
)

// Client implements domain.OwnershipResolver against the ownership service's
// HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates an ownership service client. Metrics may be nil.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
		metrics: metrics,
	}
}

// Resolve maps a coordinate to its land-ownership label. Any transport or
// non-200 failure is returned as an error; the caller decides how that
// affects the record being enriched.
func (c *Client) Resolve(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{
		"lat": {fmt.Sprintf("%.6f", lat)},
		"lon": {fmt.Sprintf("%.6f", lon)},
	}
	fullURL := c.baseURL + "/ownership?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.observeDuration(start)
	if err != nil {
		c.countRequest("error")
		return "", fmt.Errorf("ownership request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.countRequest("error")
		return "", fmt.Errorf("ownership API error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.countRequest("error")
		return "", fmt.Errorf("decode response: %w", err)
	}

	c.countRequest("success")
	return payload.Owner, nil
}

func (c *Client) countRequest(outcome string) {
	if c.metrics != nil {
		c.metrics.OwnershipRequests.WithLabelValues(outcome).Inc()
	}
}

func (c *Client) observeDuration(start time.Time) {
	if c.metrics != nil {
		c.metrics.OwnershipAPIDuration.Observe(time.Since(start).Seconds())
	}
}

type response struct {
	Owner string `json:"owner"`
}
