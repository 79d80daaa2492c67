// Package marketdata fetches historical prices over HTTP and streams live
// ticks over a websocket.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adam-dashboard/internal/domain"
	"adam-dashboard/internal/observability"
	"adam-dashboard/internal/series"
)

// ErrUpstream is returned when the market data provider rejects a request.
var ErrUpstream = errors.New("market data upstream error")

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.coingecko.com/api/v3"
	DefaultTimeout     = 10 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 500 * time.Millisecond
	DefaultMaxDelay    = 5 * time.Second
	DefaultBackoffMult = 2.0

	apiKeyHeader = "x-cg-demo-api-key"
)

// Client reads market_chart price history.
type Client struct {
	baseURL     string
	apiKey      string
	client      *http.Client
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a market data client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type marketChart struct {
	Prices [][2]float64 `json:"prices"`
}

// FetchSeries returns the USD price history of coinID for r, in seconds.
// 1H is synthesized from the one-day history at one-minute steps.
func (c *Client) FetchSeries(ctx context.Context, coinID string, r domain.Range) (domain.Series, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRange, string(r))
	}
	if coinID == "" {
		return nil, fmt.Errorf("%w: empty coin id", ErrUpstream)
	}

	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", r.UpstreamDays())
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?%s", c.baseURL, url.PathEscape(coinID), q.Encode())

	start := time.Now()
	var chart marketChart
	err := c.get(ctx, endpoint, &chart)
	observability.RecordMarketFetch(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	out := make(domain.Series, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		out = append(out, domain.SeriesPoint{Time: int64(p[0]) / 1000, Value: p[1]})
	}
	if r == domain.Range1H {
		observability.RecordResample()
		return series.SynthesizeLastHour(out), nil
	}
	return series.Sorted(out), nil
}

// get performs a GET with retries and exponential backoff. 4xx responses
// other than 429 fail immediately with ErrUpstream.
func (c *Client) get(ctx context.Context, endpoint string, result any) error {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set(apiKeyHeader, c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
			continue
		default:
			return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, truncate(string(body), 200))
		}

		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
