package coingecko

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
)

const (
	defaultBaseURL     = "https://api.coingecko.com"
	defaultHTTPTimeout = 10 * time.Second
	simplePricePath    = "/api/v3/simple/price"
	quoteCurrency      = "usd"
)

// ErrCoinNotFound indicates the response carried no usable entry for the coin.
var ErrCoinNotFound = errors.New("coingecko: coin not found in response")

// Client wraps the public CoinGecko REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the API host, e.g. for the pro endpoint or tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// NewClient constructs a CoinGecko client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SimplePriceUSD returns the USD price and 24h percent change for a coin id
// such as "bitcoin".
func (c *Client) SimplePriceUSD(ctx context.Context, coinID string) (price, change24h float64, err error) {
	coinID = strings.TrimSpace(coinID)
	if coinID == "" {
		return 0, 0, errors.New("coingecko: coin id is empty")
	}

	query := url.Values{}
	query.Set("ids", coinID)
	query.Set("vs_currencies", quoteCurrency)
	query.Set("include_24hr_change", "true")

	var payload SimplePriceResponse
	if err := c.get(ctx, simplePricePath, query, &payload); err != nil {
		return 0, 0, err
	}
	quote, ok := payload[coinID]
	if !ok || quote.USD == nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrCoinNotFound, coinID)
	}
	if quote.USD24hChange != nil {
		change24h = *quote.USD24hChange
	}
	return *quote.USD, change24h, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("coingecko: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("coingecko: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("coingecko: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("coingecko: http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("coingecko: decode response: %w", err)
	}
	return nil
}
