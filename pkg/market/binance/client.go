package binance

import (
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
)

const (
	defaultBaseURL     = "https://fapi.binance.com"
	defaultHTTPTimeout = 10 * time.Second

	openInterestPath   = "/fapi/v1/openInterest"
	fundingRatePath    = "/fapi/v1/fundingRate"
	longShortRatioPath = "/futures/data/globalLongShortAccountRatio"
)

// ErrNoData indicates the endpoint answered with an empty series.
var ErrNoData = errors.New("binance: no data returned")

// Client wraps the public Binance USDⓈ-M futures market data endpoints.
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

// WithBaseURL overrides the futures API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// NewClient constructs a Binance futures client.
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

// OpenInterest returns the current open interest of a perpetual instrument
// (e.g. "BTCUSDT") in base-asset units.
func (c *Client) OpenInterest(ctx context.Context, instrument string) (float64, error) {
	query := url.Values{}
	query.Set("symbol", instrument)

	var payload OpenInterestResponse
	if err := c.get(ctx, openInterestPath, query, &payload); err != nil {
		return 0, err
	}
	return payload.OpenInterest, nil
}

// LatestFundingRate returns the most recent fractional funding rate.
func (c *Client) LatestFundingRate(ctx context.Context, instrument string) (float64, error) {
	query := url.Values{}
	query.Set("symbol", instrument)
	query.Set("limit", "1")

	var entries []FundingRateEntry
	if err := c.get(ctx, fundingRatePath, query, &entries); err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("%w: funding rate %s", ErrNoData, instrument)
	}
	return entries[len(entries)-1].FundingRate, nil
}

// LatestLongShortRatio returns the most recent global long/short account
// ratio for the given period ("5m", "1h", ...).
func (c *Client) LatestLongShortRatio(ctx context.Context, instrument, period string) (float64, error) {
	query := url.Values{}
	query.Set("symbol", instrument)
	query.Set("period", period)
	query.Set("limit", strconv.Itoa(1))

	var entries []LongShortRatioEntry
	if err := c.get(ctx, longShortRatioPath, query, &entries); err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("%w: long/short ratio %s", ErrNoData, instrument)
	}
	return entries[len(entries)-1].LongShortRatio, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("binance: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("binance: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("binance: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Msg == "" {
			apiErr.Msg = strings.TrimSpace(string(body))
		}
		return apiErr
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("binance: decode %s: %w", path, err)
	}
	return nil
}
