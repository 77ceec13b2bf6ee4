package market

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"liqradar-api/pkg/confkit"
	"liqradar-api/pkg/market/binance"
	"liqradar-api/pkg/market/coingecko"
)

const (
	defaultPriceBaseURL   = "https://api.coingecko.com"
	defaultFuturesBaseURL = "https://fapi.binance.com"
	defaultHTTPTimeout    = 10 * time.Second
)

// Config describes the two upstream data sources.
type Config struct {
	Price   SourceConfig `yaml:"price"`
	Futures SourceConfig `yaml:"futures"`
}

// SourceConfig configures a single upstream HTTP source.
type SourceConfig struct {
	BaseURL string `yaml:"base_url"`

	TimeoutRaw     string        `yaml:"timeout"`
	Timeout        time.Duration `yaml:"-"`
	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
}

// DefaultConfig returns the public CoinGecko and Binance endpoints.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read market config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal market config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	c.Price.expandEnv()
	c.Futures.expandEnv()
	if err := c.Price.parseDurations("price"); err != nil {
		return err
	}
	if err := c.Futures.parseDurations("futures"); err != nil {
		return err
	}
	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	c.Price.applyDefaults(defaultPriceBaseURL)
	c.Futures.applyDefaults(defaultFuturesBaseURL)
}

func (s *SourceConfig) applyDefaults(baseURL string) {
	if s.BaseURL == "" {
		s.BaseURL = baseURL
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultFetchTimeout
	}
	if s.HTTPTimeout <= 0 {
		s.HTTPTimeout = defaultHTTPTimeout
	}
}

func (s *SourceConfig) expandEnv() {
	s.BaseURL = strings.TrimSpace(os.ExpandEnv(s.BaseURL))
	s.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(s.TimeoutRaw))
	s.HTTPTimeoutRaw = strings.TrimSpace(os.ExpandEnv(s.HTTPTimeoutRaw))
}

func (s *SourceConfig) parseDurations(name string) error {
	if s.TimeoutRaw != "" {
		d, err := time.ParseDuration(s.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("market source %s: invalid timeout %q: %w", name, s.TimeoutRaw, err)
		}
		if d <= 0 {
			return fmt.Errorf("market source %s: timeout must be positive, got %s", name, d)
		}
		s.Timeout = d
	}
	if s.HTTPTimeoutRaw != "" {
		d, err := time.ParseDuration(s.HTTPTimeoutRaw)
		if err != nil {
			return fmt.Errorf("market source %s: invalid http_timeout %q: %w", name, s.HTTPTimeoutRaw, err)
		}
		if d <= 0 {
			return fmt.Errorf("market source %s: http_timeout must be positive, got %s", name, d)
		}
		s.HTTPTimeout = d
	}
	return nil
}

// BuildFetcher instantiates the CoinGecko and Binance clients and wraps them
// in a Fetcher.
func (c *Config) BuildFetcher() *Fetcher {
	prices := coingecko.NewClient(
		coingecko.WithBaseURL(c.Price.BaseURL),
		coingecko.WithHTTPClient(&http.Client{Timeout: c.Price.HTTPTimeout}),
	)
	futures := binance.NewClient(
		binance.WithBaseURL(c.Futures.BaseURL),
		binance.WithHTTPClient(&http.Client{Timeout: c.Futures.HTTPTimeout}),
	)
	return NewFetcher(prices, futures,
		WithPriceTimeout(c.Price.Timeout),
		WithFuturesTimeout(c.Futures.Timeout),
	)
}
