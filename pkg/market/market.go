package market

import (
	"context"
	"strings"
)

const (
	// DefaultCoinID is used for any symbol without an explicit price-source mapping.
	DefaultCoinID = "bitcoin"
	// QuoteAsset is appended to a symbol to form the perpetual futures instrument.
	QuoteAsset = "USDT"

	// Values returned when a source cannot be reached or returns nothing usable.
	DefaultOpenInterest   = 0.0
	DefaultFundingRate    = 0.0
	DefaultLongShortRatio = 1.0

	longShortPeriod = "1h"
)

var coinIDs = map[string]string{
	"btc": "bitcoin",
	"eth": "ethereum",
	"sol": "solana",
}

// PriceInfo holds the spot price in USD and its 24h change in percent.
type PriceInfo struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
}

// PriceSource quotes spot prices keyed by price-source coin id.
type PriceSource interface {
	SimplePriceUSD(ctx context.Context, coinID string) (price, change24h float64, err error)
}

// FuturesSource exposes derivatives metrics keyed by futures instrument.
type FuturesSource interface {
	OpenInterest(ctx context.Context, instrument string) (float64, error)
	LatestFundingRate(ctx context.Context, instrument string) (float64, error)
	LatestLongShortRatio(ctx context.Context, instrument, period string) (float64, error)
}

// CoinID maps a ticker to the price-source identifier. Unknown tickers fall
// back to DefaultCoinID.
func CoinID(symbol string) string {
	if id, ok := coinIDs[strings.ToLower(strings.TrimSpace(symbol))]; ok {
		return id
	}
	return DefaultCoinID
}

// Instrument returns the USDT-margined perpetual for a ticker, e.g. "eth" -> "ETHUSDT".
func Instrument(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol)) + QuoteAsset
}
