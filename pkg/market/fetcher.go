package market

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

const defaultFetchTimeout = 8 * time.Second

var errInvalidValue = errors.New("market: upstream returned a non-finite or negative value")

// Fetcher normalises the upstream sources into plain numbers. None of its
// methods fail: an unreachable source, a bad payload or an empty series is
// logged and replaced by the documented default.
type Fetcher struct {
	prices         PriceSource
	futures        FuturesSource
	priceTimeout   time.Duration
	futuresTimeout time.Duration
}

// FetcherOption customises a Fetcher.
type FetcherOption func(*Fetcher)

// WithPriceTimeout bounds each spot price call.
func WithPriceTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.priceTimeout = timeout
		}
	}
}

// WithFuturesTimeout bounds each futures data call.
func WithFuturesTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.futuresTimeout = timeout
		}
	}
}

// NewFetcher wires the price and futures sources.
func NewFetcher(prices PriceSource, futures FuturesSource, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		prices:         prices,
		futures:        futures,
		priceTimeout:   defaultFetchTimeout,
		futuresTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Price returns the USD spot price and 24h change, or a zero PriceInfo.
func (f *Fetcher) Price(ctx context.Context, symbol string) PriceInfo {
	coinID := CoinID(symbol)
	ctx, cancel := withTimeout(ctx, f.priceTimeout)
	defer cancel()

	price, change, err := f.prices.SimplePriceUSD(ctx, coinID)
	if err == nil && (!isFinite(price) || price < 0 || !isFinite(change)) {
		err = errInvalidValue
	}
	if err != nil {
		f.fallback(ctx, sourcePrice, symbol, err)
		return PriceInfo{}
	}
	return PriceInfo{Price: price, Change24h: change}
}

// OpenInterest returns open interest in base-asset units, or DefaultOpenInterest.
func (f *Fetcher) OpenInterest(ctx context.Context, symbol string) float64 {
	ctx, cancel := withTimeout(ctx, f.futuresTimeout)
	defer cancel()

	oi, err := f.futures.OpenInterest(ctx, Instrument(symbol))
	if err == nil && !isFinite(oi) {
		err = errInvalidValue
	}
	if err != nil {
		f.fallback(ctx, sourceOpenInterest, symbol, err)
		return DefaultOpenInterest
	}
	return oi
}

// FundingRate returns the latest funding rate in percent, or DefaultFundingRate.
func (f *Fetcher) FundingRate(ctx context.Context, symbol string) float64 {
	ctx, cancel := withTimeout(ctx, f.futuresTimeout)
	defer cancel()

	rate, err := f.futures.LatestFundingRate(ctx, Instrument(symbol))
	if err == nil && !isFinite(rate) {
		err = errInvalidValue
	}
	if err != nil {
		f.fallback(ctx, sourceFundingRate, symbol, err)
		return DefaultFundingRate
	}
	return rate * 100
}

// LongShortRatio returns the latest 1h global long/short account ratio, or
// DefaultLongShortRatio.
func (f *Fetcher) LongShortRatio(ctx context.Context, symbol string) float64 {
	ctx, cancel := withTimeout(ctx, f.futuresTimeout)
	defer cancel()

	ratio, err := f.futures.LatestLongShortRatio(ctx, Instrument(symbol), longShortPeriod)
	if err == nil && !isFinite(ratio) {
		err = errInvalidValue
	}
	if err != nil {
		f.fallback(ctx, sourceLongShortRatio, symbol, err)
		return DefaultLongShortRatio
	}
	return ratio
}

func (f *Fetcher) fallback(ctx context.Context, source, symbol string, err error) {
	fetchFallbacks.Inc(source)
	logx.WithContext(ctx).Errorf("market: %s fetch failed symbol=%s, using default: %v", source, symbol, err)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
