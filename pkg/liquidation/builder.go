package liquidation

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/mr"

	"liqradar-api/pkg/market"
)

// TimestampLayout is RFC 3339 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// estimatedLiquidationShare is the share of open interest assumed to sit at
// each leverage tier before dividing by leverage. It is a placeholder
// heuristic, not a sourced model.
const estimatedLiquidationShare = 0.1

// MarketData is the set of never-failing lookups the builder fans out to.
type MarketData interface {
	Price(ctx context.Context, symbol string) market.PriceInfo
	OpenInterest(ctx context.Context, symbol string) float64
	FundingRate(ctx context.Context, symbol string) float64
	LongShortRatio(ctx context.Context, symbol string) float64
}

// Builder assembles a Dataset from market data.
type Builder struct {
	data MarketData
	now  func() time.Time
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder constructs a Builder over the given market data.
func NewBuilder(data MarketData, opts ...BuilderOption) *Builder {
	b := &Builder{
		data: data,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build fetches price, open interest, funding rate and long/short ratio
// concurrently, waits for all four and derives the liquidation levels. Every
// input is already defaulted by the market layer, so Build cannot fail.
func (b *Builder) Build(ctx context.Context, symbol string) *Dataset {
	var (
		price          market.PriceInfo
		openInterest   float64
		fundingRate    float64
		longShortRatio float64
	)
	mr.FinishVoid(
		func() { price = b.data.Price(ctx, symbol) },
		func() { openInterest = b.data.OpenInterest(ctx, symbol) },
		func() { fundingRate = b.data.FundingRate(ctx, symbol) },
		func() { longShortRatio = b.data.LongShortRatio(ctx, symbol) },
	)

	levels := ComputeLevels(price.Price)
	for i := range levels {
		estimate := EstimateLiquidations(openInterest, levels[i].Leverage)
		levels[i].EstimatedLongLiquidations = estimate
		levels[i].EstimatedShortLiquidations = estimate
	}

	return &Dataset{
		Symbol:            symbol,
		CurrentPrice:      price.Price,
		Change24h:         round(price.Change24h, 2),
		OpenInterest:      round(openInterest, 0),
		FundingRate:       round(fundingRate, 4),
		LongShortRatio:    round(longShortRatio, 2),
		LiquidationLevels: levels,
		Timestamp:         b.now().UTC().Format(TimestampLayout),
	}
}

// EstimateLiquidations is the symmetric per-side size estimate for a
// leverage tier: round(openInterest × 0.1 / leverage).
func EstimateLiquidations(openInterest float64, leverage int) int64 {
	if leverage <= 0 {
		return 0
	}
	return roundInt(openInterest * estimatedLiquidationShare / float64(leverage))
}
