package market

import "github.com/zeromicro/go-zero/core/metric"

const (
	sourcePrice          = "price"
	sourceOpenInterest   = "open_interest"
	sourceFundingRate    = "funding_rate"
	sourceLongShortRatio = "long_short_ratio"
)

var fetchFallbacks = metric.NewCounterVec(&metric.CounterVecOpts{
	Namespace: "liqradar",
	Subsystem: "market",
	Name:      "fetch_fallback_total",
	Help:      "market data fetches that degraded to their default value.",
	Labels:    []string{"source"},
})
