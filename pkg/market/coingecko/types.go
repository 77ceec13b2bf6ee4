package coingecko

// SimplePriceResponse maps coin ids to their quotes, e.g.
// {"bitcoin":{"usd":50000,"usd_24h_change":-1.2}}.
type SimplePriceResponse map[string]SimpleQuote

// SimpleQuote is a single coin entry of the simple price endpoint. Pointers
// distinguish absent fields from zero values.
type SimpleQuote struct {
	USD          *float64 `json:"usd"`
	USD24hChange *float64 `json:"usd_24h_change"`
}
