package liquidation

// Level is the liquidation picture for one leverage multiple.
type Level struct {
	Leverage                   int     `json:"leverage"`
	LongLiquidationPrice       float64 `json:"longLiquidationPrice"`
	ShortLiquidationPrice      float64 `json:"shortLiquidationPrice"`
	LongDistancePercent        float64 `json:"longDistancePercent"`
	ShortDistancePercent       float64 `json:"shortDistancePercent"`
	EstimatedLongLiquidations  int64   `json:"estimatedLongLiquidations"`
	EstimatedShortLiquidations int64   `json:"estimatedShortLiquidations"`
}

// Dataset is the merged market data and liquidation levels for a symbol at
// one instant.
type Dataset struct {
	Symbol            string  `json:"symbol"`
	CurrentPrice      float64 `json:"currentPrice"`
	Change24h         float64 `json:"change24h"`
	OpenInterest      float64 `json:"openInterest"`
	FundingRate       float64 `json:"fundingRate"`
	LongShortRatio    float64 `json:"longShortRatio"`
	LiquidationLevels []Level `json:"liquidationLevels"`
	Timestamp         string  `json:"timestamp"`
}
