package binance

import "fmt"

// OpenInterestResponse is the payload of /fapi/v1/openInterest.
type OpenInterestResponse struct {
	Symbol       string  `json:"symbol"`
	OpenInterest float64 `json:"openInterest,string"` // base-asset units
	Time         int64   `json:"time"`
}

// FundingRateEntry is one element of /fapi/v1/fundingRate.
type FundingRateEntry struct {
	Symbol      string  `json:"symbol"`
	FundingRate float64 `json:"fundingRate,string"` // fractional, 0.0001 == 0.01%
	FundingTime int64   `json:"fundingTime"`
}

// LongShortRatioEntry is one element of /futures/data/globalLongShortAccountRatio.
type LongShortRatioEntry struct {
	Symbol         string  `json:"symbol"`
	LongShortRatio float64 `json:"longShortRatio,string"`
	LongAccount    float64 `json:"longAccount,string"`
	ShortAccount   float64 `json:"shortAccount,string"`
	Timestamp      int64   `json:"timestamp"`
}

// APIError mirrors the {"code":..,"msg":..} body Binance returns on failures.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Msg        string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance: http status %d: code=%d msg=%s", e.StatusCode, e.Code, e.Msg)
}
