package types

import (
	"liqradar-api/pkg/analysis"
	"liqradar-api/pkg/liquidation"
)

type SymbolRequest struct {
	Symbol string `form:"symbol,optional"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Agent  string `json:"agent"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type LiquidationsResponse = liquidation.Dataset

type AnalysisResponse = analysis.Result
