package liquidation

import (
	"math"

	"github.com/shopspring/decimal"
)

// round rounds half away from zero on the shortest decimal form of v, so
// binary artefacts such as 45250.00000000001 do not leak into the output.
// Non-finite input rounds to 0.
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func roundInt(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(0).IntPart()
}
