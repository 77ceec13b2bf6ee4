package liquidation

import "math"

// MaintenanceMarginBuffer is the fixed margin kept back from the theoretical
// liquidation threshold.
const MaintenanceMarginBuffer = 0.005

var leverages = [...]int{5, 10, 20, 25, 50, 100}

// Leverages returns the fixed leverage multiples in ascending order.
func Leverages() []int {
	out := make([]int, len(leverages))
	copy(out, leverages[:])
	return out
}

// ComputeLevels returns one Level per leverage, ascending. Prices are rounded
// to cents and distances to hundredths of a percent. A non-positive or
// non-finite price yields all-zero prices and distances.
func ComputeLevels(currentPrice float64) []Level {
	levels := make([]Level, 0, len(leverages))
	valid := currentPrice > 0 && !math.IsInf(currentPrice, 0) && !math.IsNaN(currentPrice)
	for _, leverage := range leverages {
		level := Level{Leverage: leverage}
		if valid {
			step := 1 / float64(leverage)
			longPrice := currentPrice * (1 - step + MaintenanceMarginBuffer)
			shortPrice := currentPrice * (1 + step - MaintenanceMarginBuffer)

			level.LongLiquidationPrice = round(longPrice, 2)
			level.ShortLiquidationPrice = round(shortPrice, 2)
			level.LongDistancePercent = round((1-longPrice/currentPrice)*100, 2)
			level.ShortDistancePercent = round((shortPrice/currentPrice-1)*100, 2)
		}
		levels = append(levels, level)
	}
	return levels
}
