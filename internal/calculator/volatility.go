package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CalculateAnnualVolatility returns the sample standard deviation of daily
// returns scaled by sqrt(252). With fewer than two returns the deviation is
// taken as 0.
func CalculateAnnualVolatility(prices []float64) float64 {
	returns := CalculateDailyReturns(prices)
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear)
}
