package calculator

import (
	"errors"
	"math"
	"strconv"
)

const (
	// TradingDaysPerYear scales daily volatility to a yearly horizon.
	TradingDaysPerYear = 252
	// DaysPerYear converts calendar days to years for CAGR.
	DaysPerYear = 365.25
)

// CalculateDailyReturns returns day-over-day percentage changes. The first
// price has no predecessor, so the result has len(prices)-1 entries.
func CalculateDailyReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
	}
	return returns
}

var errCapital = errors.New("initial capital must be a positive finite number")

func validCapital(c float64) bool {
	return c > 0 && !math.IsInf(c, 1)
}

// CalculateTotalReturn returns (final - initial) / initial.
func CalculateTotalReturn(finalAssets, initialCapital float64) (float64, error) {
	if !validCapital(initialCapital) {
		return 0, errCapital
	}
	return (finalAssets - initialCapital) / initialCapital, nil
}

// CalculateCAGR annualizes growth over a span of calendar days. A zero-day
// span yields 0.
func CalculateCAGR(finalAssets, initialCapital float64, days int) (float64, error) {
	if !validCapital(initialCapital) {
		return 0, errCapital
	}
	if days <= 0 {
		return 0, nil
	}
	return math.Pow(finalAssets/initialCapital, DaysPerYear/float64(days)) - 1, nil
}

// Round rounds x to the given number of decimals. Ties go to the even digit
// and are judged on the exact binary value of x, so 10012.5 rounds to 10012
// and 2.675 (stored slightly below) rounds to 2.67.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	if r == 0 {
		return 0 // no negative zero
	}
	return r
}

// Percent converts a fraction to a percentage rounded to 2 decimals.
func Percent(fraction float64) float64 {
	return Round(fraction*100, 2)
}
