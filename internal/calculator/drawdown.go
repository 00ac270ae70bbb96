package calculator

import (
	"errors"
	"time"

	"MarketCompare/internal/model"
)

// Drawdown is the deepest peak-to-trough decline of a series.
type Drawdown struct {
	Max   float64 // fraction, <= 0
	Start time.Time
	End   time.Time
}

// CalculateMaxDrawdown scans the running maximum of the series. End is the
// first date of the deepest drawdown; Start is the first date of the peak at or
// before End.
func CalculateMaxDrawdown(series model.PriceSeries) (Drawdown, error) {
	if series.Empty() {
		return Drawdown{}, errors.New("no prices provided")
	}

	first := series.First()
	dd := Drawdown{Start: first.Date, End: first.Date}

	peak := first
	troughPeak := first
	for _, p := range series.Points[1:] {
		if p.Price > peak.Price {
			peak = p
		}
		d := (p.Price - peak.Price) / peak.Price
		if d < dd.Max {
			dd.Max = d
			dd.End = p.Date
			troughPeak = peak
		}
	}
	dd.Start = troughPeak.Date
	return dd, nil
}
