// Package correction holds per-symbol price fixes for corporate actions the
// data providers fail to back-adjust.
package correction

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"MarketCompare/internal/model"
)

// ErrAlreadyCorrected is returned when a series would be corrected a second time.
var ErrAlreadyCorrected = errors.New("series already corrected")

// Rule divides every price dated strictly before Cutoff by Divisor.
type Rule struct {
	Cutoff  time.Time
	Divisor float64
}

// Rules maps a symbol to its rules, applied in registration order.
type Rules map[string][]Rule

// Default covers the unadjusted splits of 0050.TW (1:4, 2014) and 0052.TW (1:7, 2025).
var Default = Rules{
	"0050.TW": {{Cutoff: model.Date(2014, time.January, 2), Divisor: 4}},
	"0052.TW": {{Cutoff: model.Date(2025, time.November, 17), Divisor: 7}},
}

// Merge returns a new table with extra rules appended after the receiver's.
func (r Rules) Merge(extra Rules) Rules {
	out := make(Rules, len(r)+len(extra))
	for sym, rules := range r {
		out[sym] = append([]Rule(nil), rules...)
	}
	for sym, rules := range extra {
		out[sym] = append(out[sym], rules...)
	}
	return out
}

// Validate rejects non-positive divisors and missing cutoffs.
func (r Rules) Validate() error {
	for sym, rules := range r {
		for _, rule := range rules {
			if rule.Divisor <= 0 {
				return fmt.Errorf("correction %s: divisor must be positive, got %v", sym, rule.Divisor)
			}
			if rule.Cutoff.IsZero() {
				return fmt.Errorf("correction %s: cutoff date is required", sym)
			}
		}
	}
	return nil
}

// Symbols returns the symbols that carry rules, sorted.
func (r Rules) Symbols() []string {
	out := make([]string, 0, len(r))
	for sym := range r {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// Apply returns a corrected copy of series. The input is left untouched.
func (r Rules) Apply(series model.PriceSeries) (model.PriceSeries, error) {
	if series.Corrected {
		return series, fmt.Errorf("%s: %w", series.Symbol, ErrAlreadyCorrected)
	}

	points := make([]model.PricePoint, len(series.Points))
	copy(points, series.Points)

	for _, rule := range r[series.Symbol] {
		for i := range points {
			if !points[i].Date.Before(rule.Cutoff) {
				break
			}
			points[i].Price /= rule.Divisor
		}
	}

	return model.PriceSeries{Symbol: series.Symbol, Points: points, Corrected: true}, nil
}
