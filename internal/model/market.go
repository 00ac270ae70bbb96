package model

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DateLayout is the canonical day format used in requests, reports and storage.
const DateLayout = "2006-01-02"

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day truncates t to midnight UTC of its own calendar day.
func Day(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string into a UTC day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// PricePoint is one daily adjusted price.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceSeries holds a symbol's daily prices in chronological order.
type PriceSeries struct {
	Symbol    string       `json:"symbol"`
	Points    []PricePoint `json:"points"`
	Corrected bool         `json:"corrected"`
}

// Len returns the number of points.
func (s PriceSeries) Len() int { return len(s.Points) }

// Empty reports whether the series has no points.
func (s PriceSeries) Empty() bool { return len(s.Points) == 0 }

// First returns the earliest point. The series must not be empty.
func (s PriceSeries) First() PricePoint { return s.Points[0] }

// Last returns the latest point. The series must not be empty.
func (s PriceSeries) Last() PricePoint { return s.Points[len(s.Points)-1] }

// Prices returns the bare price values.
func (s PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.Points))
	for i, p := range s.Points {
		prices[i] = p.Price
	}
	return prices
}

// FirstOnOrAfter returns the first point dated on or after t.
func (s PriceSeries) FirstOnOrAfter(t time.Time) (PricePoint, bool) {
	i := sort.Search(len(s.Points), func(i int) bool { return !s.Points[i].Date.Before(t) })
	if i == len(s.Points) {
		return PricePoint{}, false
	}
	return s.Points[i], true
}

// Between returns the sub-series dated within [start, end], sharing storage with s.
func (s PriceSeries) Between(start, end time.Time) PriceSeries {
	lo := sort.Search(len(s.Points), func(i int) bool { return !s.Points[i].Date.Before(start) })
	hi := sort.Search(len(s.Points), func(i int) bool { return s.Points[i].Date.After(end) })
	if hi < lo {
		hi = lo
	}
	return PriceSeries{Symbol: s.Symbol, Points: s.Points[lo:hi], Corrected: s.Corrected}
}

// Years returns the distinct calendar years present, ascending.
func (s PriceSeries) Years() []int {
	var years []int
	for _, p := range s.Points {
		y := p.Date.Year()
		if len(years) == 0 || years[len(years)-1] != y {
			years = append(years, y)
		}
	}
	return years
}

// LastInYear returns the last point dated within the given calendar year.
func (s PriceSeries) LastInYear(year int) (PricePoint, bool) {
	next := Date(year+1, time.January, 1)
	i := sort.Search(len(s.Points), func(i int) bool { return !s.Points[i].Date.Before(next) })
	if i == 0 || s.Points[i-1].Date.Year() != year {
		return PricePoint{}, false
	}
	return s.Points[i-1], true
}

// LastBeforeYear returns the last point dated strictly before January 1st of year.
func (s PriceSeries) LastBeforeYear(year int) (PricePoint, bool) {
	jan1 := Date(year, time.January, 1)
	i := sort.Search(len(s.Points), func(i int) bool { return !s.Points[i].Date.Before(jan1) })
	if i == 0 {
		return PricePoint{}, false
	}
	return s.Points[i-1], true
}

// Validate checks that dates strictly increase and prices are positive and finite.
func (s PriceSeries) Validate() error {
	for i, p := range s.Points {
		if p.Price <= 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return fmt.Errorf("%s: invalid price %v on %s", s.Symbol, p.Price, p.Date.Format(DateLayout))
		}
		if i > 0 && !p.Date.After(s.Points[i-1].Date) {
			return fmt.Errorf("%s: dates not strictly increasing at %s", s.Symbol, p.Date.Format(DateLayout))
		}
	}
	return nil
}

// Clean sorts points by date, drops non-positive or non-finite prices and keeps
// the last price seen for a duplicated day.
func Clean(symbol string, points []PricePoint) PriceSeries {
	sorted := make([]PricePoint, 0, len(points))
	for _, p := range points {
		if p.Price <= 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			continue
		}
		sorted = append(sorted, PricePoint{Date: Day(p.Date), Price: p.Price})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := sorted[:0]
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return PriceSeries{Symbol: symbol, Points: out}
}
