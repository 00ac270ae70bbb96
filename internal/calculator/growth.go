package calculator

import (
	"errors"
	"fmt"

	"MarketCompare/internal/model"
)

// YearStep is one year of simulated growth, unrounded.
type YearStep struct {
	Year   int
	Assets float64
	Roi    float64
}

// growthState is the accumulator carried from year to year.
type growthState struct {
	assets     float64
	entryPrice float64
	first      model.PricePoint
}

// CalculateYearlyGrowth chains calendar-year returns of invest, starting from
// initialCapital on invest's first date. Year-end and prior-year base prices
// are looked up in full, the unrestricted series.
func CalculateYearlyGrowth(invest, full model.PriceSeries, initialCapital float64) ([]YearStep, error) {
	if invest.Empty() {
		return nil, errors.New("no prices in investment window")
	}
	if !validCapital(initialCapital) {
		return nil, errCapital
	}

	state := growthState{
		assets:     initialCapital,
		entryPrice: invest.First().Price,
		first:      invest.First(),
	}
	years := invest.Years()
	steps := make([]YearStep, 0, len(years))
	for i, year := range years {
		var (
			step YearStep
			err  error
		)
		state, step, err = advanceYear(state, full, year, i == 0)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// advanceYear applies one year's return to the accumulator.
func advanceYear(state growthState, full model.PriceSeries, year int, firstYear bool) (growthState, YearStep, error) {
	yearEnd, ok := full.LastInYear(year)
	if !ok {
		return state, YearStep{}, fmt.Errorf("no price in %d", year)
	}

	base := state.entryPrice
	if prior, ok := full.LastBeforeYear(year); ok {
		base = prior.Price
		if firstYear && state.first.Date.After(prior.Date) {
			base = state.entryPrice
		}
	}
	if base == 0 {
		return state, YearStep{}, fmt.Errorf("zero base price for %d", year)
	}

	roi := (yearEnd.Price - base) / base
	state.assets *= 1 + roi
	return state, YearStep{Year: year, Assets: state.assets, Roi: roi}, nil
}
