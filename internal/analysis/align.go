// Package analysis aligns collected series on a common window, computes each
// symbol's metrics and assembles the comparison report.
package analysis

import (
	"fmt"
	"time"

	"MarketCompare/internal/model"
)

// Align derives the common window over the series listed in order. Symbols
// with no price on or after requestedStart are excluded with ErrNoDataInRange.
// The reference symbol is the first in order whose first in-range date equals
// the window start.
func Align(requestedStart time.Time, order []string, series map[string]model.PriceSeries) (model.AnalysisWindow, []model.Exclusion, error) {
	var (
		window   model.AnalysisWindow
		excluded []model.Exclusion
		included int
	)

	for _, sym := range order {
		s := series[sym]
		first, ok := s.FirstOnOrAfter(requestedStart)
		if !ok {
			excluded = append(excluded, model.Exclusion{
				Symbol: sym,
				Reason: fmt.Errorf("%s after %s: %w", sym, requestedStart.Format(model.DateLayout), model.ErrNoDataInRange),
			})
			continue
		}

		last := s.Last().Date
		if included == 0 {
			window = model.AnalysisWindow{Start: first.Date, End: last, ReferenceSymbol: sym}
		} else {
			if first.Date.After(window.Start) {
				window.Start = first.Date
				window.ReferenceSymbol = sym
			}
			if last.Before(window.End) {
				window.End = last
			}
		}
		included++
	}

	if included == 0 {
		return model.AnalysisWindow{}, excluded, model.ErrEmptyResultSet
	}
	if window.Start.After(window.End) {
		return model.AnalysisWindow{}, excluded, fmt.Errorf("window %s > %s: %w",
			window.Start.Format(model.DateLayout), window.End.Format(model.DateLayout), model.ErrDisjointWindow)
	}
	return window, excluded, nil
}
