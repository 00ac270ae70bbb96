package analysis

import (
	"fmt"

	"MarketCompare/internal/calculator"
	"MarketCompare/internal/model"
)

// SymbolResult is one symbol's display-rounded metrics.
type SymbolResult struct {
	Summary model.SummaryRecord
	Yearly  []model.YearlyRoi
}

// AnalyzeSymbol computes the metrics of full restricted to window, starting
// from initialCapital. Year-end prices are read from full.
func AnalyzeSymbol(full model.PriceSeries, window model.AnalysisWindow, initialCapital float64) (SymbolResult, error) {
	sym := full.Symbol
	invest := full.Between(window.Start, window.End)
	if invest.Empty() {
		return SymbolResult{}, &model.ComputationError{Symbol: sym, Op: "restrict", Err: model.ErrNoDataInRange}
	}

	steps, err := calculator.CalculateYearlyGrowth(invest, full, initialCapital)
	if err != nil {
		return SymbolResult{}, &model.ComputationError{Symbol: sym, Op: "yearly growth", Err: err}
	}
	final := steps[len(steps)-1].Assets

	total, err := calculator.CalculateTotalReturn(final, initialCapital)
	if err != nil {
		return SymbolResult{}, &model.ComputationError{Symbol: sym, Op: "total return", Err: err}
	}

	days := int(invest.Last().Date.Sub(invest.First().Date).Hours() / 24)
	cagr, err := calculator.CalculateCAGR(final, initialCapital, days)
	if err != nil {
		return SymbolResult{}, &model.ComputationError{Symbol: sym, Op: "cagr", Err: err}
	}

	dd, err := calculator.CalculateMaxDrawdown(invest)
	if err != nil {
		return SymbolResult{}, &model.ComputationError{Symbol: sym, Op: "max drawdown", Err: err}
	}

	vol := calculator.CalculateAnnualVolatility(invest.Prices())

	yearly := make([]model.YearlyRoi, len(steps))
	for i, st := range steps {
		yearly[i] = model.YearlyRoi{
			Year:             st.Year,
			CumulativeAssets: calculator.Round(st.Assets, 0),
			RoiPercent:       calculator.Percent(st.Roi),
			RoiLabel:         FormatRoi(st.Roi),
		}
	}

	return SymbolResult{
		Summary: model.SummaryRecord{
			Symbol:              sym,
			FinalAssets:         calculator.Round(final, 0),
			TotalReturnPct:      calculator.Percent(total),
			CagrPct:             calculator.Percent(cagr),
			AnnualVolatilityPct: calculator.Percent(vol),
			MaxDrawdownPct:      calculator.Percent(dd.Max),
			MddStartDate:        dd.Start,
			MddEndDate:          dd.End,
		},
		Yearly: yearly,
	}, nil
}

// FormatRoi renders an unrounded yearly return fraction as a percentage label.
func FormatRoi(roi float64) string {
	return fmt.Sprintf("%.2f%%", roi*100)
}
