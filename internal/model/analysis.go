package model

import "time"

// AnalysisWindow is the common interval every symbol is measured over.
type AnalysisWindow struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	ReferenceSymbol string    `json:"reference_symbol"`
}

// YearlyRoi is one calendar year of a symbol's simulated growth.
type YearlyRoi struct {
	Year             int     `json:"year"`
	CumulativeAssets float64 `json:"cumulative_assets"` // rounded to whole units
	RoiPercent       float64 `json:"roi_percent"`       // rounded to 2 decimals
	RoiLabel         string  `json:"roi_label"`         // "%.2f%%" of the unrounded return
}

// SummaryRecord holds a symbol's display-rounded statistics over the window.
type SummaryRecord struct {
	Symbol              string    `json:"symbol"`
	FinalAssets         float64   `json:"final_assets"`
	TotalReturnPct      float64   `json:"total_return_pct"`
	CagrPct             float64   `json:"cagr_pct"`
	AnnualVolatilityPct float64   `json:"annual_volatility_pct"`
	MaxDrawdownPct      float64   `json:"max_drawdown_pct"`
	MddStartDate        time.Time `json:"mdd_start_date"`
	MddEndDate          time.Time `json:"mdd_end_date"`
}

// MddPeriod formats the drawdown span as "start ~ end".
func (s SummaryRecord) MddPeriod() string {
	return s.MddStartDate.Format(DateLayout) + " ~ " + s.MddEndDate.Format(DateLayout)
}

// Report is the complete output of one comparison run.
type Report struct {
	Window         AnalysisWindow             `json:"window"`
	InitialCapital float64                    `json:"initial_capital"`
	Symbols        []string                   `json:"symbols"`
	Summaries      []SummaryRecord            `json:"summaries"`
	Yearly         map[string][]YearlyRoi     `json:"yearly"`
	Years          []int                      `json:"years"`
	AssetsByYear   map[int]map[string]float64 `json:"assets_by_year"`
	RoiByYear      map[string]map[int]string  `json:"roi_by_year"`
	Excluded       []Exclusion                `json:"excluded"`
	GeneratedAt    time.Time                  `json:"generated_at"`
}

// ExcludedSymbols lists the excluded symbols in exclusion order.
func (r *Report) ExcludedSymbols() []string {
	out := make([]string, len(r.Excluded))
	for i, e := range r.Excluded {
		out[i] = e.Symbol
	}
	return out
}
