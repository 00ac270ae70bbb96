package analysis

import (
	"sort"
	"time"

	"MarketCompare/internal/model"
)

// BuildReport assembles per-symbol results, taken in order, into a Report.
// Summaries are sorted by total return descending; ties keep order.
func BuildReport(window model.AnalysisWindow, initialCapital float64, order []string,
	results map[string]SymbolResult, excluded []model.Exclusion, now time.Time) *model.Report {

	rep := &model.Report{
		Window:         window,
		InitialCapital: initialCapital,
		Symbols:        make([]string, 0, len(order)),
		Summaries:      make([]model.SummaryRecord, 0, len(order)),
		Yearly:         make(map[string][]model.YearlyRoi, len(order)),
		AssetsByYear:   make(map[int]map[string]float64),
		RoiByYear:      make(map[string]map[int]string, len(order)),
		Excluded:       excluded,
		GeneratedAt:    now,
	}

	seenYear := make(map[int]bool)
	for _, sym := range order {
		res, ok := results[sym]
		if !ok {
			continue
		}
		rep.Symbols = append(rep.Symbols, sym)
		rep.Summaries = append(rep.Summaries, res.Summary)
		rep.Yearly[sym] = res.Yearly

		rois := make(map[int]string, len(res.Yearly))
		for _, y := range res.Yearly {
			if rep.AssetsByYear[y.Year] == nil {
				rep.AssetsByYear[y.Year] = make(map[string]float64)
			}
			rep.AssetsByYear[y.Year][sym] = y.CumulativeAssets
			rois[y.Year] = y.RoiLabel
			if !seenYear[y.Year] {
				seenYear[y.Year] = true
				rep.Years = append(rep.Years, y.Year)
			}
		}
		rep.RoiByYear[sym] = rois
	}
	sort.Ints(rep.Years)

	sort.SliceStable(rep.Summaries, func(i, j int) bool {
		return rep.Summaries[i].TotalReturnPct > rep.Summaries[j].TotalReturnPct
	})
	return rep
}
