// Package report renders comparison reports for people: Markdown, terminal
// output and a growth chart.
package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
	md "github.com/nao1215/markdown"

	"MarketCompare/internal/model"
)

// Markdown renders the full report: window, summary, yearly ROI and exclusions.
func Markdown(r *model.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Investment Comparison")
	doc.PlainText(fmt.Sprintf("Window: %s ~ %s (reference %s), initial capital %s",
		r.Window.Start.Format(model.DateLayout),
		r.Window.End.Format(model.DateLayout),
		md.Bold(r.Window.ReferenceSymbol),
		FormatAssets(r.InitialCapital)))

	doc.H2("Summary")
	summary := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Symbol", "Final Assets", "Total Return", "CAGR", "Volatility", "Max Drawdown", "MDD Period"},
	}
	for _, s := range r.Summaries {
		summary.Rows = append(summary.Rows, []string{
			md.Bold(s.Symbol),
			FormatAssets(s.FinalAssets),
			FormatPercent(s.TotalReturnPct),
			FormatPercent(s.CagrPct),
			FormatPercent(s.AnnualVolatilityPct),
			FormatPercent(s.MaxDrawdownPct),
			s.MddPeriod(),
		})
	}
	doc.Table(summary)

	if len(r.Years) > 0 {
		doc.H2("Yearly ROI")
		doc.Table(yearlyTable(r, func(sym string, year int) string {
			return r.RoiByYear[sym][year]
		}))

		doc.H2("Assets by Year")
		doc.Table(yearlyTable(r, func(sym string, year int) string {
			v, ok := r.AssetsByYear[year][sym]
			if !ok {
				return ""
			}
			return FormatAssets(v)
		}))
	}

	if len(r.Excluded) > 0 {
		doc.H2("Excluded")
		items := make([]string, len(r.Excluded))
		for i, e := range r.Excluded {
			items[i] = e.String()
		}
		doc.BulletList(items...)
	}

	return doc.String()
}

// yearlyTable lays out years as rows and symbols as columns.
func yearlyTable(r *model.Report, cell func(sym string, year int) string) md.TableSet {
	align := []md.TableAlignment{md.AlignLeft}
	header := []string{"Year"}
	for _, sym := range r.Symbols {
		align = append(align, md.AlignRight)
		header = append(header, sym)
	}
	t := md.TableSet{Alignment: align, Header: header}
	for _, year := range r.Years {
		row := []string{strconv.Itoa(year)}
		for _, sym := range r.Symbols {
			row = append(row, cell(sym, year))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatAssets renders a whole-unit amount with thousands separators.
func FormatAssets(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return humanize.Comma(int64(math.Round(v)))
}
