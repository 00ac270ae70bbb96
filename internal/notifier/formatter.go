package notifier

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"
	"text/tabwriter"

	"MarketCompare/internal/correction"
	"MarketCompare/internal/model"
	"MarketCompare/internal/recorder"
	"MarketCompare/internal/report"
)

// FormatReport formats a comparison report into a Telegram HTML message.
func FormatReport(r *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Investment Comparison</b> | %s\n\n", r.GeneratedAt.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("Window: %s ~ %s\n",
		r.Window.Start.Format(model.DateLayout), r.Window.End.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("Reference: %s\n", html.EscapeString(r.Window.ReferenceSymbol)))
	b.WriteString(fmt.Sprintf("Initial capital: %s\n\n", report.FormatAssets(r.InitialCapital)))

	b.WriteString("📈 <b>Summary</b>\n")
	b.WriteString(preTable(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "Symbol\tFinal\tTotal\tCAGR\tVol\tMDD\t")
		for _, s := range r.Summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
				s.Symbol,
				report.FormatAssets(s.FinalAssets),
				report.FormatPercent(s.TotalReturnPct),
				report.FormatPercent(s.CagrPct),
				report.FormatPercent(s.AnnualVolatilityPct),
				report.FormatPercent(s.MaxDrawdownPct))
		}
	}))

	b.WriteString("📉 <b>Max drawdown periods</b>\n")
	for _, s := range r.Summaries {
		b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(s.Symbol), s.MddPeriod()))
	}
	b.WriteString("\n")

	if len(r.Years) > 0 {
		b.WriteString("📅 <b>Yearly ROI</b>\n")
		b.WriteString(preTable(func(w *tabwriter.Writer) {
			fmt.Fprint(w, "Year\t")
			for _, sym := range r.Symbols {
				fmt.Fprintf(w, "%s\t", sym)
			}
			fmt.Fprintln(w)
			for _, year := range r.Years {
				fmt.Fprintf(w, "%d\t", year)
				for _, sym := range r.Symbols {
					fmt.Fprintf(w, "%s\t", r.RoiByYear[sym][year])
				}
				fmt.Fprintln(w)
			}
		}))
	}

	if len(r.Excluded) > 0 {
		b.WriteString("⚠️ <b>Excluded</b>\n")
		for _, e := range r.Excluded {
			b.WriteString("  " + html.EscapeString(e.String()) + "\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// preTable renders aligned columns inside an HTML <pre> block.
func preTable(fill func(w *tabwriter.Writer)) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 1, ' ', tabwriter.AlignRight)
	fill(w)
	w.Flush()
	return "<pre>" + html.EscapeString(buf.String()) + "</pre>\n\n"
}

// FormatError formats a failed run for a Telegram reply.
func FormatError(err error) string {
	return "❌ " + html.EscapeString(err.Error())
}

// FormatHistory formats recorded runs, newest first.
func FormatHistory(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "🗂 No recorded runs yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent runs</b>\n\n")
	for _, run := range runs {
		b.WriteString(fmt.Sprintf("#%d %s | %s ~ %s\n",
			run.ID,
			run.RecordedAt.Format("2006-01-02 15:04"),
			run.WindowStart.Format(model.DateLayout),
			run.WindowEnd.Format(model.DateLayout)))
		b.WriteString(fmt.Sprintf("   %s\n", html.EscapeString(strings.Join(run.Symbols, ", "))))
		if run.Leader != "" {
			b.WriteString(fmt.Sprintf("   🏆 %s %s\n", html.EscapeString(run.Leader), report.FormatPercent(run.LeaderReturnPct)))
		}
		if len(run.Excluded) > 0 {
			b.WriteString(fmt.Sprintf("   excluded: %s\n", html.EscapeString(strings.Join(run.Excluded, ", "))))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatRules lists the effective price corrections.
func FormatRules(rules correction.Rules) string {
	if len(rules) == 0 {
		return "🔧 No price corrections configured."
	}
	var b strings.Builder
	b.WriteString("🔧 <b>Price corrections</b>\n\n")
	for _, sym := range rules.Symbols() {
		for _, rule := range rules[sym] {
			b.WriteString(fmt.Sprintf("%s: prices before %s ÷ %s\n",
				html.EscapeString(sym),
				rule.Cutoff.Format(model.DateLayout),
				strconv.FormatFloat(rule.Divisor, 'f', -1, 64)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// HelpText lists the supported commands.
func HelpText() string {
	return strings.Join([]string{
		"🤖 <b>Commands</b>",
		"",
		"/compare SYM [SYM...] [from=YYYY-MM-DD] [to=YYYY-MM-DD] [capital=N] - run a comparison",
		"/history - recent recorded runs",
		"/rules - price corrections in effect",
		"/help - this message",
	}, "\n")
}
