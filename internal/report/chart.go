package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"MarketCompare/internal/model"
)

var seriesColors = []string{
	"2563eb", // blue-600
	"dc2626", // red-600
	"16a34a", // green-600
	"d97706", // amber-600
	"7c3aed", // violet-600
	"0891b2", // cyan-600
	"db2777", // pink-600
	"4b5563", // gray-600
}

// RenderGrowthChart renders cumulative assets per symbol at each year end as a
// PNG line chart. Each line starts from the initial capital at the window start.
func RenderGrowthChart(r *model.Report) ([]byte, error) {
	if len(r.Years) < 2 {
		return nil, fmt.Errorf("need at least 2 years, got %d", len(r.Years))
	}

	series := make([]chart.Series, 0, len(r.Symbols))
	for i, sym := range r.Symbols {
		yearly := r.Yearly[sym]
		if len(yearly) == 0 {
			continue
		}
		xValues := make([]time.Time, 0, len(yearly)+1)
		yValues := make([]float64, 0, len(yearly)+1)
		xValues = append(xValues, r.Window.Start)
		yValues = append(yValues, r.InitialCapital)
		for _, y := range yearly {
			end := model.Date(y.Year, time.December, 31)
			if end.After(r.Window.End) {
				end = r.Window.End
			}
			if !end.After(xValues[len(xValues)-1]) {
				// window starts on the last day of its first year
				yValues[len(yValues)-1] = y.CumulativeAssets
				continue
			}
			xValues = append(xValues, end)
			yValues = append(yValues, y.CumulativeAssets)
		}
		series = append(series, chart.TimeSeries{
			Name: sym,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(seriesColors[i%len(seriesColors)]),
				StrokeWidth: 2.5,
			},
			XValues: xValues,
			YValues: yValues,
		})
	}

	graph := chart.Chart{
		Title:  "Asset Growth",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("2006")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return FormatAssets(f)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
