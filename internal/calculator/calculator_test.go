package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketCompare/internal/model"
)

func d(y int, m time.Month, day int) time.Time { return model.Date(y, m, day) }

func mkSeries(dates []time.Time, prices []float64) model.PriceSeries {
	pts := make([]model.PricePoint, len(dates))
	for i := range dates {
		pts[i] = model.PricePoint{Date: dates[i], Price: prices[i]}
	}
	return model.PriceSeries{Symbol: "TEST", Points: pts, Corrected: true}
}

func consecutiveDays(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

func TestCalculateMaxDrawdown(t *testing.T) {
	start := d(2021, time.March, 1)
	tests := []struct {
		name      string
		prices    []float64
		wantMax   float64
		wantStart int
		wantEnd   int
	}{
		{"monotonic increase", []float64{1, 2, 3, 4, 5}, 0, 0, 0},
		{"single point", []float64{42}, 0, 0, 0},
		{"flat", []float64{10, 10, 10}, 0, 0, 0},
		{"one dip", []float64{100, 120, 90, 130}, -0.25, 1, 2},
		{"deepest of two dips", []float64{100, 80, 110, 200, 120, 150}, -0.4, 3, 4},
		{"repeated peak uses first", []float64{100, 50, 100, 50}, -0.5, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := consecutiveDays(start, len(tt.prices))
			dd, err := CalculateMaxDrawdown(mkSeries(dates, tt.prices))
			require.NoError(t, err)
			assert.InDelta(t, tt.wantMax, dd.Max, 1e-12)
			assert.Equal(t, dates[tt.wantStart], dd.Start)
			assert.Equal(t, dates[tt.wantEnd], dd.End)
		})
	}
}

func TestCalculateMaxDrawdown_MonotonicIsExactlyZero(t *testing.T) {
	prices := make([]float64, 500)
	for i := range prices {
		prices[i] = 10 + float64(i)*0.37
	}
	dd, err := CalculateMaxDrawdown(mkSeries(consecutiveDays(d(2000, time.January, 1), 500), prices))
	require.NoError(t, err)
	assert.Equal(t, 0.0, dd.Max)
}

func TestCalculateMaxDrawdown_Empty(t *testing.T) {
	_, err := CalculateMaxDrawdown(model.PriceSeries{})
	assert.Error(t, err)
}

func TestCalculateAnnualVolatility(t *testing.T) {
	assert.Equal(t, 0.0, CalculateAnnualVolatility(nil))
	assert.Equal(t, 0.0, CalculateAnnualVolatility([]float64{100}))
	assert.Equal(t, 0.0, CalculateAnnualVolatility([]float64{100, 110}), "single return has zero deviation")
	assert.Equal(t, 0.0, CalculateAnnualVolatility([]float64{100, 110, 121}))

	// returns +10%, -10%: mean 0, sample variance 0.02
	got := CalculateAnnualVolatility([]float64{100, 110, 99})
	assert.InDelta(t, math.Sqrt(0.02)*math.Sqrt(252), got, 1e-12)
}

func TestCalculateCAGR(t *testing.T) {
	got, err := CalculateCAGR(12100, 10000, 731)
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(1.21, 365.25/731)-1, got, 1e-12)
	assert.InDelta(t, 0.10, got, 0.001)

	zero, err := CalculateCAGR(12100, 10000, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero)
	assert.False(t, math.IsNaN(zero))

	_, err = CalculateCAGR(1, 0, 10)
	assert.Error(t, err)
}

func TestRoundAndPercent(t *testing.T) {
	assert.Equal(t, 12100.0, Round(12099.5, 0))
	assert.Equal(t, -12100.0, Round(-12099.5, 0))
	assert.Equal(t, 21.0, Percent(0.21))
	assert.Equal(t, 9.99, Percent(math.Pow(1.21, 365.25/731)-1))
	assert.Equal(t, -33.33, Percent(-1.0/3))

	// ties round to the even digit
	assert.Equal(t, 10012.0, Round(10012.5, 0))
	assert.Equal(t, 10014.0, Round(10013.5, 0))
	assert.Equal(t, 0.12, Round(0.125, 2))
	assert.Equal(t, 2.67, Round(2.675, 2))
	assert.Equal(t, 0.0, Round(-0.001, 2))
	assert.False(t, math.Signbit(Round(-0.001, 2)))
}

func TestCalculateYearlyGrowth_EndToEnd(t *testing.T) {
	s := mkSeries(
		[]time.Time{d(2020, time.January, 1), d(2021, time.January, 1), d(2022, time.January, 1)},
		[]float64{100, 110, 121},
	)

	steps, err := CalculateYearlyGrowth(s, s, 10000)
	require.NoError(t, err)
	require.Len(t, steps, 3)

	assert.Equal(t, 2020, steps[0].Year)
	assert.InDelta(t, 0, steps[0].Roi, 1e-12)
	assert.InDelta(t, 0.10, steps[1].Roi, 1e-12)
	assert.InDelta(t, 0.10, steps[2].Roi, 1e-12)
	assert.InDelta(t, 12100, steps[2].Assets, 1e-9)

	total, err := CalculateTotalReturn(steps[2].Assets, 10000)
	require.NoError(t, err)
	assert.InDelta(t, 0.21, total, 1e-12)
}

func TestCalculateYearlyGrowth_FirstYearUsesEntryPrice(t *testing.T) {
	full := mkSeries(
		[]time.Time{
			d(2019, time.December, 31), // stale prior-year close
			d(2020, time.June, 1),      // investment entry
			d(2020, time.December, 31),
			d(2021, time.December, 31),
		},
		[]float64{50, 100, 120, 90},
	)
	invest := full.Between(d(2020, time.June, 1), d(2021, time.December, 31))

	steps, err := CalculateYearlyGrowth(invest, full, 10000)
	require.NoError(t, err)
	require.Len(t, steps, 2)

	assert.InDelta(t, 0.20, steps[0].Roi, 1e-12, "first year measured from entry, not 2019 close")
	assert.InDelta(t, -0.25, steps[1].Roi, 1e-12, "later years use prior year close")
	assert.InDelta(t, 9000, steps[1].Assets, 1e-9)
}

func TestCalculateYearlyGrowth_YearEndFromUnrestrictedSeries(t *testing.T) {
	full := mkSeries(
		[]time.Time{d(2020, time.January, 2), d(2020, time.March, 2), d(2020, time.April, 1)},
		[]float64{100, 105, 130},
	)
	invest := full.Between(d(2020, time.January, 1), d(2020, time.March, 2))

	steps, err := CalculateYearlyGrowth(invest, full, 1000)
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.InDelta(t, 0.30, steps[0].Roi, 1e-12)
}

func TestCalculateYearlyGrowth_CompoundingMatchesTotalReturn(t *testing.T) {
	dates := consecutiveDays(d(2015, time.November, 20), 1200)
	prices := make([]float64, len(dates))
	for i := range prices {
		prices[i] = 100 * (1 + 0.3*math.Sin(float64(i)/45)) * (1 + float64(i)/2000)
	}
	full := mkSeries(dates, prices)
	invest := full.Between(d(2016, time.February, 1), dates[len(dates)-1])

	steps, err := CalculateYearlyGrowth(invest, full, 10000)
	require.NoError(t, err)

	product := 1.0
	for _, s := range steps {
		product *= 1 + s.Roi
	}
	total, err := CalculateTotalReturn(steps[len(steps)-1].Assets, 10000)
	require.NoError(t, err)
	assert.InDelta(t, product-1, total, 1e-9)
}

func TestCalculateYearlyGrowth_Errors(t *testing.T) {
	_, err := CalculateYearlyGrowth(model.PriceSeries{}, model.PriceSeries{}, 10000)
	assert.Error(t, err)

	s := mkSeries([]time.Time{d(2020, time.January, 1)}, []float64{1})
	_, err = CalculateYearlyGrowth(s, s, 0)
	assert.Error(t, err)
	_, err = CalculateYearlyGrowth(s, s, math.NaN())
	assert.Error(t, err)
	_, err = CalculateYearlyGrowth(s, s, math.Inf(1))
	assert.Error(t, err)
	_, err = CalculateTotalReturn(1, math.NaN())
	assert.Error(t, err)
}

func TestCalculateDailyReturns(t *testing.T) {
	assert.Nil(t, CalculateDailyReturns([]float64{5}))
	got := CalculateDailyReturns([]float64{100, 110, 99})
	require.Len(t, got, 2)
	assert.InDelta(t, 0.1, got[0], 1e-12)
	assert.InDelta(t, -0.1, got[1], 1e-12)
}
