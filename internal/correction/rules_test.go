package correction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketCompare/internal/model"
)

func series(symbol string, pts ...model.PricePoint) model.PriceSeries {
	return model.PriceSeries{Symbol: symbol, Points: pts}
}

func pt(y int, m time.Month, d int, price float64) model.PricePoint {
	return model.PricePoint{Date: model.Date(y, m, d), Price: price}
}

func TestApply_0050AtCutoffBoundary(t *testing.T) {
	raw := series("0050.TW",
		pt(2013, time.December, 30, 240),
		pt(2013, time.December, 31, 244),
		pt(2014, time.January, 2, 61.5),
		pt(2014, time.January, 3, 62),
	)

	got, err := Default.Apply(raw)
	require.NoError(t, err)

	assert.True(t, got.Corrected)
	assert.Equal(t, []float64{60, 61, 61.5, 62}, got.Prices())
	// input untouched
	assert.Equal(t, []float64{240, 244, 61.5, 62}, raw.Prices())
	assert.False(t, raw.Corrected)
}

func TestApply_0052AtCutoffBoundary(t *testing.T) {
	raw := series("0052.TW",
		pt(2025, time.November, 14, 280),
		pt(2025, time.November, 17, 40.5),
	)

	got, err := Default.Apply(raw)
	require.NoError(t, err)
	assert.Equal(t, []float64{40, 40.5}, got.Prices())
}

func TestApply_UnknownSymbolIsIdentity(t *testing.T) {
	raw := series("QQQ", pt(2010, time.January, 4, 46.4), pt(2010, time.January, 5, 46.4))

	got, err := Default.Apply(raw)
	require.NoError(t, err)
	assert.Equal(t, raw.Points, got.Points)
	assert.True(t, got.Corrected)
}

func TestApply_RefusesSecondPass(t *testing.T) {
	raw := series("0050.TW", pt(2013, time.December, 31, 244))

	once, err := Default.Apply(raw)
	require.NoError(t, err)

	_, err = Default.Apply(once)
	require.ErrorIs(t, err, ErrAlreadyCorrected)
	assert.Equal(t, []float64{61}, once.Prices())
}

func TestApply_RulesRunInRegistrationOrder(t *testing.T) {
	rules := Rules{"ABC": {
		{Cutoff: model.Date(2020, time.January, 1), Divisor: 2},
		{Cutoff: model.Date(2021, time.January, 1), Divisor: 5},
	}}
	raw := series("ABC",
		pt(2019, time.June, 1, 100),
		pt(2020, time.June, 1, 100),
		pt(2021, time.June, 1, 100),
	)

	got, err := rules.Apply(raw)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 100}, got.Prices())
}

func TestMergeAndValidate(t *testing.T) {
	extra := Rules{"0050.TW": {{Cutoff: model.Date(2000, time.January, 1), Divisor: 2}}}
	merged := Default.Merge(extra)

	require.Len(t, merged["0050.TW"], 2)
	assert.Len(t, Default["0050.TW"], 1, "merge must not modify the receiver")
	assert.Equal(t, []string{"0050.TW", "0052.TW"}, merged.Symbols())
	assert.NoError(t, merged.Validate())

	bad := Rules{"X": {{Cutoff: model.Date(2000, time.January, 1), Divisor: 0}}}
	assert.Error(t, bad.Validate())
	assert.Error(t, Rules{"Y": {{Divisor: 2}}}.Validate())
}
