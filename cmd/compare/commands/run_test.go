package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketCompare/internal/model"
)

func TestApplyRunFlags(t *testing.T) {
	base := model.Request{
		Start:          model.Date(2010, time.January, 1),
		End:            model.Date(2024, time.June, 28),
		InitialCapital: 10000,
		Symbols:        []string{"0050.TW", "QQQ"},
	}

	req, err := applyRunFlags(base, nil, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, base, req)

	capital := 2500.0
	req, err = applyRunFlags(base, []string{"spy", " vti "}, "2015-03-01", "2020-12-31", &capital)
	require.NoError(t, err)
	assert.Equal(t, []string{"SPY", "VTI"}, req.Symbols)
	assert.Equal(t, model.Date(2015, time.March, 1), req.Start)
	assert.Equal(t, model.Date(2020, time.December, 31), req.End)
	assert.Equal(t, 2500.0, req.InitialCapital)

	_, err = applyRunFlags(base, nil, "01/01/2015", "", nil)
	assert.Error(t, err)

	zero := 0.0
	req, err = applyRunFlags(base, nil, "", "", &zero)
	require.NoError(t, err)
	assert.Equal(t, 0.0, req.InitialCapital)
	assert.ErrorIs(t, req.Validate(model.Date(2024, time.June, 30)), model.ErrInvalidRequest)
}

func TestWriteReport_JSON(t *testing.T) {
	rep := &model.Report{
		Window:         model.AnalysisWindow{Start: model.Date(2020, 1, 2), End: model.Date(2021, 12, 30), ReferenceSymbol: "QQQ"},
		InitialCapital: 10000,
		Symbols:        []string{"QQQ"},
		Summaries:      []model.SummaryRecord{{Symbol: "QQQ", FinalAssets: 17000, TotalReturnPct: 70}},
		Excluded:       []model.Exclusion{{Symbol: "XYZ", Reason: errors.New("no data for symbol")}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, rep, "json"))

	var decoded struct {
		Window struct {
			ReferenceSymbol string `json:"reference_symbol"`
		} `json:"window"`
		Summaries []struct {
			Symbol         string  `json:"symbol"`
			TotalReturnPct float64 `json:"total_return_pct"`
		} `json:"summaries"`
		Excluded []struct {
			Symbol string `json:"symbol"`
			Reason string `json:"reason"`
		} `json:"excluded"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "QQQ", decoded.Window.ReferenceSymbol)
	require.Len(t, decoded.Summaries, 1)
	assert.Equal(t, 70.0, decoded.Summaries[0].TotalReturnPct)
	require.Len(t, decoded.Excluded, 1)
	assert.Equal(t, "no data for symbol", decoded.Excluded[0].Reason)
}

func TestWriteReport_Markdown(t *testing.T) {
	rep := &model.Report{
		Window:    model.AnalysisWindow{Start: model.Date(2020, 1, 2), End: model.Date(2021, 12, 30), ReferenceSymbol: "QQQ"},
		Symbols:   []string{"QQQ"},
		Summaries: []model.SummaryRecord{{Symbol: "QQQ", TotalReturnPct: 70}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, rep, "markdown"))
	assert.Contains(t, buf.String(), "70.00%")
}
