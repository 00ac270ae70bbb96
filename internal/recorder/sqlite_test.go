package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketCompare/internal/model"
)

func testReport(leader string, total float64) *model.Report {
	return &model.Report{
		Window: model.AnalysisWindow{
			Start:           model.Date(2020, time.January, 2),
			End:             model.Date(2021, time.December, 30),
			ReferenceSymbol: "AAA",
		},
		InitialCapital: 10000,
		Symbols:        []string{"AAA", leader},
		Summaries: []model.SummaryRecord{
			{Symbol: leader, FinalAssets: 10000 * (1 + total/100), TotalReturnPct: total,
				MddStartDate: model.Date(2020, time.February, 1), MddEndDate: model.Date(2020, time.March, 20)},
			{Symbol: "AAA", FinalAssets: 10500, TotalReturnPct: 5,
				MddStartDate: model.Date(2020, time.February, 1), MddEndDate: model.Date(2020, time.March, 20)},
		},
		Yearly: map[string][]model.YearlyRoi{
			"AAA":  {{Year: 2020, CumulativeAssets: 10200, RoiPercent: 2}, {Year: 2021, CumulativeAssets: 10500, RoiPercent: 2.94}},
			leader: {{Year: 2020, CumulativeAssets: 11000, RoiPercent: 10}},
		},
		Excluded:    []model.Exclusion{{Symbol: "ZZZ", Reason: errors.New("no data")}},
		GeneratedAt: time.Unix(1700000000, 0),
	}
}

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openTestRecorder(t)

	id1, err := r.RecordRun(testReport("BBB", 30))
	require.NoError(t, err)
	id2, err := r.RecordRun(testReport("CCC", 45.5))
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	runs, err := r.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	latest := runs[0]
	assert.Equal(t, id2, latest.ID)
	assert.Equal(t, "CCC", latest.Leader)
	assert.Equal(t, 45.5, latest.LeaderReturnPct)
	assert.Equal(t, []string{"AAA", "CCC"}, latest.Symbols)
	assert.Equal(t, []string{"ZZZ"}, latest.Excluded)
	assert.Equal(t, model.Date(2020, time.January, 2), latest.WindowStart)
	assert.Equal(t, model.Date(2021, time.December, 30), latest.WindowEnd)
	assert.Equal(t, "AAA", latest.ReferenceSymbol)
	assert.Equal(t, int64(1700000000), latest.RecordedAt.Unix())

	var yearly int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM run_yearly WHERE run_id = ?`, id1).Scan(&yearly))
	assert.Equal(t, 3, yearly)
}

func TestSQLiteRecorder_RecentRunsLimit(t *testing.T) {
	r := openTestRecorder(t)
	for i := 0; i < 3; i++ {
		_, err := r.RecordRun(testReport("BBB", float64(i)))
		require.NoError(t, err)
	}

	runs, err := r.RecentRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSQLiteRecorder_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	r, err := NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	_, err = r.RecordRun(testReport("BBB", 12))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path, zerolog.Nop())
	require.NoError(t, err)
	defer r.Close()
	runs, err := r.RecentRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "BBB", runs[0].Leader)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	id, err := r.RecordRun(testReport("BBB", 1))
	assert.NoError(t, err)
	assert.Zero(t, id)
	runs, err := r.RecentRuns(5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
