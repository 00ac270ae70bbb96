package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"MarketCompare/internal/model"
)

// SQLiteRecorder persists comparison runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets history reads proceed while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			window_start     TEXT NOT NULL,
			window_end       TEXT NOT NULL,
			reference_symbol TEXT NOT NULL,
			initial_capital  REAL NOT NULL,
			symbols          TEXT NOT NULL,
			excluded         TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS run_summaries (
			run_id           INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank             INTEGER NOT NULL,
			symbol           TEXT NOT NULL,
			final_assets     REAL,
			total_return_pct REAL,
			cagr_pct         REAL,
			volatility_pct   REAL,
			mdd_pct          REAL,
			mdd_start        TEXT,
			mdd_end          TEXT,
			PRIMARY KEY (run_id, symbol)
		)`,

		`CREATE TABLE IF NOT EXISTS run_yearly (
			run_id            INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			symbol            TEXT NOT NULL,
			year              INTEGER NOT NULL,
			cumulative_assets REAL,
			roi_pct           REAL,
			PRIMARY KEY (run_id, symbol, year)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the report's window, summaries and yearly rows in one
// transaction and returns the new run id.
func (r *SQLiteRecorder) RecordRun(rep *model.Report) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rep.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs
		(timestamp, window_start, window_end, reference_symbol, initial_capital, symbols, excluded)
		VALUES (?,?,?,?,?,?,?)`,
		ts.Unix(),
		rep.Window.Start.Format(model.DateLayout),
		rep.Window.End.Format(model.DateLayout),
		rep.Window.ReferenceSymbol,
		rep.InitialCapital,
		strings.Join(rep.Symbols, ","),
		strings.Join(rep.ExcludedSymbols(), ","),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for rank, s := range rep.Summaries {
		if _, err := tx.Exec(`INSERT INTO run_summaries
			(run_id, rank, symbol, final_assets, total_return_pct, cagr_pct, volatility_pct, mdd_pct, mdd_start, mdd_end)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			runID, rank, s.Symbol, s.FinalAssets, s.TotalReturnPct, s.CagrPct,
			s.AnnualVolatilityPct, s.MaxDrawdownPct,
			s.MddStartDate.Format(model.DateLayout), s.MddEndDate.Format(model.DateLayout),
		); err != nil {
			return 0, fmt.Errorf("insert summary %s: %w", s.Symbol, err)
		}
	}

	for _, sym := range rep.Symbols {
		for _, y := range rep.Yearly[sym] {
			if _, err := tx.Exec(`INSERT INTO run_yearly
				(run_id, symbol, year, cumulative_assets, roi_pct)
				VALUES (?,?,?,?,?)`,
				runID, sym, y.Year, y.CumulativeAssets, y.RoiPercent,
			); err != nil {
				return 0, fmt.Errorf("insert yearly %s %d: %w", sym, y.Year, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	r.log.Debug().Int64("run_id", runID).Int("symbols", len(rep.Symbols)).Msg("run recorded")
	return runID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(`SELECT r.id, r.timestamp, r.window_start, r.window_end,
			r.reference_symbol, r.initial_capital, r.symbols, r.excluded,
			COALESCE(s.symbol, ''), COALESCE(s.total_return_pct, 0)
		FROM runs r
		LEFT JOIN run_summaries s ON s.run_id = r.id AND s.rank = 0
		ORDER BY r.id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			run                  RunSummary
			ts                   int64
			start, end           string
			symbols, excludedCSV string
		)
		if err := rows.Scan(&run.ID, &ts, &start, &end, &run.ReferenceSymbol, &run.InitialCapital,
			&symbols, &excludedCSV, &run.Leader, &run.LeaderReturnPct); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.RecordedAt = time.Unix(ts, 0)
		if run.WindowStart, err = model.ParseDate(start); err != nil {
			return nil, err
		}
		if run.WindowEnd, err = model.ParseDate(end); err != nil {
			return nil, err
		}
		run.Symbols = splitList(symbols)
		run.Excluded = splitList(excludedCSV)
		out = append(out, run)
	}
	return out, rows.Err()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
