// Package recorder persists comparison runs for later review.
package recorder

import (
	"time"

	"MarketCompare/internal/model"
)

// RunSummary is one recorded run as listed by history views.
type RunSummary struct {
	ID              int64
	RecordedAt      time.Time
	WindowStart     time.Time
	WindowEnd       time.Time
	ReferenceSymbol string
	InitialCapital  float64
	Symbols         []string
	Excluded        []string
	Leader          string  // symbol with the best total return
	LeaderReturnPct float64 // its total return in percent
}

// Recorder persists comparison reports.
type Recorder interface {
	RecordRun(r *model.Report) (int64, error)
	RecentRuns(limit int) ([]RunSummary, error)
	Close() error
}
