package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"MarketCompare/internal/collector"
	"MarketCompare/internal/model"
)

// Source supplies cleaned, corrected series for a set of symbols.
type Source interface {
	Collect(ctx context.Context, symbols []string, start, end time.Time) (*collector.Collection, error)
}

// Runner executes comparison requests end to end.
type Runner struct {
	source Source
	log    zerolog.Logger
	now    func() time.Time
}

// NewRunner creates a Runner reading prices from source.
func NewRunner(source Source, log zerolog.Logger) *Runner {
	return &Runner{
		source: source,
		log:    log.With().Str("component", "runner").Logger(),
		now:    time.Now,
	}
}

// Compare validates req, collects prices, aligns the window and computes every
// symbol's metrics. A panic anywhere in the run surfaces as *ComputationError.
func (r *Runner) Compare(ctx context.Context, req model.Request) (rep *model.Report, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Interface("panic", p).Msg("comparison panicked")
			rep = nil
			err = &model.ComputationError{Op: "compare", Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	now := r.now()
	req = req.Normalize()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	r.log.Info().
		Strs("symbols", req.Symbols).
		Str("start", req.Start.Format(model.DateLayout)).
		Str("end", req.End.Format(model.DateLayout)).
		Msg("starting comparison")

	coll, err := r.source.Collect(ctx, req.Symbols, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("collect prices: %w", err)
	}
	if len(coll.Order) == 0 {
		return nil, emptyResult(coll.Excluded)
	}

	window, outOfRange, err := Align(req.Start, coll.Order, coll.Series)
	excluded := append(append([]model.Exclusion(nil), coll.Excluded...), outOfRange...)
	if err != nil {
		if errors.Is(err, model.ErrEmptyResultSet) {
			return nil, emptyResult(excluded)
		}
		return nil, err
	}

	r.log.Info().
		Str("window_start", window.Start.Format(model.DateLayout)).
		Str("window_end", window.End.Format(model.DateLayout)).
		Str("reference", window.ReferenceSymbol).
		Msg("window aligned")

	dropped := make(map[string]bool, len(outOfRange))
	for _, e := range outOfRange {
		dropped[e.Symbol] = true
	}

	results := make(map[string]SymbolResult, len(coll.Order))
	for _, sym := range coll.Order {
		if dropped[sym] {
			continue
		}
		res, err := AnalyzeSymbol(coll.Series[sym], window, req.InitialCapital)
		if err != nil {
			return nil, err
		}
		results[sym] = res
	}

	return BuildReport(window, req.InitialCapital, coll.Order, results, excluded, now), nil
}

func emptyResult(excluded []model.Exclusion) error {
	if len(excluded) == 0 {
		return model.ErrEmptyResultSet
	}
	reasons := make([]string, len(excluded))
	for i, e := range excluded {
		reasons[i] = e.String()
	}
	return fmt.Errorf("%w: all symbols excluded (%s)", model.ErrEmptyResultSet, strings.Join(reasons, "; "))
}
