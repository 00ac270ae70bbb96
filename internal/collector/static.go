package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketCompare/internal/model"
)

// StaticFetcher serves fixed in-memory series for development and testing.
type StaticFetcher struct {
	Series map[string][]model.PricePoint
	Errors map[string]error // per-symbol failures to simulate

	mu    sync.Mutex
	calls map[string]int
}

// NewStaticFetcher creates a StaticFetcher over the given series.
func NewStaticFetcher(series map[string][]model.PricePoint) *StaticFetcher {
	return &StaticFetcher{Series: series}
}

func (s *StaticFetcher) Name() string { return "static" }

// FetchSeries returns the stored points within [start, end].
func (s *StaticFetcher) FetchSeries(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[symbol]++
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return model.PriceSeries{}, err
	}
	if err, ok := s.Errors[symbol]; ok {
		return model.PriceSeries{}, err
	}

	var points []model.PricePoint
	for _, p := range s.Series[symbol] {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		points = append(points, p)
	}
	series := model.Clean(symbol, points)
	if series.Empty() {
		return model.PriceSeries{}, fmt.Errorf("static %s: %w", symbol, model.ErrNoDataForSymbol)
	}
	return series, nil
}

// Calls reports how many times symbol was fetched.
func (s *StaticFetcher) Calls(symbol string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[symbol]
}
