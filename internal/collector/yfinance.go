package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"MarketCompare/internal/model"
)

// YFinanceFetcher implements Fetcher using the go-yfinance library.
type YFinanceFetcher struct {
	log zerolog.Logger
}

// NewYFinanceFetcher creates a fetcher backed by go-yfinance.
func NewYFinanceFetcher(log zerolog.Logger) *YFinanceFetcher {
	return &YFinanceFetcher{
		log: log.With().Str("client", "yfinance").Logger(),
	}
}

func (f *YFinanceFetcher) Name() string { return "yfinance" }

// FetchSeries downloads the full daily history and keeps [start, end].
// The library has no context support, so cancellation is only checked up front.
func (f *YFinanceFetcher) FetchSeries(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return model.PriceSeries{}, err
	}

	t, err := ticker.New(symbol)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("yfinance ticker %s: %w", symbol, err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     "max",
		Interval:   "1d",
		AutoAdjust: false,
	})
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("yfinance history %s: %w", symbol, err)
	}

	points := barsToPoints(bars, start, end)

	f.log.Debug().Str("symbol", symbol).Int("bars", len(points)).Msg("history fetched")

	series := model.Clean(symbol, points)
	if series.Empty() {
		return model.PriceSeries{}, fmt.Errorf("yfinance %s: %w", symbol, model.ErrNoDataForSymbol)
	}
	return series, nil
}

// barsToPoints keeps bars dated within [start, end]. AdjClose is used when any
// bar carries it, otherwise Close.
func barsToPoints(bars []models.Bar, start, end time.Time) []model.PricePoint {
	useAdjusted := false
	for _, bar := range bars {
		if bar.AdjClose > 0 {
			useAdjusted = true
			break
		}
	}

	points := make([]model.PricePoint, 0, len(bars))
	for _, bar := range bars {
		day := model.Day(bar.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		price := bar.Close
		if useAdjusted {
			price = bar.AdjClose
		}
		points = append(points, model.PricePoint{Date: day, Price: price})
	}
	return points
}
