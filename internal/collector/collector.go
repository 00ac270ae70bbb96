package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"MarketCompare/internal/correction"
	"MarketCompare/internal/model"
)

// HistoryBufferDays is how far before the requested start prices are fetched,
// so the prior-year close is available for the first year's ROI.
const HistoryBufferDays = 400

// DefaultConcurrency bounds parallel fetches when none is configured.
const DefaultConcurrency = 4

// SourceConfig selects and configures a price provider.
type SourceConfig struct {
	Provider  string
	BaseURL   string
	APIKey    string
	Proxy     string
	RateLimit int
	Timeout   time.Duration
}

// NewFetcher builds the Fetcher named by src.Provider.
func NewFetcher(src SourceConfig, log zerolog.Logger) (Fetcher, error) {
	switch src.Provider {
	case "", "yahoo":
		f := NewYahooFetcher(src.Proxy, src.Timeout, src.RateLimit)
		if src.BaseURL != "" {
			f.BaseURL = src.BaseURL
		}
		return f, nil
	case "eodhd":
		if src.APIKey == "" {
			return nil, fmt.Errorf("eodhd provider requires an API key")
		}
		opts := []EODHDOption{
			WithLogger(log),
			WithHTTPClient(newHTTPClient(src.Proxy, src.Timeout)),
		}
		if src.BaseURL != "" {
			opts = append(opts, WithBaseURL(src.BaseURL))
		}
		if src.RateLimit > 0 {
			opts = append(opts, WithRateLimit(src.RateLimit))
		}
		return NewEODHDFetcher(src.APIKey, opts...), nil
	case "yfinance":
		return NewYFinanceFetcher(log), nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", src.Provider)
	}
}

// Collection is the cleaned, corrected price data for one request.
type Collection struct {
	Order    []string // successfully collected symbols, in request order
	Series   map[string]model.PriceSeries
	Excluded []model.Exclusion
}

// Collector orchestrates fetching, validation and correction of price series.
type Collector struct {
	Fetcher     Fetcher
	Rules       correction.Rules
	Concurrency int
	Log         zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, rules correction.Rules, concurrency int, log zerolog.Logger) *Collector {
	return &Collector{
		Fetcher:     fetcher,
		Rules:       rules,
		Concurrency: concurrency,
		Log:         log.With().Str("component", "collector").Logger(),
	}
}

type fetchResult struct {
	series model.PriceSeries
	err    error
}

// Collect fetches every symbol over [start-buffer, end] in parallel. A symbol
// that fails is excluded with its reason; only cancellation fails the call.
func (c *Collector) Collect(ctx context.Context, symbols []string, start, end time.Time) (*Collection, error) {
	from := start.AddDate(0, 0, -HistoryBufferDays)
	limit := c.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	results := make([]fetchResult, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, sym := range symbols {
		g.Go(func() error {
			series, err := c.collectOne(gctx, sym, from, end)
			results[i] = fetchResult{series: series, err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Collection{Series: make(map[string]model.PriceSeries, len(symbols))}
	for i, sym := range symbols {
		r := results[i]
		if r.err != nil {
			c.Log.Warn().Err(r.err).Str("symbol", sym).Msg("excluding symbol")
			out.Excluded = append(out.Excluded, model.Exclusion{Symbol: sym, Reason: r.err})
			continue
		}
		out.Order = append(out.Order, sym)
		out.Series[sym] = r.series
	}
	return out, nil
}

func (c *Collector) collectOne(ctx context.Context, symbol string, from, end time.Time) (model.PriceSeries, error) {
	c.Log.Debug().Str("symbol", symbol).Str("provider", c.Fetcher.Name()).Msg("fetching prices")

	series, err := c.Fetcher.FetchSeries(ctx, symbol, from, end)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	series = model.Clean(symbol, series.Points).Between(from, end)
	if series.Empty() {
		return model.PriceSeries{}, fmt.Errorf("fetch %s: %w", symbol, model.ErrNoDataForSymbol)
	}
	if err := series.Validate(); err != nil {
		return model.PriceSeries{}, fmt.Errorf("validate %s: %w", symbol, err)
	}

	corrected, err := c.Rules.Apply(series)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("correct %s: %w", symbol, err)
	}

	c.Log.Debug().Str("symbol", symbol).Int("points", corrected.Len()).Msg("series collected")
	return corrected, nil
}
