package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"MarketCompare/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps requested symbol to Yahoo ticker
	limiter   *rate.Limiter
}

// NewYahooFetcher creates a Yahoo fetcher limited to rps requests per second.
func NewYahooFetcher(proxyURL string, timeout time.Duration, rps int) *YahooFetcher {
	if rps <= 0 {
		rps = 5
	}
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL, timeout),
		SymbolMap: map[string]string{
			"SPX":   "^GSPC",
			"SP500": "^GSPC",
			"TAIEX": "^TWII",
		},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchSeries downloads daily bars for [start, end], preferring adjusted closes.
func (f *YahooFetcher) FetchSeries(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return model.PriceSeries{}, fmt.Errorf("yahoo rate limit wait: %w", err)
		}
	}

	params := url.Values{}
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	params.Set("interval", "1d")
	params.Set("events", "div|split")
	params.Set("includeAdjustedClose", "true")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.PriceSeries{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return model.PriceSeries{}, fmt.Errorf("yahoo %s: %w", symbol, model.ErrNoDataForSymbol)
	}
	if resp.StatusCode != http.StatusOK {
		return model.PriceSeries{}, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return model.PriceSeries{}, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return model.PriceSeries{}, fmt.Errorf("yahoo %s: %w", symbol, model.ErrNoDataForSymbol)
	}

	result := chart.Chart.Result[0]
	var raw, adjusted []interface{}
	if len(result.Indicators.Quote) > 0 {
		raw = result.Indicators.Quote[0].Close
	}
	if len(result.Indicators.AdjClose) > 0 {
		adjusted = result.Indicators.AdjClose[0].AdjClose
	}
	closes := selectColumn(adjusted, raw, len(result.Timestamp))

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) {
			break
		}
		day := model.Day(time.Unix(ts+result.Meta.GMTOffset, 0).UTC())
		if day.Before(start) || day.After(end) {
			continue
		}
		points = append(points, model.PricePoint{Date: day, Price: toFloat(closes[i])})
	}

	series := model.Clean(symbol, points)
	if series.Empty() {
		return model.PriceSeries{}, fmt.Errorf("yahoo %s: %w", symbol, model.ErrNoDataForSymbol)
	}
	return series, nil
}
