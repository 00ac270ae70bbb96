package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"MarketCompare/internal/model"
)

const (
	// DefaultEODHDBaseURL is the public EODHD API root.
	DefaultEODHDBaseURL = "https://eodhd.com/api"
	// DefaultEODHDRateLimit is the request rate per second used when none is set.
	DefaultEODHDRateLimit = 10
)

// flexFloat accepts numbers encoded either as JSON numbers or strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(num)
		return nil
	}
	// null and anything else become a missing value
	*f = 0
	return nil
}

// EODHDFetcher implements Fetcher using the EODHD end-of-day API.
type EODHDFetcher struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// EODHDOption configures the fetcher.
type EODHDOption func(*EODHDFetcher)

// WithBaseURL sets the base URL.
func WithBaseURL(baseURL string) EODHDOption {
	return func(f *EODHDFetcher) {
		f.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) EODHDOption {
	return func(f *EODHDFetcher) {
		f.log = log
	}
}

// WithRateLimit sets the request rate.
func WithRateLimit(requestsPerSecond int) EODHDOption {
	return func(f *EODHDFetcher) {
		if requestsPerSecond > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithHTTPClient replaces the HTTP client, e.g. to route through a proxy.
func WithHTTPClient(c *http.Client) EODHDOption {
	return func(f *EODHDFetcher) {
		f.httpClient = c
	}
}

// NewEODHDFetcher creates an EODHD fetcher.
func NewEODHDFetcher(apiKey string, opts ...EODHDOption) *EODHDFetcher {
	f := &EODHDFetcher{
		baseURL:    DefaultEODHDBaseURL,
		apiKey:     apiKey,
		httpClient: newHTTPClient("", 0),
		limiter:    rate.NewLimiter(rate.Limit(DefaultEODHDRateLimit), DefaultEODHDRateLimit),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *EODHDFetcher) Name() string { return "eodhd" }

// APIError is returned for non-200 responses.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

type eodBar struct {
	Date          string    `json:"date"`
	Close         flexFloat `json:"close"`
	AdjustedClose flexFloat `json:"adjusted_close"`
}

// eodhdTicker maps a symbol to EODHD's CODE.EXCHANGE form; bare tickers
// default to the US exchange.
func eodhdTicker(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".US"
}

func (f *EODHDFetcher) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", f.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", f.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	f.log.Debug().Str("url", f.baseURL+path).Msg("EODHD API request")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FetchSeries retrieves daily bars for [start, end], preferring adjusted_close.
func (f *EODHDFetcher) FetchSeries(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	params := url.Values{}
	params.Set("period", "d")
	params.Set("order", "a")
	params.Set("from", start.Format(model.DateLayout))
	params.Set("to", end.Format(model.DateLayout))

	path := "/eod/" + url.PathEscape(eodhdTicker(symbol))

	var bars []eodBar
	if err := f.get(ctx, path, params, &bars); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return model.PriceSeries{}, fmt.Errorf("eodhd %s: %w", symbol, model.ErrNoDataForSymbol)
		}
		return model.PriceSeries{}, err
	}

	useAdjusted := false
	for _, b := range bars {
		if b.AdjustedClose > 0 {
			useAdjusted = true
			break
		}
	}

	points := make([]model.PricePoint, 0, len(bars))
	for _, b := range bars {
		date, err := model.ParseDate(b.Date)
		if err != nil {
			f.log.Warn().Str("symbol", symbol).Str("date", b.Date).Msg("skipping bar with unparseable date")
			continue
		}
		price := float64(b.Close)
		if useAdjusted {
			price = float64(b.AdjustedClose)
		}
		points = append(points, model.PricePoint{Date: date, Price: price})
	}

	series := model.Clean(symbol, points)
	if series.Empty() {
		return model.PriceSeries{}, fmt.Errorf("eodhd %s: %w", symbol, model.ErrNoDataForSymbol)
	}
	return series, nil
}
