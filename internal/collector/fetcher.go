package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"MarketCompare/internal/model"
)

// Fetcher retrieves a symbol's daily adjusted prices for [start, end].
// Implementations return model.ErrNoDataForSymbol when nothing usable exists.
type Fetcher interface {
	FetchSeries(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error)
	Name() string
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// selectColumn returns adjusted when it carries data for every timestamp,
// otherwise raw.
func selectColumn(adjusted, raw []interface{}, n int) []interface{} {
	if len(adjusted) == n && n > 0 {
		return adjusted
	}
	return raw
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}
