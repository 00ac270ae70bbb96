package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketCompare/internal/model"
)

func TestEODHDFetcher_FetchSeries(t *testing.T) {
	var gotPath, gotToken, gotFrom, gotTo string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		q := r.URL.Query()
		gotToken, gotFrom, gotTo = q.Get("api_token"), q.Get("from"), q.Get("to")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"date":"2020-01-03","close":101,"adjusted_close":"91.5"},
			{"date":"2020-01-02","close":100,"adjusted_close":90},
			{"date":"2020-01-06","close":null,"adjusted_close":null}
		]`))
	}))
	defer srv.Close()

	f := NewEODHDFetcher("secret", WithBaseURL(srv.URL), WithRateLimit(100))
	series, err := f.FetchSeries(context.Background(), "QQQ",
		model.Date(2020, time.January, 1), model.Date(2020, time.January, 31))
	require.NoError(t, err)

	assert.Equal(t, "/eod/QQQ.US", gotPath)
	assert.Equal(t, "secret", gotToken)
	assert.Equal(t, "2020-01-01", gotFrom)
	assert.Equal(t, "2020-01-31", gotTo)
	assert.Equal(t, []float64{90, 91.5}, series.Prices())
}

func TestEODHDFetcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/eod/NOPE.US":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("Ticker Not Found."))
		case "/eod/LIMIT.US":
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte("limit reached"))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	f := NewEODHDFetcher("k", WithBaseURL(srv.URL), WithRateLimit(100))
	start, end := model.Date(2020, time.January, 1), model.Date(2020, time.January, 31)

	_, err := f.FetchSeries(context.Background(), "NOPE", start, end)
	assert.ErrorIs(t, err, model.ErrNoDataForSymbol)

	_, err = f.FetchSeries(context.Background(), "LIMIT", start, end)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)

	_, err = f.FetchSeries(context.Background(), "EMPTY", start, end)
	assert.ErrorIs(t, err, model.ErrNoDataForSymbol)
}

func TestEODHDTicker(t *testing.T) {
	assert.Equal(t, "SPY.US", eodhdTicker("SPY"))
	assert.Equal(t, "0050.TW", eodhdTicker("0050.TW"))
}
