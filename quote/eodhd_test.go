package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/etnz/holdings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestEODHD(t *testing.T, apiKey string, payloads map[string]string) *EODHD {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("fmt"))
		assert.Equal(t, apiKey, r.URL.Query().Get("api_token"))
		ticker := strings.TrimPrefix(r.URL.Path, "/api/real-time/")
		payload, ok := payloads[ticker]
		if !ok {
			http.Error(w, "Ticker Not Found.", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)

	e := NewEODHD(server.Client(), zaptest.NewLogger(t), apiKey, "", "USD")
	e.baseURL = server.URL
	return e
}

func TestEODHD_LatestPrice(t *testing.T) {
	e := newTestEODHD(t, "secret", map[string]string{
		"AAPL.US":   `{"code":"AAPL.US","timestamp":1718049540,"close":193.12,"previousClose":196.89}`,
		"SAP.XETRA": `{"code":"SAP.XETRA","close":"171.5"}`,
		"DEAD.US":   `{"code":"DEAD.US","timestamp":"NA","close":"NA"}`,
		"ZERO.US":   `{"code":"ZERO.US","close":0}`,
	})

	got, err := e.LatestPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, got.Equal(holdings.M(193.12, "USD")), "LatestPrice(AAPL) = %v", got)

	got, err = e.LatestPrice(context.Background(), "SAP.XETRA")
	require.NoError(t, err)
	assert.True(t, got.Equal(holdings.M(171.5, "USD")), "LatestPrice(SAP.XETRA) = %v", got)

	_, err = e.LatestPrice(context.Background(), "DEAD")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = e.LatestPrice(context.Background(), "ZERO")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = e.LatestPrice(context.Background(), "MISSING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestEODHD_MissingAPIKey(t *testing.T) {
	e := newTestEODHD(t, "", nil)
	for range 2 {
		_, err := e.LatestPrice(context.Background(), "AAPL")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	}
}

func TestEODHD_ticker(t *testing.T) {
	e := NewEODHD(http.DefaultClient, nil, "k", "LSE", "GBP")
	assert.Equal(t, "VOD.LSE", e.ticker("VOD"))
	assert.Equal(t, "VOD.US", e.ticker("VOD.US"))
}
