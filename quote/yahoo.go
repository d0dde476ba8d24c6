package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/holdings"
	"go.uber.org/zap"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

/*
	{
	  "chart": {
	    "result": [
	      {
	        "meta": {"currency": "USD", "symbol": "AAPL", "regularMarketPrice": 180.12, ...},
	        "timestamp": [1718026200],
	        "indicators": {"quote": [{"close": [180.12], "open": [...], ...}]}
	      }
	    ],
	    "error": null
	  }
	}
*/

// Yahoo looks up the last close of the one day history on the Yahoo Finance
// chart API.
type Yahoo struct {
	httpClient *http.Client
	logger     *zap.Logger
	baseURL    string // overridable for tests
	currency   string
}

// NewYahoo creates a Yahoo Finance provider returning prices in currency.
func NewYahoo(httpClient *http.Client, logger *zap.Logger, currency string) *Yahoo {
	return &Yahoo{httpClient: httpClient, logger: logger, baseURL: yahooBaseURL, currency: currency}
}

// LatestPrice implements holdings.PriceLookup.
func (y *Yahoo) LatestPrice(ctx context.Context, symbol string) (holdings.Money, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", y.baseURL, url.PathEscape(symbol))

	var jobj any
	err := getJSON(ctx, y.httpClient, y.logger, addr, &jobj)
	var se *statusError
	if err != nil && !(errors.As(err, &se) && se.decoded) {
		return holdings.Money{}, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	// yahoo describes unknown symbols in the payload, often with a 404.
	if desc, ok := lookupString("$.chart.error.description", jobj); ok {
		return holdings.Money{}, fmt.Errorf("yahoo %s: %w: %s", symbol, ErrNoData, desc)
	}
	if err != nil {
		return holdings.Money{}, fmt.Errorf("yahoo %s: %w", symbol, err)
	}

	if results, _ := jsonpath.Get("$.chart.result", jobj); !nonEmpty(results) {
		return holdings.Money{}, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	if cur, ok := lookupString("$.chart.result[0].meta.currency", jobj); ok && cur != y.currency {
		return holdings.Money{}, fmt.Errorf("yahoo %s: %w: quoted in %s, want %s", symbol, holdings.ErrCurrencyMismatch, cur, y.currency)
	}

	price, ok := lastClose(jobj)
	if !ok {
		// the history can be empty before the market opens.
		price, ok = lookupFloat("$.chart.result[0].meta.regularMarketPrice", jobj)
	}
	if !ok || price <= 0 {
		return holdings.Money{}, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	y.logger.Debug("yahoo quote", zap.String("symbol", symbol), zap.Float64("price", price))
	return holdings.M(price, y.currency), nil
}

// lastClose returns the last non null close of the daily history.
func lastClose(jobj any) (float64, bool) {
	jval, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", jobj)
	if err != nil {
		return 0, false
	}
	closes, ok := jval.([]any)
	if !ok {
		return 0, false
	}
	for i := len(closes) - 1; i >= 0; i-- {
		if v, ok := closes[i].(float64); ok && v > 0 {
			return v, true
		}
	}
	return 0, false
}

func nonEmpty(jval any) bool {
	list, ok := jval.([]any)
	return ok && len(list) > 0
}

// lookupString evaluates path and returns its value if it is a non empty string.
func lookupString(path string, jobj any) (string, bool) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", false
	}
	s, ok := jval.(string)
	return s, ok && s != ""
}

// lookupFloat evaluates path and returns its value if it is a number.
func lookupFloat(path string, jobj any) (float64, bool) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, false
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	f, ok := jval.(float64)
	return f, ok
}
