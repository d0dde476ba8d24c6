package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/holdings"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const eodhdBaseURL = "https://eodhd.com"

// EODHD looks up real-time (delayed) prices on eodhd.com.
type EODHD struct {
	httpClient *http.Client
	logger     *zap.Logger
	baseURL    string // overridable for tests
	apiKey     string
	exchange   string
	currency   string
}

// NewEODHD creates an EODHD provider. Plain symbols are looked up on
// 'exchange' (eodhd's own exchange code, "US" if empty), symbols already
// holding a dot are used as is.
func NewEODHD(httpClient *http.Client, logger *zap.Logger, apiKey, exchange, currency string) *EODHD {
	if exchange == "" {
		exchange = "US"
	}
	return &EODHD{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    eodhdBaseURL,
		apiKey:     apiKey,
		exchange:   exchange,
		currency:   currency,
	}
}

// ticker returns the eodhd ticker "SYMBOL.EXCHANGE" of a symbol.
func (e *EODHD) ticker(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + "." + e.exchange
}

// LatestPrice implements holdings.PriceLookup.
func (e *EODHD) LatestPrice(ctx context.Context, symbol string) (holdings.Money, error) {
	// https://eodhd.com/api/real-time/AAPL.US?api_token=demo&fmt=json
	// {
	//   "code": "AAPL.US",
	//   "timestamp": 1718049540,
	//   "open": 196.9,
	//   "close": 193.12,
	//   "previousClose": 196.89,
	//   ...
	// }
	// unknown fields are reported as the "NA" string.
	if e.apiKey == "" {
		return holdings.Money{}, fmt.Errorf("eodhd %s: %w", symbol, ErrMissingAPIKey)
	}
	ticker := e.ticker(symbol)
	addr := fmt.Sprintf("%s/api/real-time/%s?fmt=json&api_token=%s", e.baseURL, url.PathEscape(ticker), url.QueryEscape(e.apiKey))

	var jobj map[string]any
	if err := getJSON(ctx, e.httpClient, e.logger, addr, &jobj); err != nil {
		return holdings.Money{}, fmt.Errorf("eodhd %s: %w", ticker, err)
	}

	price, err := readClose(jobj["close"])
	if err != nil {
		return holdings.Money{}, fmt.Errorf("eodhd %s: %w", ticker, err)
	}
	e.logger.Debug("eodhd quote", zap.String("ticker", ticker), zap.String("price", price.String()))
	return holdings.M(price, e.currency), nil
}

// readClose reads the close field, that eodhd returns as a number, or as a
// string when it has no value.
func readClose(jval any) (decimal.Decimal, error) {
	switch v := jval.(type) {
	case float64:
		if v == 0 {
			return decimal.Decimal{}, ErrNoData
		}
		return decimal.NewFromFloat(v), nil
	case string:
		if v == "NA" || v == "" {
			return decimal.Decimal{}, ErrNoData
		}
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("invalid close %q: %w", v, err)
		}
		return d, nil
	default:
		return decimal.Decimal{}, ErrNoData
	}
}
