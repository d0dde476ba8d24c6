// Package quote implements price lookups against market data providers.
//
// Every provider satisfies holdings.PriceLookup and returns prices in a
// single configured currency.
package quote

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/holdings"
	"go.uber.org/zap"
)

var (
	// ErrNoData is returned when the provider knows nothing about a symbol.
	ErrNoData = errors.New("no data")
	// ErrMissingAPIKey is returned by providers that require a key when none is configured.
	ErrMissingAPIKey = errors.New("missing API key")
)

// Options gathers the settings of all providers, each one reads what it needs.
type Options struct {
	HTTPClient *http.Client // nil uses a client with a 10s timeout
	Logger     *zap.Logger  // nil discards logs
	Currency   string       // currency of the returned prices, "USD" if empty

	// EODHD
	APIKey   string
	Exchange string // EODHD exchange code appended to plain symbols, "US" if empty

	// Static
	Prices map[string]holdings.Money
}

func (o Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) currency() string {
	if o.Currency != "" {
		return o.Currency
	}
	return "USD"
}

// Providers lists the provider names accepted by New.
var Providers = []string{"yahoo", "eodhd", "static"}

// New returns the provider named 'name'.
func New(name string, opts Options) (holdings.PriceLookup, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yahoo", "":
		return NewYahoo(opts.client(), opts.logger(), opts.currency()), nil
	case "eodhd":
		return NewEODHD(opts.client(), opts.logger(), opts.APIKey, opts.Exchange, opts.currency()), nil
	case "static":
		return NewStatic(opts.Prices), nil
	default:
		return nil, fmt.Errorf("unknown quote provider %q, use one of %s", name, strings.Join(Providers, ", "))
	}
}
