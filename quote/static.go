package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/holdings"
)

// Static serves prices from an in-memory table.
type Static struct {
	prices map[string]holdings.Money
}

// NewStatic creates a provider serving 'prices'. Symbols are case insensitive.
func NewStatic(prices map[string]holdings.Money) *Static {
	s := &Static{prices: make(map[string]holdings.Money, len(prices))}
	for sym, p := range prices {
		s.prices[holdings.NormalizeSymbol(sym)] = p
	}
	return s
}

// ParseStatic parses a price table like "AAPL=180,MSFT=410.5".
func ParseStatic(s, currency string) (map[string]holdings.Money, error) {
	prices := make(map[string]holdings.Money)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		sym, amount, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(sym) == "" {
			return nil, fmt.Errorf("invalid price entry %q, want SYMBOL=PRICE", entry)
		}
		price, err := holdings.ParseMoney(strings.TrimSpace(amount), currency)
		if err != nil {
			return nil, fmt.Errorf("invalid price entry %q: %w", entry, err)
		}
		prices[holdings.NormalizeSymbol(sym)] = price
	}
	return prices, nil
}

// LatestPrice implements holdings.PriceLookup.
func (s *Static) LatestPrice(ctx context.Context, symbol string) (holdings.Money, error) {
	if err := ctx.Err(); err != nil {
		return holdings.Money{}, err
	}
	p, ok := s.prices[holdings.NormalizeSymbol(symbol)]
	if !ok {
		return holdings.Money{}, fmt.Errorf("static %s: %w", symbol, ErrNoData)
	}
	return p, nil
}
