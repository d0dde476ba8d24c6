package holdings

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PriceLookup returns the current price of a symbol.
//
// Any error, whatever its cause, makes the symbol unavailable for the
// current valuation pass.
type PriceLookup interface {
	LatestPrice(ctx context.Context, symbol string) (Money, error)
}

// PriceLookupFunc adapts a function to the PriceLookup interface.
type PriceLookupFunc func(ctx context.Context, symbol string) (Money, error)

func (f PriceLookupFunc) LatestPrice(ctx context.Context, symbol string) (Money, error) {
	return f(ctx, symbol)
}

// Valuator computes the value of a ledger at current market prices.
type Valuator struct {
	lookup  PriceLookup
	workers int
}

// ValuatorOption configures a Valuator.
type ValuatorOption func(*Valuator)

// WithWorkers sets the maximum number of concurrent price lookups.
// Values below 2 keep lookups sequential.
func WithWorkers(n int) ValuatorOption {
	return func(v *Valuator) { v.workers = n }
}

// NewValuator creates a Valuator fetching prices from lookup.
func NewValuator(lookup PriceLookup, opts ...ValuatorOption) *Valuator {
	v := &Valuator{lookup: lookup, workers: 1}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Valuate looks up the price of every position of the ledger once and
// returns the resulting report.
//
// A failed lookup never aborts the pass: the row is kept with its error and
// excluded from the totals.
func (v *Valuator) Valuate(ctx context.Context, ledger *Ledger) *Report {
	report := &Report{Currency: ledger.Currency(), Method: ledger.Method()}
	for _, pos := range ledger.Positions() {
		report.Rows = append(report.Rows, Row{
			Symbol:     pos.Symbol,
			Shares:     pos.Shares,
			CostBasis:  pos.CostBasis,
			Investment: pos.Investment(),
		})
	}

	if v.workers < 2 {
		for i := range report.Rows {
			v.price(ctx, ledger.Currency(), &report.Rows[i])
		}
	} else {
		// Each goroutine owns one row: order is preserved and symbols are unique.
		var g errgroup.Group
		g.SetLimit(v.workers)
		for i := range report.Rows {
			row := &report.Rows[i]
			g.Go(func() error {
				v.price(ctx, ledger.Currency(), row)
				return nil
			})
		}
		_ = g.Wait()
	}

	report.total()
	return report
}

// price fills the market fields of row, or its error.
func (v *Valuator) price(ctx context.Context, currency string, row *Row) {
	price, err := v.latest(ctx, currency, row.Symbol)
	if err != nil {
		row.Err = &QuoteError{Symbol: row.Symbol, Err: err}
		return
	}
	row.CurrentPrice = price
	row.CurrentValue = price.Mul(row.Shares)
	row.ProfitLoss = row.CurrentValue.Sub(row.Investment)
	row.ProfitLossPercent = percentOf(row.ProfitLoss, row.Investment)
}

func (v *Valuator) latest(ctx context.Context, currency, symbol string) (Money, error) {
	if err := ctx.Err(); err != nil {
		return Money{}, err
	}
	price, err := v.lookup.LatestPrice(ctx, symbol)
	if err != nil {
		return Money{}, err
	}
	if !price.IsPositive() {
		return Money{}, fmt.Errorf("non positive price %s", price.value)
	}
	if !price.InCurrency(currency) {
		return Money{}, fmt.Errorf("%w: quoted in %q, ledger in %q", ErrCurrencyMismatch, price.cur, currency)
	}
	return price, nil
}

// total sums the priced rows.
func (r *Report) total() {
	r.TotalInvestment = M(0, r.Currency)
	r.TotalCurrentValue = M(0, r.Currency)
	for _, row := range r.Rows {
		if !row.Available() {
			continue
		}
		r.TotalInvestment = r.TotalInvestment.Add(row.Investment)
		r.TotalCurrentValue = r.TotalCurrentValue.Add(row.CurrentValue)
	}
	r.TotalProfitLoss = r.TotalCurrentValue.Sub(r.TotalInvestment)
	r.TotalProfitLossPercent = percentOf(r.TotalProfitLoss, r.TotalInvestment)
}

// Unavailable returns the errors of the rows that could not be priced.
func (r *Report) Unavailable() []*QuoteError {
	var errs []*QuoteError
	for _, row := range r.Rows {
		var qe *QuoteError
		if errors.As(row.Err, &qe) {
			errs = append(errs, qe)
		}
	}
	return errs
}
