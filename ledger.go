package holdings

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Position aggregates all the purchases of one symbol.
type Position struct {
	Symbol    string
	Shares    Quantity
	CostBasis Money // average price paid per share, see CostBasisMethod
}

// Investment returns the amount invested in this position.
func (p Position) Investment() Money { return p.CostBasis.Mul(p.Shares) }

// Addition describes the outcome of Ledger.AddPosition.
type Addition struct {
	Symbol   string
	Shares   Quantity // shares added
	Price    Money    // price paid per added share
	Merged   bool     // true if the symbol was already held
	Position Position // resulting position
}

// Ledger maps symbols to positions.
//
// Positions are kept in insertion order. A Ledger is not safe for concurrent
// mutation.
type Ledger struct {
	currency  string
	method    CostBasisMethod
	positions map[string]Position
	order     []string
}

// NewLedger creates an empty ledger holding prices in 'currency' and merging
// purchases with 'method'.
func NewLedger(currency string, method CostBasisMethod) *Ledger {
	return &Ledger{
		currency:  currency,
		method:    method,
		positions: make(map[string]Position),
	}
}

// NormalizeSymbol returns the canonical form of a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (l *Ledger) Currency() string        { return l.currency }
func (l *Ledger) Method() CostBasisMethod { return l.method }
func (l *Ledger) Len() int                { return len(l.order) }

// Position returns the position held for symbol.
func (l *Ledger) Position(symbol string) (Position, bool) {
	p, ok := l.positions[NormalizeSymbol(symbol)]
	return p, ok
}

// AddPosition records the purchase of 'shares' of 'symbol' at 'price' per share.
//
// Invalid input is rejected before any mutation.
func (l *Ledger) AddPosition(symbol string, shares Quantity, price Money) (Addition, error) {
	sym := NormalizeSymbol(symbol)
	if sym == "" {
		return Addition{}, fmt.Errorf("%w: symbol is empty", ErrInvalidSymbol)
	}
	if !shares.IsPositive() {
		return Addition{}, fmt.Errorf("%w: shares must be positive, got %s", ErrInvalidQuantity, shares)
	}
	if !price.IsPositive() {
		return Addition{}, fmt.Errorf("%w: price must be positive, got %s", ErrInvalidPrice, price.value)
	}
	if !price.InCurrency(l.currency) {
		return Addition{}, fmt.Errorf("%w: price in %q, ledger in %q", ErrCurrencyMismatch, price.cur, l.currency)
	}

	add := Addition{Symbol: sym, Shares: shares, Price: price}
	pos, held := l.positions[sym]
	if held {
		pos.CostBasis = l.method.merge(pos.Shares, pos.CostBasis, shares, price)
		pos.Shares = pos.Shares.Add(shares)
		add.Merged = true
	} else {
		pos = Position{Symbol: sym, Shares: shares, CostBasis: price}
		l.order = append(l.order, sym)
	}
	l.positions[sym] = pos
	add.Position = pos
	return add, nil
}

// RemovePosition removes the position held for symbol and returns it.
//
// If the symbol is not held, the ledger is left unchanged and the error
// matches ErrSymbolNotFound.
func (l *Ledger) RemovePosition(symbol string) (Position, error) {
	sym := NormalizeSymbol(symbol)
	pos, ok := l.positions[sym]
	if !ok {
		return Position{}, &SymbolError{Symbol: sym}
	}
	delete(l.positions, sym)
	l.order = slices.DeleteFunc(l.order, func(s string) bool { return s == sym })
	return pos, nil
}

// Positions returns an iterator over the positions in storage order.
//
// The positions are the ones held when the iteration starts.
func (l *Ledger) Positions() iter.Seq2[string, Position] {
	return func(yield func(string, Position) bool) {
		order := slices.Clone(l.order)
		positions := make([]Position, len(order))
		for i, sym := range order {
			positions[i] = l.positions[sym]
		}
		for i, sym := range order {
			if !yield(sym, positions[i]) {
				return
			}
		}
	}
}
