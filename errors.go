package holdings

import (
	"errors"
	"fmt"
)

// Ledger validation errors.
var (
	ErrInvalidSymbol    = errors.New("invalid symbol")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// ErrSymbolNotFound is returned when removing a symbol that the ledger does not hold.
var ErrSymbolNotFound = errors.New("symbol not found")

// ErrQuoteUnavailable is matched by every failed price lookup.
var ErrQuoteUnavailable = errors.New("quote unavailable")

// SymbolError reports a ledger operation on an unknown symbol.
type SymbolError struct {
	Symbol string
}

func (e *SymbolError) Error() string { return fmt.Sprintf("%s not found in portfolio", e.Symbol) }

// Is makes SymbolError match ErrSymbolNotFound.
func (e *SymbolError) Is(target error) bool { return target == ErrSymbolNotFound }

// QuoteError represents a failed price lookup for a specific symbol.
type QuoteError struct {
	Symbol string
	Err    error
}

// Error implements the error interface.
func (e *QuoteError) Error() string {
	return fmt.Sprintf("no price for %s: %v", e.Symbol, e.Err)
}

// Unwrap returns the cause reported by the price lookup.
func (e *QuoteError) Unwrap() error { return e.Err }

// Is makes any QuoteError match ErrQuoteUnavailable.
func (e *QuoteError) Is(target error) bool { return target == ErrQuoteUnavailable }
