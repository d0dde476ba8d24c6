package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/holdings"
)

// AdditionMarkdown renders the confirmation of a purchase.
func AdditionMarkdown(a holdings.Addition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Added %s shares of %s at %s each.\n", a.Shares, a.Symbol, a.Price)
	if a.Merged {
		fmt.Fprintf(&b, "\nNow holding %s shares of %s, cost basis %s.\n", a.Position.Shares, a.Symbol, a.Position.CostBasis)
	}
	return b.String()
}

// RemovalMarkdown renders the outcome of a removal, err being the error
// returned by Ledger.RemovePosition.
func RemovalMarkdown(symbol string, err error) string {
	symbol = holdings.NormalizeSymbol(symbol)
	switch {
	case err == nil:
		return fmt.Sprintf("Removed %s from portfolio.\n", symbol)
	case errors.Is(err, holdings.ErrSymbolNotFound):
		return fmt.Sprintf("%s not found in portfolio.\n", symbol)
	default:
		return fmt.Sprintf("Cannot remove %s: %v\n", symbol, err)
	}
}

// QuoteMarkdown renders the result of a single price lookup.
func QuoteMarkdown(symbol string, price holdings.Money, err error) string {
	symbol = holdings.NormalizeSymbol(symbol)
	if err != nil {
		return fmt.Sprintf("| %s | %s | %s |\n", symbol, notAvailable, escapeCell(err.Error()))
	}
	return fmt.Sprintf("| %s | %s | |\n", symbol, price)
}

// QuotesHeader is the header of the table made of QuoteMarkdown rows.
func QuotesHeader() string {
	var b strings.Builder
	fmt.Fprint(&b, "# Quotes\n\n")
	fmt.Fprintln(&b, "| Symbol | Price | Error |")
	fmt.Fprintln(&b, "|:---|---:|:---|")
	return b.String()
}

// escapeCell makes s safe to use in a table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
