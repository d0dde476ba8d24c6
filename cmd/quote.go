package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type quoteCmd struct{}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "print the latest price of symbols" }
func (*quoteCmd) Usage() string {
	return `track quote SYMBOL...

  Looks up the latest price of every symbol with the configured provider.
`
}

func (*quoteCmd) SetFlags(f *flag.FlagSet) {}

func (*quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "quote requires at least one symbol")
		return subcommands.ExitUsageError
	}
	a, status := mustApp()
	if a == nil {
		return status
	}
	defer a.close()

	markdown, failed := a.quotes(ctx, f.Args())
	a.print(markdown)
	if failed == f.NArg() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// quotes looks up every symbol and returns the quotes table with the number of failed lookups.
func (a *app) quotes(ctx context.Context, symbols []string) (markdown string, failed int) {
	var b strings.Builder
	b.WriteString(renderer.QuotesHeader())
	for _, symbol := range symbols {
		symbol = holdings.NormalizeSymbol(symbol)
		price, err := a.lookup.LatestPrice(ctx, symbol)
		if err != nil {
			a.logger.Warn("quote unavailable", zap.String("symbol", symbol), zap.Error(err))
			failed++
		}
		b.WriteString(renderer.QuoteMarkdown(symbol, price, err))
	}
	return b.String(), failed
}
