package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"github.com/google/subcommands"
)

type valueCmd struct {
	json bool
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value purchase lots at current prices" }
func (*valueCmd) Usage() string {
	return `track value [-json] SYMBOL:SHARES@PRICE...

  Records every lot, in order, and values the resulting positions at the
  latest price. Lots of the same symbol are merged using the cost basis method.

  Example:

    track value AAPL:10@150 AAPL:5@170 MSFT:2@300
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print the report as JSON.")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := mustApp()
	if a == nil {
		return status
	}
	defer a.close()

	ledger := a.newLedger()
	if err := addLots(ledger, f.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	report := a.valuate(ctx, ledger)

	if c.json {
		enc := json.NewEncoder(a.w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	a.print(renderer.ReportMarkdown(report))
	return subcommands.ExitSuccess
}

// parseLot parses a lot "SYMBOL:SHARES@PRICE".
func parseLot(s, currency string) (symbol string, shares holdings.Quantity, price holdings.Money, err error) {
	symbol, rest, ok := strings.Cut(s, ":")
	if !ok {
		return "", shares, price, fmt.Errorf("invalid lot %q, want SYMBOL:SHARES@PRICE", s)
	}
	q, p, ok := strings.Cut(rest, "@")
	if !ok {
		return "", shares, price, fmt.Errorf("invalid lot %q, want SYMBOL:SHARES@PRICE", s)
	}
	if shares, err = holdings.ParseQuantity(q); err != nil {
		return "", shares, price, fmt.Errorf("invalid lot %q: %w", s, err)
	}
	if price, err = holdings.ParseMoney(p, currency); err != nil {
		return "", shares, price, fmt.Errorf("invalid lot %q: %w", s, err)
	}
	return symbol, shares, price, nil
}

// addLots records every lot in ledger, it stops at the first invalid one.
func addLots(ledger *holdings.Ledger, lots []string) error {
	for _, lot := range lots {
		symbol, shares, price, err := parseLot(lot, ledger.Currency())
		if err != nil {
			return err
		}
		if _, err := ledger.AddPosition(symbol, shares, price); err != nil {
			return fmt.Errorf("invalid lot %q: %w", lot, err)
		}
	}
	return nil
}
