// Package cmd implements the CLI application to track stock holdings.
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/quote"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&sessionCmd{}, "portfolio")
	c.Register(&valueCmd{}, "portfolio")
	c.Register(&quoteCmd{}, "portfolio")
	c.Register(&AssistCmd{}, "assistant")
}

// app gathers what the commands share.
type app struct {
	cfg    *Config
	logger *zap.Logger
	lookup holdings.PriceLookup
	w      io.Writer
}

// newApp builds the app from the global flags, the environment and the dotenv file.
func newApp() (*app, error) {
	cfg, err := LoadConfig(globalFlags)
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg)
	lookup, err := quote.New(cfg.Provider, quote.Options{
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Logger:     logger.Named(cfg.Provider),
		Currency:   cfg.Currency,
		APIKey:     cfg.EODHDAPIKey,
		Exchange:   cfg.EODHDExchange,
		Prices:     cfg.StaticPrices,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("currency", cfg.Currency),
		zap.Stringer("cost_basis", cfg.CostBasis),
		zap.Int("workers", cfg.Workers),
	)
	return &app{cfg: cfg, logger: logger, lookup: lookup, w: os.Stdout}, nil
}

// mustApp is newApp for commands: errors are printed and turned into an exit status.
func mustApp() (*app, subcommands.ExitStatus) {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return nil, subcommands.ExitUsageError
	}
	return a, subcommands.ExitSuccess
}

func (a *app) newLedger() *holdings.Ledger {
	return holdings.NewLedger(a.cfg.Currency, a.cfg.CostBasis)
}

// valuate values the ledger, logging every unavailable quote.
func (a *app) valuate(ctx context.Context, ledger *holdings.Ledger) *holdings.Report {
	report := holdings.NewValuator(a.lookup, holdings.WithWorkers(a.cfg.Workers)).Valuate(ctx, ledger)
	for _, qe := range report.Unavailable() {
		a.logger.Warn("quote unavailable", zap.String("symbol", qe.Symbol), zap.Error(qe.Err))
	}
	return report
}

func (a *app) print(markdown string) {
	printMarkdown(a.w, markdown, a.cfg.Plain)
}

func (a *app) close() { _ = a.logger.Sync() }
