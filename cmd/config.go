package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/quote"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Environment variables read by the configuration.
const (
	EnvProvider      = "HOLDINGS_PROVIDER"
	EnvCurrency      = "HOLDINGS_CURRENCY"
	EnvCostBasis     = "HOLDINGS_COST_BASIS"
	EnvWorkers       = "HOLDINGS_WORKERS"
	EnvTimeout       = "HOLDINGS_TIMEOUT"
	EnvLogLevel      = "HOLDINGS_LOG_LEVEL"
	EnvEnvironment   = "HOLDINGS_ENV"
	EnvEODHDAPIKey   = "EODHD_API_KEY"
	EnvEODHDExchange = "EODHD_EXCHANGE"
	EnvStaticPrices  = "HOLDINGS_STATIC_PRICES"
	EnvPlain         = "HOLDINGS_PLAIN"
)

// Config holds the application settings.
type Config struct {
	Provider      string
	Currency      string
	CostBasis     holdings.CostBasisMethod
	Workers       int
	Timeout       time.Duration
	LogLevel      zapcore.Level
	Environment   string // "production" logs JSON
	EODHDAPIKey   string
	EODHDExchange string
	StaticPrices  map[string]holdings.Money
	Plain         bool // print raw markdown
}

// Flags are the global command line flags. An empty value is unset.
type Flags struct {
	Provider    string
	Currency    string
	CostBasis   string
	Workers     string
	Timeout     string
	LogLevel    string
	EODHDAPIKey string
	EnvFile     string
	Plain       bool
}

// Register declares the flags on set.
func (f *Flags) Register(set *flag.FlagSet) {
	set.StringVar(&f.Provider, "provider", "", "Quote provider: "+strings.Join(quote.Providers, ", ")+".\n If missing it reads "+EnvProvider+", default is yahoo.")
	set.StringVar(&f.Currency, "currency", "", "Currency of all the prices.\n If missing it reads "+EnvCurrency+", default is USD.")
	set.StringVar(&f.CostBasis, "cost-basis", "", "Method to merge the price of a new purchase into the cost basis (pairwise, weighted).\n If missing it reads "+EnvCostBasis+", default is pairwise.")
	set.StringVar(&f.Workers, "workers", "", "Maximum number of concurrent quote lookups.\n If missing it reads "+EnvWorkers+", default is 1.")
	set.StringVar(&f.Timeout, "timeout", "", "Timeout of a single quote lookup.\n If missing it reads "+EnvTimeout+", default is 10s.")
	set.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error).\n If missing it reads "+EnvLogLevel+", default is info.")
	set.StringVar(&f.EODHDAPIKey, "eodhd-api-key", "", "EODHD API key to use for fetching prices from EODHD.com.\n If missing it reads "+EnvEODHDAPIKey+". You can get one at https://eodhd.com/")
	set.StringVar(&f.EnvFile, "env-file", ".env", "Path to an optional dotenv file, read after the environment.")
	set.BoolVar(&f.Plain, "plain", false, "Print markdown as is instead of rendering it for the terminal.")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var globalFlags Flags

func init() { globalFlags.Register(flag.CommandLine) }

// LoadConfig resolves the configuration: flags first, then the environment,
// then the dotenv file, then the defaults.
func LoadConfig(f Flags) (*Config, error) {
	dotenv := map[string]string{}
	if f.EnvFile != "" {
		var err error
		dotenv, err = godotenv.Read(f.EnvFile)
		if errors.Is(err, fs.ErrNotExist) {
			dotenv = map[string]string{}
		} else if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.EnvFile, err)
		}
	}
	lookup := func(flagValue, key, def string) string {
		if flagValue != "" {
			return flagValue
		}
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v, ok := dotenv[key]; ok && v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Provider:      strings.ToLower(lookup(f.Provider, EnvProvider, "yahoo")),
		Currency:      strings.ToUpper(lookup(f.Currency, EnvCurrency, "USD")),
		Environment:   lookup("", EnvEnvironment, "development"),
		EODHDAPIKey:   lookup(f.EODHDAPIKey, EnvEODHDAPIKey, ""),
		EODHDExchange: lookup("", EnvEODHDExchange, "US"),
	}

	var err error
	if cfg.Plain, err = parsePlain(f.Plain, lookup("", EnvPlain, "false")); err != nil {
		return nil, err
	}
	if cfg.CostBasis, err = holdings.ParseCostBasisMethod(lookup(f.CostBasis, EnvCostBasis, "pairwise")); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvCostBasis, err)
	}
	if cfg.Workers, err = parseWorkers(lookup(f.Workers, EnvWorkers, "1")); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = parseTimeout(lookup(f.Timeout, EnvTimeout, "10s")); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = parseLogLevel(lookup(f.LogLevel, EnvLogLevel, "info")); err != nil {
		return nil, err
	}
	if cfg.StaticPrices, err = quote.ParseStatic(lookup("", EnvStaticPrices, "AAPL=180,MSFT=410"), cfg.Currency); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvStaticPrices, err)
	}
	return cfg, nil
}

func parsePlain(flagValue bool, s string) (bool, error) {
	if flagValue {
		return true, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", EnvPlain, s, err)
	}
	return b, nil
}

func parseWorkers(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", EnvWorkers, s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be at least 1, got %d", EnvWorkers, n)
	}
	return n, nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", EnvTimeout, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", EnvTimeout, d)
	}
	return d, nil
}

func parseLogLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("invalid %s %q: must be debug, info, warn, or error", EnvLogLevel, s)
	}
}
