package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"github.com/google/subcommands"
)

type sessionCmd struct{}

func (*sessionCmd) Name() string     { return "session" }
func (*sessionCmd) Synopsis() string { return "start an interactive session to add, remove and track positions" }
func (*sessionCmd) Usage() string {
	return `track session

  Starts an interactive session on an empty portfolio. Choose an entry of the
  menu by its number, or type a command directly:

    add SYMBOL SHARES PRICE   record a purchase
    remove SYMBOL             remove a position
    list                      list the positions
    track                     value the positions at current prices
    help                      print the menu
    exit                      leave the session

  The portfolio only lives for the duration of the session.
`
}

func (*sessionCmd) SetFlags(f *flag.FlagSet) {}

func (*sessionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := mustApp()
	if a == nil {
		return status
	}
	defer a.close()

	s := newSession(a, os.Stdin)
	if err := s.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Session failed: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

const menu = `1. Add Stock
2. Remove Stock
3. Track Portfolio
4. Exit
`

// session is an interactive loop over a single ledger.
type session struct {
	app    *app
	ledger *holdings.Ledger
	in     *bufio.Scanner
}

func newSession(a *app, r io.Reader) *session {
	return &session{app: a, ledger: a.newLedger(), in: bufio.NewScanner(r)}
}

// errEOF ends the session when the input is exhausted.
var errEOF = errors.New("end of input")

// ask prints the prompt and returns the next input line.
func (s *session) ask(prompt string) (string, error) {
	fmt.Fprint(s.app.w, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(s.app.w)
		return "", errEOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// Run reads and executes choices until exit or the end of the input.
func (s *session) Run(ctx context.Context) error {
	for {
		fmt.Fprint(s.app.w, menu)
		line, err := s.ask("Enter choice: ")
		if err != nil {
			return ignoreEOF(err)
		}
		quit, err := s.execute(ctx, line)
		if err != nil {
			return ignoreEOF(err)
		}
		if quit {
			fmt.Fprintln(s.app.w, "Exiting Portfolio Tracker. Goodbye!")
			return nil
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, errEOF) {
		return nil
	}
	return err
}

// execute runs a single choice, it returns true to leave the session.
func (s *session) execute(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		fmt.Fprintln(s.app.w, "Invalid choice. Please try again.")
		return false, nil
	}
	switch strings.ToLower(fields[0]) {
	case "1":
		symbol, err := s.ask("Enter stock symbol (e.g., AAPL): ")
		if err != nil {
			return false, err
		}
		shares, err := s.ask("Enter number of shares: ")
		if err != nil {
			return false, err
		}
		price, err := s.ask("Enter buy price per share: ")
		if err != nil {
			return false, err
		}
		s.add(symbol, shares, price)
	case "add":
		if len(fields) != 4 {
			fmt.Fprintln(s.app.w, "Usage: add SYMBOL SHARES PRICE")
			return false, nil
		}
		s.add(fields[1], fields[2], fields[3])
	case "2":
		symbol, err := s.ask("Enter stock symbol to remove: ")
		if err != nil {
			return false, err
		}
		s.remove(symbol)
	case "remove":
		if len(fields) != 2 {
			fmt.Fprintln(s.app.w, "Usage: remove SYMBOL")
			return false, nil
		}
		s.remove(fields[1])
	case "3", "track":
		s.app.print(renderer.ReportMarkdown(s.app.valuate(ctx, s.ledger)))
	case "list":
		s.app.print(renderer.PositionsMarkdown(s.ledger))
	case "help":
		fmt.Fprint(s.app.w, strings.TrimPrefix((&sessionCmd{}).Usage(), "track session\n"))
	case "4", "exit", "quit":
		return true, nil
	default:
		fmt.Fprintln(s.app.w, "Invalid choice. Please try again.")
	}
	return false, nil
}

// add parses and records a purchase, reporting errors to the user.
func (s *session) add(symbol, shares, price string) {
	q, err := holdings.ParseQuantity(shares)
	if err != nil {
		fmt.Fprintf(s.app.w, "Invalid number of shares: %v\n", err)
		return
	}
	p, err := holdings.ParseMoney(price, s.ledger.Currency())
	if err != nil {
		fmt.Fprintf(s.app.w, "Invalid buy price: %v\n", err)
		return
	}
	addition, err := s.ledger.AddPosition(symbol, q, p)
	if err != nil {
		fmt.Fprintf(s.app.w, "Cannot add %s: %v\n", holdings.NormalizeSymbol(symbol), err)
		return
	}
	s.app.print(renderer.AdditionMarkdown(addition))
}

func (s *session) remove(symbol string) {
	_, err := s.ledger.RemovePosition(symbol)
	s.app.print(renderer.RemovalMarkdown(symbol, err))
}
