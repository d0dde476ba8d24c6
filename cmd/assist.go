package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// AssistCmd is the subcommand for the AI assistant.
type AssistCmd struct{}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*AssistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `track assist [SYMBOL:SHARES@PRICE...] [-- PROMPT]

  Start an interactive session with the AI assistant about the positions made
  of the given lots. The words after -- are sent as the first question.

  The Gemini client reads its key from GOOGLE_API_KEY or GEMINI_API_KEY.
`
}

// SetFlags sets the flags for the command.
func (*AssistCmd) SetFlags(_ *flag.FlagSet) {}

// splitPrompt splits the arguments into lots and the initial prompt.
func splitPrompt(args []string) (lots []string, prompt string) {
	i := slices.Index(args, "--")
	if i < 0 {
		return args, ""
	}
	return args[:i], strings.Join(args[i+1:], " ")
}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, status := mustApp()
	if a == nil {
		return status
	}
	defer a.close()

	lots, initialPrompt := splitPrompt(f.Args())
	ledger := a.newLedger()
	if err := addLots(ledger, lots); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	trader := agent.NewTrader()
	accountant := agent.NewAccountant(func(ctx context.Context) (*holdings.Report, error) {
		return a.valuate(ctx, ledger), nil
	})
	for _, e := range []*agent.Expert{trader, accountant} {
		e.Logger = a.logger.Named(strings.ToLower(e.Name))
	}
	assistant := agent.New(a.w, os.Stdin, trader, accountant)
	assistant.Facilitator.Logger = a.logger.Named("facilitator")
	assistant.Print = func(w io.Writer, markdown string) { printMarkdown(w, markdown, a.cfg.Plain) }

	if err := assistant.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
