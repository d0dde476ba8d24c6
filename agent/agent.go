// Package agent implements a Gemini assistant answering questions about the
// user's holdings.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const (
	welcome = "Welcome to track assist. Type 'bye' to exit."
	prompt  = "assist> "
	bye     = "bye"
)

// Agent runs a chat session where a facilitator dispatches the user's
// questions to the experts.
type Agent struct {
	w           io.Writer
	in          *bufio.Scanner
	Facilitator *Expert
	Experts     []*Expert

	// Print writes the answers, it receives markdown. nil writes them as is.
	Print func(w io.Writer, markdown string)
}

// New creates an Agent answering with 'experts'.
//
// Answers are written to w (e.g., os.Stdout), and user input read from r
// (e.g., os.Stdin).
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		in:          bufio.NewScanner(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start opens the chats of the experts and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

// Run starts the session, and returns when the user says bye or the input ends.
//
// 'prompts' are played first, as if the user typed them.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.w, welcome)
	next := a.questions(prompts)
	for {
		question, ok, err := next()
		if err != nil || !ok {
			return err
		}
		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: question})
		if err != nil {
			return err
		}
		a.print(content.Parts[0].Text)
	}
}

// questions returns an iterator over the user's questions: 'prompts' first,
// then the input lines. Blank lines are skipped, it stops on bye.
func (a *Agent) questions(prompts []string) func() (string, bool, error) {
	return func() (string, bool, error) {
		for {
			fmt.Fprint(a.w, prompt)
			var line string
			if len(prompts) > 0 {
				line, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
				if line == "" {
					continue
				}
				fmt.Fprintln(a.w, line)
			} else {
				if !a.in.Scan() {
					return "", false, a.in.Err()
				}
				line = strings.TrimSpace(a.in.Text())
				if line == "" {
					continue
				}
			}
			if line == bye {
				return "", false, nil
			}
			return line, true, nil
		}
	}
}

func (a *Agent) print(markdown string) {
	if a.Print != nil {
		a.Print(a.w, markdown)
		return
	}
	fmt.Fprintln(a.w, markdown)
}
