package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// printMarkdown renders markdown for the terminal, or writes it as is when
// plain is set or w is not a terminal.
func printMarkdown(w io.Writer, markdown string, plain bool) {
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	if plain || !isTerminal(w) {
		fmt.Fprint(w, markdown)
		return
	}
	width := 100
	if f, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 20 {
			width = cols
		}
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		fmt.Fprint(w, markdown)
		return
	}
	out, err := r.Render(markdown)
	if err != nil {
		fmt.Fprint(w, markdown)
		return
	}
	fmt.Fprint(w, out)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
