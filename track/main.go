// Command track keeps a portfolio of stock holdings and values it at the latest prices.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/holdings/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Exits when the shell asks for completions.
	cmd.Completion(commander).Complete("track")

	flag.Parse()
	if ran, code := cmd.Extension(commander, flag.CommandLine); ran {
		os.Exit(code)
	}
	os.Exit(int(commander.Execute(context.Background())))
}
