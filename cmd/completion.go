package cmd

import (
	"flag"

	"github.com/etnz/holdings/quote"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the commands of c and the global flags for shell completion.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"provider":      predict.Set(quote.Providers),
			"currency":      predict.Something,
			"cost-basis":    predict.Set{"pairwise", "weighted"},
			"workers":       predict.Something,
			"timeout":       predict.Something,
			"log-level":     predict.Set{"debug", "info", "warn", "error"},
			"eodhd-api-key": predict.Something,
			"env-file":      predict.Files("*"),
			"plain":         predict.Nothing,
		},
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		set := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(set)
		set.VisitAll(func(f *flag.Flag) {
			if isBool(f) {
				sub.Flags[f.Name] = predict.Nothing
			} else {
				sub.Flags[f.Name] = predict.Something
			}
		})
		root.Sub[cmd.Name()] = sub
	})
	return root
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
