package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/google/subcommands"
)

// ExtensionPrefix prefixes the name of external subcommand binaries.
const ExtensionPrefix = "track-"

// extensionEnv returns the global flags as environment variables, only the
// flags set on the command line are passed.
func extensionEnv(f Flags) []string {
	var env []string
	add := func(name, value string) {
		if value != "" {
			env = append(env, name+"="+value)
		}
	}
	add(EnvProvider, f.Provider)
	add(EnvCurrency, f.Currency)
	add(EnvCostBasis, f.CostBasis)
	add(EnvWorkers, f.Workers)
	add(EnvTimeout, f.Timeout)
	add(EnvLogLevel, f.LogLevel)
	add(EnvEODHDAPIKey, f.EODHDAPIKey)
	if f.Plain {
		env = append(env, EnvPlain+"="+strconv.FormatBool(f.Plain))
	}
	return env
}

// IsCommand reports whether name is a subcommand registered in c.
func IsCommand(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}

// RunExtension attempts to find and execute an external track-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv(globalFlags)...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

// Extension runs the extension named after the first argument of set when
// it is not a builtin command of c.
func Extension(c *subcommands.Commander, set *flag.FlagSet) (ran bool, code int) {
	if set.NArg() == 0 || IsCommand(c, set.Arg(0)) {
		return false, 0
	}
	return RunExtension(set.Arg(0), set.Args()[1:])
}
