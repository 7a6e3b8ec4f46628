// cmd/vitals/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Build info, set with -ldflags "-X main.Version=...".
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:    "vitals",
		Usage:   "vital-signs sampler with an HTTP read API",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or JSON config file (defaults apply when empty)",
				Sources: cli.EnvVars("VITALS_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			createServeCommand(),
			createSmokeCommand(),
			createConfigCommand(),
		},
		DefaultCommand: "serve",
		// run() maps errors to exit codes; cli must not exit on its own.
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run(args []string) int {
	if err := createApp().Run(context.Background(), args); err != nil {
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			return ec.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
