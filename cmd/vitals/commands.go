// cmd/vitals/commands.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/tamzrod/vitals-sampler/internal/config"
	"github.com/tamzrod/vitals-sampler/internal/logging"
	"github.com/tamzrod/vitals-sampler/internal/smoke"
)

// loadConfig is the single config pipeline: file, env, validate, normalize.
func loadConfig(path string, lookup config.LookupFunc) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg, lookup)

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func createServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the sampler and HTTP API until interrupted",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("config"), nil)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			log, closeLog, err := logging.New(logging.Options{
				Level:      cfg.Log.Level,
				Format:     cfg.Log.Format,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAgeDays: cfg.Log.MaxAgeDays,
			})
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log, nil)
		},
	}
}

func createSmokeCommand() *cli.Command {
	return &cli.Command{
		Name:  "smoke",
		Usage: "issue one request to every endpoint of a running service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "base",
				Usage: "service base URL",
				Value: smoke.DefaultBase,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-request timeout",
				Value: smoke.DefaultTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			r := &smoke.Runner{
				Base:   cmd.String("base"),
				Client: &http.Client{Timeout: cmd.Duration("timeout")},
				Out:    cmd.Root().Writer,
			}
			fmt.Fprintln(r.Out, "Starting API tests...")
			if _, err := r.Run(ctx, smoke.DefaultChecks); err != nil {
				return cli.Exit(fmt.Sprintf("API tests failed: %v", err), 1)
			}
			fmt.Fprintln(r.Out, "\nAPI tests completed.")
			return nil
		},
	}
}

func createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "print the effective configuration as YAML",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("config"), nil)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			return config.Dump(cmd.Root().Writer, cfg)
		},
	}
}
