package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jaekwang-park/todos/internal/config"
	"github.com/jaekwang-park/todos/internal/logging"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todos",
		Short:         "Todo lists and items API",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: heredoc.Doc(`
			Serves the todo lists and items HTTP API backed by Postgres.

			Configuration is read from the environment, and from a .env file
			in the working directory when one exists.
		`),
		Example: heredoc.Doc(`
			$ todos serve
			$ todos migrate up
			$ todos migrate down --steps 1
		`),
	}

	cmd.AddCommand(newServeCommand(), newMigrateCommand())
	return cmd
}

// setup loads and validates configuration and installs the global logger.
func setup() (config.Config, *zap.Logger, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	zap.ReplaceGlobals(logger)

	logger.Info("config loaded",
		zap.String("port", cfg.ServerPort),
		zap.String("metrics_port", cfg.MetricsPort),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("auth_enabled", cfg.Auth.Enabled()),
		zap.Float64("rate_limit_rps", cfg.RateLimit.RPS),
		zap.Bool("tracing_enabled", cfg.Tracing.Enabled),
	)
	return cfg, logger, nil
}
