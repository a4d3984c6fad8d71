package main

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/jaekwang-park/todos/internal/repository"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return repository.MigrateUp(cfg.DB.DSN(), logger)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert migrations",
		Long: heredoc.Doc(`
			Reverts the given number of migrations, newest first.
			Without --steps every migration is reverted.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return repository.MigrateDown(cfg.DB.DSN(), steps, logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 0, "number of migrations to revert (0 reverts all)")

	cmd.AddCommand(up, down)
	return cmd
}
