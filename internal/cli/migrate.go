package cli

import (
	"fmt"

	"dispatch-console/pkg/config"
	"dispatch-console/pkg/db"

	"github.com/spf13/cobra"
)

type MigrateOptions struct {
	Down int
}

// NewMigrateCommand creates the migrate command, which applies the schema
// for the tables the console owns (fares, promos).
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{}

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply console database migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Down < 0 {
				return fmt.Errorf("--down must not be negative")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(rootOpts.EnvFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := newLogger(cfg)

			if opts.Down > 0 {
				if err := db.RollbackMigrations(cfg.DSN(), opts.Down); err != nil {
					log.Error("migrate_down_failed", err)
					return err
				}
				log.Info("migrate_down", fmt.Sprintf("Rolled back %d migration(s)", opts.Down))
				return nil
			}

			if err := db.RunMigrations(cfg.DSN()); err != nil {
				log.Error("migrate_up_failed", err)
				return err
			}
			log.Info("migrate_up", "Database schema is up to date")
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Down, "down", 0, "roll back this many migrations instead of applying")

	return cmd
}
