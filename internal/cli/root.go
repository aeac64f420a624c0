// Package cli wires the console's commands.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
}

// NewRootCommand creates the root command of the console binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Dispatch operations console",
		Long:  "Administration screens for fleet, users, tariffs, promotions and bookings.",
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}
