package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"dispatch-console/internal/console/service"
	"dispatch-console/pkg/config"
	"dispatch-console/pkg/db"

	"github.com/spf13/cobra"
)

// ExportOptions holds the export command's flags.
type ExportOptions struct {
	Format  string
	Search  string
	Filters map[string]string
	Out     string
}

var exportFormats = []string{service.FormatCSV, service.FormatXLSX}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export <screen>",
		Short: "Export a screen's rows",
		Long: `Export every row of a screen that matches the search and filters.

Filters are exact matches on a field, e.g. --filter status=OFFLINE.
Without --out the report is written to stdout.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(exportFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, exportFormats)
			}
			if opts.Format == service.FormatXLSX && opts.Out == "" {
				return fmt.Errorf("xlsx export needs --out")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), rootOpts, opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", service.FormatCSV, "report format (csv|xlsx)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "free-text search term")
	cmd.Flags().StringToStringVar(&opts.Filters, "filter", nil, "field=value filter, repeatable")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file")

	return cmd
}

func runExport(ctx context.Context, rootOpts *RootOptions, opts *ExportOptions, screen string, stdout io.Writer) error {
	cfg, err := config.LoadConfig(rootOpts.EnvFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := newLogger(cfg)

	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := db.NewConnection(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	registry := service.NewConsoleRegistry(newStores(pool), cfg.Console, service.Deps{Log: log})
	exp, err := registry.ExportScreen(ctx, screen, opts.Format, service.Query{Search: opts.Search, Filters: opts.Filters})
	if err != nil {
		return err
	}
	return writeExport(exp, opts.Out, stdout)
}

func writeExport(exp service.Export, path string, stdout io.Writer) error {
	if path == "" {
		if _, err := stdout.Write(exp.Data); err != nil {
			return err
		}
		if len(exp.Data) > 0 {
			_, err := io.WriteString(stdout, "\n")
			return err
		}
		return nil
	}
	if err := os.WriteFile(path, exp.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
