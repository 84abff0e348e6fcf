package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mridulgandhi29/real-estate-tracker/internal/config"
)

// NewExportCommand writes the listings collection to a CSV file.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all listings to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			logger, err := newLogger(opts.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			svcs, err := connect(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer svcs.close()

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := svcs.reports.ExportCSV(cmd.Context(), f)
			if err != nil {
				return err
			}
			cmd.Printf("Exported %d rows to %s\n", n, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "properties_export.csv", "output file path")
	return cmd
}
