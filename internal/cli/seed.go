package cli

import (
	"github.com/spf13/cobra"

	"github.com/mridulgandhi29/real-estate-tracker/internal/config"
	"github.com/mridulgandhi29/real-estate-tracker/internal/seed"
)

// NewSeedCommand bulk-inserts the demo dataset.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the 50-property demo dataset",
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

			n, err := seed.Load(cmd.Context(), svcs.listings)
			if err != nil {
				return err
			}
			cmd.Printf("Inserted %d properties successfully.\n", n)
			return nil
		},
	}
}
