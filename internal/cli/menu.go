package cli

import (
	"github.com/spf13/cobra"

	"github.com/mridulgandhi29/real-estate-tracker/internal/config"
	"github.com/mridulgandhi29/real-estate-tracker/internal/transport/menu"
)

// NewMenuCommand starts the interactive text front-end.
func NewMenuCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive text menu",
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

			m := menu.New(svcs.listings, svcs.purchases, svcs.reports, cmd.InOrStdin(), cmd.OutOrStdout())
			return m.Run(cmd.Context())
		},
	}
}
