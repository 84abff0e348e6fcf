package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mridulgandhi29/real-estate-tracker/internal/config"
	transporthttp "github.com/mridulgandhi29/real-estate-tracker/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand starts the HTTP front-end.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP/JSON front-end",
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

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svcs, err := connect(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer svcs.close()

			handler := transporthttp.NewRouter(svcs.listings, svcs.purchases, svcs.reports, cfg.CORSOrigins, logger)
			server := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: handler,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("http server listening", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
					return
				}
				errCh <- nil
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		},
	}
}
