package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/evcraddock/rentapp/internal/app"
	"github.com/evcraddock/rentapp/internal/logging"
	"github.com/evcraddock/rentapp/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  "Serve the read API, the event stream, /health and /metrics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			logging.Setup(cfg.DevMode)

			ctx := cmd.Context()
			tab, release, err := app.Open(ctx, cfg, app.Options{})
			if err != nil {
				return err
			}
			defer release()

			slog.Info("starting server", "driver", cfg.Driver, "port", cfg.Port)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return tab.Watch(ctx, cfg.WatchInterval) })
			g.Go(func() error { return web.NewServer(tab).ListenAndServe(ctx, cfg.Port) })
			return g.Wait()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")

	return cmd
}
