package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rentapp/internal/app"
	"github.com/evcraddock/rentapp/internal/bus"
	"github.com/evcraddock/rentapp/internal/client"
)

func newWatchCmd() *cobra.Command {
	var (
		timeout time.Duration
		server  string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print changes as they happen",
		Long:  "Print every change made to the shared store by other sessions until interrupted. With --server, print the events a running server streams instead.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			emit := func(e bus.Event) {
				printEvent(cmd.OutOrStdout(), cmd.ErrOrStderr(), e)
			}
			if server != "" {
				return client.New(server).Events(ctx, emit)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tab, release, err := app.Open(ctx, cfg, app.Options{})
			if err != nil {
				return err
			}
			defer release()

			unsubscribe := tab.Bus.Subscribe(emit)
			defer unsubscribe()

			return tab.Watch(ctx, cfg.WatchInterval)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "stop after this long (default: until interrupted)")
	cmd.Flags().StringVar(&server, "server", "", "stream events from a running server at this URL")

	return cmd
}

func printEvent(out, errOut io.Writer, e bus.Event) {
	if isJSON() {
		if err := printJSON(out, e); err != nil {
			fmt.Fprintf(errOut, "warning: %v\n", err)
		}
		return
	}

	subject := e.PropertyID
	if subject == "" {
		subject = e.Key
	}
	fmt.Fprintf(out, "%s  %-22s %s\n", time.Now().Format("15:04:05"), e.Kind, subject)
}
