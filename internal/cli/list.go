package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rentapp/internal/catalog"
	"github.com/evcraddock/rentapp/internal/client"
)

func newPropertyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the acting user's listings",
		Long:  "List listings owned by the acting user, most recently modified first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			records := tab.Properties.ListByOwner(identity().UserID)

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, records)
			}
			return printPropertyTable(out, displayRecords(records))
		},
	}
}

func newPropertyAllCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "all",
		Short: "List the whole catalog",
		Long:  "List catalog and user listings together, most recently modified first. With --server, ask a running server instead of opening the store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := allProperties(cmd.Context(), server)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, props)
			}
			return printPropertyTable(out, props)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "read from a running server at this URL")

	return cmd
}

func allProperties(ctx context.Context, server string) ([]catalog.DisplayProperty, error) {
	if server != "" {
		return client.New(server).ListProperties(ctx)
	}

	tab, release, err := openTab(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	return tab.Catalog.GetAll(), nil
}
