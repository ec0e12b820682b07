package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPropertyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a listing",
		Long:  "Delete a listing. Only its owner may delete it.",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	tab, release, err := openTab(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	id := args[0]
	if !tab.Properties.Delete(id, identity().UserID) {
		return fmt.Errorf("property %s could not be deleted", id)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, map[string]any{
			"id":      id,
			"removed": true,
		})
	}

	fmt.Fprintf(out, "Property %s deleted.\n", id)
	return nil
}
