package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPropertyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show property details",
		Long:  "Show full details for a listing, including its workflow status and notes.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	tab, release, err := openTab(cmd.Context())
	if err != nil {
		return err
	}
	defer release()

	id := args[0]
	p, ok := tab.Catalog.GetByID(id)
	if !ok {
		return fmt.Errorf("property %s not found", id)
	}
	st := tab.Status.Get(id)
	who := identity()

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, map[string]any{
			"property":   p,
			"status":     st,
			"bookmarked": tab.Bookmarks.IsBookmarked(who.UserID, id),
		})
	}

	printPropertySummary(out, p)
	fmt.Fprintf(out, "  Workflow: %s", st.State)
	if st.UpdatedBy.Name != "" {
		fmt.Fprintf(out, " (by %s, %s)", st.UpdatedBy.Name, formatTime(st.UpdatedAt))
	}
	fmt.Fprintln(out)
	if c, ok := tab.Status.LastConfirmation(id); ok {
		fmt.Fprintf(out, "  Checked:  %s by %s\n", formatTime(c.ConfirmedAt), c.StaffName)
	}
	if tab.Bookmarks.IsBookmarked(who.UserID, id) {
		fmt.Fprintln(out, "  Bookmarked")
	}
	return nil
}
