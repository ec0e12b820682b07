package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rentapp/internal/app"
)

func newBookmarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Manage the acting user's bookmarks",
		Long:  "Bookmark listings. Removed bookmarks can be restored for 30 days before they are purged.",
	}

	cmd.AddCommand(
		newBookmarkActionCmd("add", "Bookmark a listing", func(tab *app.Tab, user, id string) (bool, error) {
			return true, tab.Bookmarks.Add(user, id)
		}),
		newBookmarkActionCmd("remove", "Move a bookmark to the removed list", func(tab *app.Tab, user, id string) (bool, error) {
			return tab.Bookmarks.Remove(user, id)
		}),
		newBookmarkActionCmd("restore", "Restore a removed bookmark", func(tab *app.Tab, user, id string) (bool, error) {
			return tab.Bookmarks.Restore(user, id)
		}),
		newBookmarkPurgeCmd(),
		newBookmarkListCmd(),
	)

	return cmd
}

func newBookmarkActionCmd(name, short string, fn func(tab *app.Tab, user, id string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <property-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			id := args[0]
			changed, err := fn(tab, identity().UserID, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]any{"id": id, "action": name, "changed": changed})
			}
			if !changed {
				fmt.Fprintf(out, "Nothing to %s for %s.\n", name, id)
				return nil
			}
			fmt.Fprintf(out, "Bookmark %s: %s.\n", name, id)
			return nil
		},
	}
}

func newBookmarkPurgeCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "purge [property-id]",
		Short: "Permanently drop removed bookmarks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("give either a property id or --all")
			}

			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			user := identity().UserID
			var n int
			if all {
				n, err = tab.Bookmarks.PurgeAll(user)
			} else {
				var ok bool
				ok, err = tab.Bookmarks.Purge(user, args[0])
				if ok {
					n = 1
				}
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]any{"purged": n})
			}
			fmt.Fprintf(out, "Purged %d bookmark(s).\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "purge every removed bookmark")

	return cmd
}

func newBookmarkListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active and recently removed bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			user := identity().UserID
			active := tab.Bookmarks.Active(user)
			removed := tab.Bookmarks.Removed(user)

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]any{"active": active, "removed": removed})
			}

			fmt.Fprintf(out, "Bookmarks (%d):\n", len(active))
			printIDs(out, active, "No bookmarks.")
			if len(removed) > 0 {
				fmt.Fprintf(out, "\nRecently removed (%d):\n", len(removed))
				for _, r := range removed {
					fmt.Fprintf(out, "%s  removed %s, %d day(s) left\n",
						r.PropertyID, formatTime(r.RemovedAt), tab.Bookmarks.DaysRemaining(r))
				}
			}
			return nil
		},
	}
}
