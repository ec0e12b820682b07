package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rentapp/internal/app"
	"github.com/evcraddock/rentapp/internal/status"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Drive the staff workflow",
		Long:  "Move properties between default, followup and closed. Statuses are shared by all staff; the last change wins.",
	}

	cmd.AddCommand(
		newStatusSetCmd(),
		newStatusShowCmd(),
		newStatusConfirmCmd(),
		newStatusMineCmd("followups", "List my follow-ups", func(tab *app.Tab, me status.Actor) []string {
			return tab.Staff.MyFollowUps(me)
		}),
		newStatusMineCmd("closed", "List properties I closed", func(tab *app.Tab, me status.Actor) []string {
			return tab.Staff.MyClosed(me)
		}),
	)

	return cmd
}

func newStatusSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <property-id> <default|followup|closed>",
		Short: "Set a property's workflow status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := staffActor()
			if err != nil {
				return err
			}
			state, err := status.ParseState(args[1])
			if err != nil {
				return err
			}

			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			st, err := tab.Status.Set(args[0], state, actor)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, st)
			}
			fmt.Fprintf(out, "Property %s is now %s.\n", args[0], st.State)
			return nil
		},
	}
}

func newStatusShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [property-id]",
		Short: "Show one status, or counts across the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				st := tab.Status.Get(args[0])
				confirmations := tab.Status.Confirmations(args[0])
				if isJSON() {
					return printJSON(out, map[string]any{"status": st, "confirmations": confirmations})
				}
				fmt.Fprintf(out, "%s: %s\n", args[0], st.State)
				if !st.UpdatedAt.IsZero() {
					fmt.Fprintf(out, "  by %s at %s\n", st.UpdatedBy.Name, formatTime(st.UpdatedAt))
				}
				for _, c := range confirmations {
					fmt.Fprintf(out, "  checked by %s at %s\n", c.StaffName, formatTime(c.ConfirmedAt))
				}
				return nil
			}

			var ids []string
			for _, p := range tab.Catalog.GetAll() {
				ids = append(ids, p.ID)
			}
			counts := tab.Staff.Counts(ids)
			if isJSON() {
				return printJSON(out, counts)
			}
			fmt.Fprintf(out, "default:  %d\nfollowup: %d\nclosed:   %d\n", counts.Default, counts.FollowUp, counts.Closed)
			return nil
		},
	}
}

func newStatusConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <property-id>",
		Short: "Confirm a listing's availability is accurate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := staffActor()
			if err != nil {
				return err
			}

			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if _, ok := tab.Catalog.GetByID(args[0]); !ok {
				return fmt.Errorf("property %s not found", args[0])
			}
			c, err := tab.Status.Confirm(args[0], actor)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, c)
			}
			fmt.Fprintf(out, "Property %s confirmed by %s.\n", args[0], c.StaffName)
			return nil
		},
	}
}

func newStatusMineCmd(name, short string, pick func(*app.Tab, status.Actor) []string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := staffActor()
			if err != nil {
				return err
			}

			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			ids := pick(tab, actor)

			out := cmd.OutOrStdout()
			if isJSON() {
				if ids == nil {
					ids = []string{}
				}
				return printJSON(out, ids)
			}
			printIDs(out, ids, "No properties.")
			return nil
		},
	}
}
