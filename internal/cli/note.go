package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rentapp/internal/auth"
	"github.com/evcraddock/rentapp/internal/kv"
	"github.com/evcraddock/rentapp/internal/note"
)

// noteScope picks which ledger a note command works on.
type noteScope struct {
	private bool
	user    bool
}

func (s *noteScope) register(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&s.private, "private", false, "use the acting user's private notes on the property")
	cmd.PersistentFlags().BoolVar(&s.user, "user-notes", false, "target is a user id; use the shared staff notes about that user")
}

// key returns the ledger key for target, checking the acting identity may
// use the ledger.
func (s *noteScope) key(who auth.Identity, target string) (string, error) {
	switch {
	case s.private && s.user:
		return "", fmt.Errorf("--private and --user-notes are mutually exclusive")
	case s.private:
		if who.UserID == "" {
			return "", fmt.Errorf("private notes need a user id")
		}
		return kv.PrivateNotesKey(who.UserID, target), nil
	case !who.IsStaff():
		return "", fmt.Errorf("staff role required for shared notes (got %q)", who.Role)
	case s.user:
		return kv.UserStaffNotesKey(target), nil
	default:
		return kv.StaffNotesKey(target), nil
	}
}

func newNoteCmd() *cobra.Command {
	var scope noteScope

	cmd := &cobra.Command{
		Use:   "note",
		Short: "Read and edit note ledgers",
		Long:  "Notes are kept as attributed blocks. By default the target is a property id and the ledger is the staff notes shared on it.",
	}
	scope.register(cmd)

	cmd.AddCommand(
		newNoteShowCmd(&scope),
		newNoteAddCmd(&scope),
		newNoteEditCmd(&scope),
		newNoteDeleteCmd(&scope),
	)

	return cmd
}

func newNoteShowCmd(scope *noteScope) *cobra.Command {
	return &cobra.Command{
		Use:   "show <target>",
		Short: "Show a ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := scope.key(identity(), args[0])
			if err != nil {
				return err
			}

			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			blocks := tab.Notes.Load(key)

			out := cmd.OutOrStdout()
			if isJSON() {
				if blocks == nil {
					blocks = []note.Block{}
				}
				return printJSON(out, blocks)
			}
			printNotes(out, blocks)
			return nil
		},
	}
}

func newNoteAddCmd(scope *noteScope) *cobra.Command {
	return &cobra.Command{
		Use:   `add <target> "text"`,
		Short: "Append a note block",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("note text is required")
			}
			who := identity()
			key, err := scope.key(who, args[0])
			if err != nil {
				return err
			}

			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			blocks, added := tab.Notes.Append(tab.Notes.Load(key), text, who.DisplayName())
			if err := tab.Notes.Save(key, note.Clean(blocks)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, added)
			}
			fmt.Fprintf(out, "Note %s added.\n  %s\n", added.BlockID, added.Content)
			return nil
		},
	}
}

func newNoteEditCmd(scope *noteScope) *cobra.Command {
	return &cobra.Command{
		Use:   `edit <target> <block-id> "text"`,
		Short: "Replace the text of one block",
		Long:  "Replace the text of one block. Editing a block to empty text deletes it.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			who := identity()
			key, err := scope.key(who, args[0])
			if err != nil {
				return err
			}

			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			blocks, ok := tab.Notes.Edit(tab.Notes.Load(key), args[1], strings.Join(args[2:], " "), who.DisplayName())
			if !ok {
				return fmt.Errorf("note block %s not found", args[1])
			}
			blocks = note.Clean(blocks)
			if err := tab.Notes.Save(key, blocks); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, blocks)
			}
			fmt.Fprintf(out, "Note %s updated.\n", args[1])
			return nil
		},
	}
}

func newNoteDeleteCmd(scope *noteScope) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <target> <block-id>",
		Short: "Delete one block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := scope.key(identity(), args[0])
			if err != nil {
				return err
			}

			tab, release, err := openTab(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			blocks, ok := note.Delete(tab.Notes.Load(key), args[1])
			if !ok {
				return fmt.Errorf("note block %s not found", args[1])
			}
			if err := tab.Notes.Save(key, note.Clean(blocks)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]any{"blockId": args[1], "removed": true})
			}
			fmt.Fprintf(out, "Note %s deleted.\n", args[1])
			return nil
		},
	}
}
