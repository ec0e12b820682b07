// Package cli defines the cobra command tree for rentapp.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rentapp/internal/app"
	"github.com/evcraddock/rentapp/internal/auth"
	"github.com/evcraddock/rentapp/internal/config"
	"github.com/evcraddock/rentapp/internal/logging"
	"github.com/evcraddock/rentapp/internal/status"
)

var (
	flagFormat  string
	flagDB      string
	flagDriver  string
	flagUser    string
	flagRole    string
	flagName    string
	flagVerbose bool
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rentapp",
		Short:         "Manage rental listings, bookmarks and the staff workflow",
		Long:          "A tool over the shared rentapp store. Create and edit listings, keep bookmarks, move properties through the staff workflow, keep notes, and watch changes made by other sessions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupCLI(flagVerbose)
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.local/share/rentapp/rentapp.db)")
	root.PersistentFlags().StringVar(&flagDriver, "driver", "", "store driver (memory|sqlite|postgres), overrides config")
	root.PersistentFlags().StringVar(&flagUser, "user", "", "acting user id (default: $RENTAPP_USER_ID)")
	root.PersistentFlags().StringVar(&flagRole, "role", "", "acting role (default: $RENTAPP_ROLE)")
	root.PersistentFlags().StringVar(&flagName, "name", "", "acting display name (default: $RENTAPP_USER_NAME)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log store activity to stderr")

	root.AddCommand(
		newPropertyCmd(),
		newBookmarkCmd(),
		newStatusCmd(),
		newNoteCmd(),
		newConfigCmd(),
		newWatchCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// loadConfig reads the config file and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
		cfg.Driver = config.DriverSQLite
	}
	if flagDriver != "" {
		cfg.Driver = flagDriver
	}
	return cfg, nil
}

// openTab opens a tab on the configured store.
func openTab(ctx context.Context) (*app.Tab, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return app.Open(ctx, cfg, app.Options{})
}

// identity returns the acting identity from the environment and flags.
func identity() auth.Identity {
	id := auth.IdentityFromEnv()
	if flagUser != "" {
		id.UserID = flagUser
		if id.Role == auth.RoleGuest {
			id.Role = auth.RoleTenant
		}
	}
	if flagRole != "" {
		id.Role = auth.ParseRole(flagRole)
	}
	if flagName != "" {
		id.Name = flagName
	}
	return id
}

// staffActor returns the acting identity as a workflow actor, or an error
// when the identity is not staff.
func staffActor() (status.Actor, error) {
	id := identity()
	if !id.IsStaff() {
		return status.Actor{}, fmt.Errorf("staff role required (got %q)", id.Role)
	}
	return status.Actor{ID: id.UserID, Name: id.DisplayName()}, nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
