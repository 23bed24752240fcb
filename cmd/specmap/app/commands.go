package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/specmap/cmd/specmap/cmd/inspect"
	"github.com/agentstation/specmap/cmd/specmap/cmd/parse"
	"github.com/agentstation/specmap/cmd/specmap/cmd/update"
	"github.com/agentstation/specmap/cmd/specmap/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(update.NewCommand(a))
	rootCmd.AddCommand(parse.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(inspect.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}
