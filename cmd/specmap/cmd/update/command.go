// Package update provides the update command implementation.
package update

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/specmap/internal/cmd/application"
)

// NewCommand creates the update command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "update [publisher...]",
		GroupID: "core",
		Short:   "Fetch, resolve and write the publisher registries",
		Long: `Update fetches each configured publisher catalog, resolves it into a
canonical registry and writes one file per publisher into the output
directory.

The command will:
• Fetch the ISO, ETSI and SCTE catalogs concurrently
• Parse every title and derive its canonical key
• Reconcile repeated keys by lifecycle and version precedence
• Link obsolete documents to their current successor
• Compare each registry with the previous file in the output directory
• Clean the output directory and write the new registries

A failing catalog is reported and produces no file; the others are still
written. The command exits non-zero when any catalog failed.`,
		Example: `  specmap update                         # Update every publisher
  specmap update scte                    # Update SCTE only
  specmap update --dry-run --diff        # Preview changes without writing
  specmap update -d out --format yaml    # Write YAML registries into ./out
  specmap update --report run.md         # Write a Markdown run report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.Publishers = append(flags.Publishers, args...)
			return ExecuteUpdate(cmd.Context(), app, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags = addUpdateFlags(cmd)

	return cmd
}
