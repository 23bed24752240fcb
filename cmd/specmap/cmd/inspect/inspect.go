// Package inspect provides the inspect command for reading a written
// registry file.
package inspect

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/specmap/internal/cmd/application"
	"github.com/agentstation/specmap/internal/cmd/output"
	"github.com/agentstation/specmap/internal/matcher"
	"github.com/agentstation/specmap/pkg/registry"
	"github.com/agentstation/specmap/pkg/save"
)

// resolved is the structured form of a key lookup.
type resolved struct {
	Key       string          `json:"key" yaml:"key"`
	Canonical string          `json:"canonical" yaml:"canonical"`
	Record    registry.Record `json:"record" yaml:"record"`
}

// keyed is one listed registry key.
type keyed struct {
	Key    string          `json:"key" yaml:"key"`
	Record registry.Record `json:"record" yaml:"record"`
}

// NewCommand creates the inspect command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		key     string
		matches []string
	)

	cmd := &cobra.Command{
		Use:     "inspect <file>",
		GroupID: "management",
		Short:   "List or look up the keys of a registry file",
		Long: `Inspect loads a registry file written by update and lists its keys in
serialization order. With --key it resolves one key, following an alias
redirect to the canonical record.`,
		Example: `  specmap inspect refs/scte.json
  specmap inspect refs/scte.json --key scte24-2
  specmap inspect refs/iso.yaml -o wide
  specmap inspect refs/etsi.json --match 'etsits102*'
  specmap inspect refs/scte.json --match '^scte\d+$'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return Execute(cmd.OutOrStdout(), app, args[0], key, matches...)
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "resolve a single key")
	cmd.Flags().StringArrayVarP(&matches, "match", "m", nil, "list only keys matching a glob or regex (repeatable)")

	return cmd
}

// Execute prints the registry at path, or the record key resolves to.
// Patterns restrict the listing to matching keys.
func Execute(w io.Writer, app application.Application, path, key string, patterns ...string) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	if format == "" {
		format = output.DetectFormat("")
	}

	r, err := save.Load(path)
	if err != nil {
		return err
	}
	app.Logger().Debug().Str("file", path).Int("entries", r.EntryCount()).Int("aliases", r.AliasCount()).Msg("Loaded registry")

	if key == "" && len(patterns) == 0 {
		return output.Write(w, format, output.RegistryToTableData(r, format == output.FormatWide), r)
	}
	if key == "" {
		m, err := matcher.NewAny(patterns...)
		if err != nil {
			return err
		}
		var (
			items []registry.Item
			raw   []keyed
		)
		for _, it := range r.Items() {
			if m.Match(it.Key) {
				items = append(items, it)
				raw = append(raw, keyed{Key: it.Key, Record: it.Record})
			}
		}
		return output.Write(w, format, output.ItemsToTableData(items, format == output.FormatWide), raw)
	}

	canonical, rec, err := r.Resolve(key)
	if err != nil {
		return err
	}
	data := output.Data{
		Headers: []string{"Key", "Canonical", "Status", "Title", "Obsoleted By", "Href"},
		Rows:    [][]string{{key, canonical, rec.Status, rec.Title, rec.ObsoletedBy, rec.Href}},
	}
	return output.Write(w, format, data, resolved{Key: key, Canonical: canonical, Record: rec})
}
