// Package parse provides the parse command, which shows how titles are
// read by a publisher's grammar without fetching a catalog.
package parse

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/specmap/internal/cmd/application"
	"github.com/agentstation/specmap/internal/cmd/output"
	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/engine"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
)

// Flags holds the parse command flags.
type Flags struct {
	Publisher string
	Status    string
}

// NewCommand creates the parse command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "parse [title...]",
		GroupID: "core",
		Short:   "Show the canonical key derived from raw titles",
		Long: `Parse applies a publisher's title grammar and key rules to each title
and prints the base identifier, canonical key, aliases, lifecycle and
version. Titles are read from the arguments, or one per line from stdin.`,
		Example: `  specmap parse -p iso "ISO/IEC 21000-22:2016/Amd 1:2018"
  specmap parse -p etsi "ETSI TS 102 034 V2.1.1 (2016-03)"
  specmap parse -p scte --status Superseded "ANSI/SCTE 35 2019"
  cat titles.txt | specmap parse -p scte -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := args
			if len(inputs) == 0 {
				var err error
				if inputs, err = readLines(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return Execute(cmd.OutOrStdout(), app, flags, inputs)
		},
	}

	cmd.Flags().StringVarP(&flags.Publisher, "publisher", "p", "", "publisher grammar: "+strings.Join(publishers.Strings(), ", "))
	cmd.Flags().StringVar(&flags.Status, "status", "", "catalog status label applied to every title")
	_ = cmd.MarkFlagRequired("publisher")

	return cmd
}

// Execute parses every input and prints the successful descriptions. The
// returned error joins the inputs the grammar rejected.
func Execute(w io.Writer, app application.Application, flags *Flags, inputs []string) error {
	id, err := publishers.ParseID(flags.Publisher)
	if err != nil {
		return err
	}
	pub, err := publishers.Get(id)
	if err != nil {
		return err
	}

	var (
		parsed []string
		descs  []*engine.Description
		errs   []error
	)
	for _, in := range inputs {
		d, err := engine.Describe(pub, catalog.RawItem{Title: in, Status: flags.Status})
		if err != nil {
			app.Logger().Debug().Err(err).Str("input", in).Msg("Title rejected")
			errs = append(errs, err)
			continue
		}
		parsed = append(parsed, in)
		descs = append(descs, d)
	}

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	if format == "" {
		format = output.DetectFormat("")
	}
	if len(descs) > 0 {
		if err := output.Write(w, format, output.DescriptionsToTableData(parsed, descs), descs); err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", "stdin", err)
	}
	return lines, nil
}
