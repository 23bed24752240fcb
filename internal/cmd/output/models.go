package output

import (
	"io"
	"strings"

	"github.com/agentstation/specmap/pkg/engine"
	"github.com/agentstation/specmap/pkg/registry"
)

// RegistryToTableData lists every key of a registry. The wide form adds
// the link and date columns.
func RegistryToTableData(r *registry.Registry, wide bool) Data {
	return ItemsToTableData(r.Items(), wide)
}

// ItemsToTableData lists registry items in the given order.
func ItemsToTableData(items []registry.Item, wide bool) Data {
	headers := []string{"Key", "Status", "Title", "Obsoleted By", "Alias Of"}
	if wide {
		headers = append(headers, "ISO Number", "Raw Date", "Href")
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rec := it.Record
		title := rec.Title
		if !wide {
			title = truncate(title, 60)
		}
		row := []string{it.Key, rec.Status, title, rec.ObsoletedBy, rec.AliasOf}
		if wide {
			row = append(row, rec.ISONumber, rec.RawDate, rec.Href)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// DescriptionsToTableData shows how raw titles were parsed.
func DescriptionsToTableData(inputs []string, descs []*engine.Description) Data {
	rows := make([][]string, 0, len(descs))
	for i, d := range descs {
		addon := ""
		if d.Descriptor.Addon {
			addon = "yes"
		}
		rows = append(rows, []string{
			inputs[i],
			d.Descriptor.BaseID,
			addon,
			d.Identity.Key,
			strings.Join(d.Identity.Aliases, ", "),
			d.Status.String(),
			d.Descriptor.Version.String(),
			d.Entry.ISONumber,
		})
	}
	return Data{
		Headers: []string{"Input", "Base ID", "Addon", "Key", "Aliases", "Status", "Version", "ISO Number"},
		Rows:    rows,
	}
}

// Write formats data for the given output format. Table formats use
// tableData; json and yaml encode raw.
func Write(w io.Writer, format Format, tableData Data, raw any) error {
	formatter := NewFormatter(format)
	switch format {
	case FormatTable, FormatWide, "":
		return formatter.Format(w, tableData)
	default:
		return formatter.Format(w, raw)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
