package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/engine"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
	"github.com/agentstation/specmap/pkg/registry"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONAndYAML(t *testing.T) {
	data := map[string]int{"entries": 3}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, data))
	assert.Equal(t, "{\n  \"entries\": 3\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, data))
	assert.Equal(t, "entries: 3\n", buf.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatTable).Format(&buf, Data{
		Headers:         []string{"Publisher", "Entries"},
		Rows:            [][]string{{"iso", "42"}, {"scte", "7"}},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "iso")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "scte")
}

func TestTableRendersRegistries(t *testing.T) {
	r, err := registry.Assemble(context.Background(), "SCTE", []*catalog.Entry{{
		Key: "scte35", BaseID: "35", SortIndex: 1, URL: "https://scte.org/35.pdf",
		Title: "Digital Program Insertion", Status: "Published", Lifecycle: catalog.Published, RawDate: "2022",
	}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, r))
	assert.Contains(t, buf.String(), "scte35")
	assert.NotContains(t, buf.String(), "https://scte.org/35.pdf")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatWide).Format(&buf, r.Items()))
	assert.Contains(t, buf.String(), "https://scte.org/35.pdf")
	assert.Contains(t, buf.String(), "2022")

	err = NewFormatter(FormatTable).Format(&buf, map[string]int{"entries": 1})
	assert.True(t, errors.IsValidationError(err))
}

func TestRegistryToTableData(t *testing.T) {
	r, err := registry.Assemble(context.Background(), "SCTE", []*catalog.Entry{{
		Key: "scte24-02", BaseID: "24-02", SortIndex: 1, URL: "https://scte.org/24-02.pdf",
		Title: strings.Repeat("x", 80), Status: "Published", Lifecycle: catalog.Published,
		Aliases: []string{"scte24-2"},
	}})
	require.NoError(t, err)

	data := RegistryToTableData(r, false)
	require.Len(t, data.Rows, 2)
	assert.Len(t, []rune(data.Rows[0][2]), 60)
	assert.Equal(t, "scte24-02", data.Rows[1][4])

	wide := RegistryToTableData(r, true)
	assert.Len(t, wide.Headers, 8)
	assert.Equal(t, "https://scte.org/24-02.pdf", wide.Rows[0][7])
}

func TestDescriptionsToTableData(t *testing.T) {
	pub, err := publishers.Get(publishers.ISO)
	require.NoError(t, err)
	input := "ISO/IEC 21000-22:2016"
	d, err := engine.Describe(pub, catalog.RawItem{Title: input})
	require.NoError(t, err)

	data := DescriptionsToTableData([]string{input}, []*engine.Description{d})
	require.Len(t, data.Rows, 1)
	assert.Equal(t, []string{input, "21000-22", "", "iso21000-22", "", "Published", "2016", "ISO 21000-22:2016"}, data.Rows[0])
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, Data{}, []string{"a"}))
	assert.Equal(t, "[\n  \"a\"\n]\n", buf.String())
}
