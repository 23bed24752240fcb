package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specmap/internal/cmd/application"
	"github.com/agentstation/specmap/pkg/errors"
)

func run(t *testing.T, format, stdin string, args ...string) (string, error) {
	t.Helper()
	app := &application.Mock{OutputFormatFunc: func() string { return format }}

	var out bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParse_Table(t *testing.T) {
	out, err := run(t, "table", "", "-p", "scte", "ANSI/SCTE 24-02 2016")
	require.NoError(t, err)

	assert.Contains(t, out, "scte24-02")
	assert.Contains(t, out, "scte24-2")
}

func TestParse_JSON(t *testing.T) {
	out, err := run(t, "json", "", "-p", "etsi", "ETSI TS 102 034 V2.1.1 (2016-03)")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Contains(t, out, "ts102034")
	assert.Contains(t, out, "2016-03")
}

func TestParse_Stdin(t *testing.T) {
	out, err := run(t, "table", "SCTE 35 ed. 3 2019\n\nSCTE 231 2021\n", "-p", "scte")
	require.NoError(t, err)

	assert.Contains(t, out, "scte35")
	assert.Contains(t, out, "scte231")
}

func TestParse_Status(t *testing.T) {
	out, err := run(t, "table", "", "-p", "scte", "--status", "Withdrawn", "SCTE 231 2021")
	require.NoError(t, err)
	assert.Contains(t, out, "Withdrawn")

	_, err = run(t, "table", "", "-p", "scte", "--status", "Lost", "SCTE 231 2021")
	assert.True(t, errors.IsParse(err))
}

func TestParse_RejectedTitles(t *testing.T) {
	out, err := run(t, "table", "", "-p", "etsi", "ETSI Guide", "ETSI TS 103 720 V1.1.1")
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
	assert.Contains(t, out, "ts103720", "valid titles are still printed")
}

func TestParse_RequiresPublisher(t *testing.T) {
	_, err := run(t, "table", "", "SCTE 231 2021")
	assert.Error(t, err)

	_, err = run(t, "table", "", "-p", "ieee", "IEEE 802.3")
	assert.True(t, errors.IsValidationError(err))
}
