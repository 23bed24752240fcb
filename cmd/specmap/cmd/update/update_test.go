package update

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specmap"
	"github.com/agentstation/specmap/internal/cmd/application"
	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
	"github.com/agentstation/specmap/pkg/sources"
)

func newMock(t *testing.T, srcs *sources.Sources, format string) *application.Mock {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	sm, err := specmap.New(specmap.WithSources(srcs))
	require.NoError(t, err)
	return &application.Mock{
		SpecmapFunc:      func(...specmap.Option) (specmap.Specmap, error) { return sm, nil },
		OutputFormatFunc: func() string { return format },
	}
}

func scteSources() *sources.Sources {
	return sources.NewSources(
		&sources.Static{Publisher: publishers.SCTE, Location: "https://scte.example/api", Items: []catalog.RawItem{
			{Number: "ANSI/SCTE 35 2019", Title: "Digital Program Insertion", Status: "Superseded", URL: "https://scte.example/35-2019.pdf"},
			{Number: "ANSI/SCTE 35 2022", Title: "Digital Program Insertion", Status: "Published", URL: "https://scte.example/35-2022.pdf"},
		}},
	)
}

func run(t *testing.T, app application.Application, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestUpdate_WritesRegistries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "refs")
	app := newMock(t, scteSources(), "json")

	stdout, stderr, err := run(t, app, "--output-dir", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "scte.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scte35"`)

	var got runSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got.Catalogs, 1)
	assert.Equal(t, "scte", got.Catalogs[0].Publisher)
	assert.Equal(t, 1, got.Catalogs[0].Entries)
	assert.Equal(t, filepath.Join(dir, "scte.json"), got.Catalogs[0].File)
	assert.Contains(t, stderr, "1 of 1 catalogs resolved")
}

func TestUpdate_YAMLFormat(t *testing.T) {
	dir := t.TempDir()
	app := newMock(t, scteSources(), "json")

	_, _, err := run(t, app, "-d", dir, "--format", "yaml")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "scte.yaml"))
}

func TestUpdate_DryRunDiff(t *testing.T) {
	dir := t.TempDir()
	previous := filepath.Join(dir, "scte.json")
	require.NoError(t, os.WriteFile(previous,
		[]byte(`{"scte35": {"href": "https://scte.example/35-2019.pdf", "title": "Digital Program Insertion", "status": "Published", "publisher": "SCTE"}}`+"\n"), 0o644))

	app := newMock(t, scteSources(), "table")
	stdout, stderr, err := run(t, app, "-d", dir, "--dry-run", "--diff")
	require.NoError(t, err)

	assert.Contains(t, stdout, "--- "+previous)
	assert.Contains(t, stdout, "+")
	assert.Contains(t, stdout, "35-2022.pdf")
	assert.Contains(t, stderr, "(Dry run)")

	data, err := os.ReadFile(previous)
	require.NoError(t, err)
	assert.Contains(t, string(data), "35-2019.pdf", "dry run must not rewrite files")
}

func TestUpdate_FailedCatalogReturnsError(t *testing.T) {
	dir := t.TempDir()
	srcs := scteSources()
	srcs.Set(&sources.Static{Publisher: publishers.ETSI, Location: "https://etsi.example", Err: errors.New("connection refused")})
	app := newMock(t, srcs, "json")

	stdout, _, err := run(t, app, "-d", dir)
	require.Error(t, err)

	var ce *errors.CatalogError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "etsi", ce.Publisher)
	assert.Equal(t, "fetch", ce.Stage)

	assert.Contains(t, stdout, "connection refused")
	assert.FileExists(t, filepath.Join(dir, "scte.json"))
	assert.NoFileExists(t, filepath.Join(dir, "etsi.json"))
}

func TestUpdate_PublisherArgument(t *testing.T) {
	dir := t.TempDir()
	srcs := scteSources()
	srcs.Set(&sources.Static{Publisher: publishers.ETSI, Location: "https://etsi.example", Err: errors.New("connection refused")})
	app := newMock(t, srcs, "json")

	_, _, err := run(t, app, "scte", "-d", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "scte.json"))
}

func TestUpdate_InvalidArguments(t *testing.T) {
	app := newMock(t, scteSources(), "json")

	_, _, err := run(t, app, "ieee")
	assert.Error(t, err)

	_, _, err = run(t, app, "--format", "xml")
	assert.True(t, errors.IsValidationError(err))

	_, _, err = run(t, app, "--concurrency", "0", "-d", t.TempDir())
	assert.NoError(t, err, "zero falls back to the default")
}

func TestUpdate_ReportAndMetricsFiles(t *testing.T) {
	dir := t.TempDir()
	reportFile := filepath.Join(t.TempDir(), "run.md")
	app := newMock(t, scteSources(), "json")

	_, _, err := run(t, app, "-d", dir, "--report", reportFile)
	require.NoError(t, err)

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "specmap run report")
}

func TestBuildSyncOptions_ConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("output_dir", "from-config")
	viper.Set("format", "yml")

	opts, err := BuildSyncOptions(&Flags{OutputDir: "refs", Publishers: []string{"iso", "scte"}})
	require.NoError(t, err)

	o := applyOptions(opts)
	assert.Equal(t, "from-config", o.OutputDir)
	assert.Equal(t, "yaml", o.Format.String())
	assert.Equal(t, []publishers.ID{publishers.ISO, publishers.SCTE}, o.Publishers)
}
