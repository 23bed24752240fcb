package metrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/engine"
	"github.com/agentstation/specmap/pkg/publishers"
)

func resolveSCTE(t *testing.T) *engine.Result {
	t.Helper()
	pub, err := publishers.Get(publishers.SCTE)
	require.NoError(t, err)

	res, err := engine.Resolve(context.Background(), pub, []catalog.RawItem{
		{Number: "ANSI/SCTE 24-02 2016", Title: "IPCablecom", Status: "Published", URL: "https://scte.org/24-02.pdf"},
		{Number: "SCTE 35 2022", Title: "DPI cueing", Status: "Published", URL: "https://scte.org/35.pdf"},
		{Number: "SCTE 35 2023", Title: "DPI cueing mirror", Status: "Published", URL: "https://scte.org/35.pdf"},
	})
	require.NoError(t, err)
	return res
}

func TestObserveResult(t *testing.T) {
	m := New()
	res := resolveSCTE(t)
	m.ObserveResult(res)

	assert.Equal(t, float64(res.Registry.EntryCount()), testutil.ToFloat64(m.Entries.WithLabelValues("scte")))
	assert.Equal(t, float64(res.Registry.AliasCount()), testutil.ToFloat64(m.Aliases.WithLabelValues("scte")))
	assert.Equal(t, float64(res.Stats.DuplicateURLs), testutil.ToFloat64(m.Skipped.WithLabelValues("scte", "duplicate_url")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
	assert.Positive(t, testutil.ToFloat64(m.LastSuccess.WithLabelValues("scte")))
}

func TestCounters(t *testing.T) {
	m := New()
	m.IncrementFailure("etsi", "fetch")
	m.IncrementFailure("etsi", "fetch")
	m.IncrementAttempt("iso", 200)
	m.IncrementAttempt("iso", 0)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Failures.WithLabelValues("etsi", "fetch")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPAttempts.WithLabelValues("iso", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPAttempts.WithLabelValues("iso", "error")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveResult(nil)
		m.IncrementFailure("iso", "fetch")
		m.IncrementAttempt("iso", 500)
		assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
		assert.Nil(t, m.Registry())
	})
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.IncrementFailure("scte", "resolve")

	path := filepath.Join(t.TempDir(), "specmap.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `specmap_catalog_failures_total{publisher="scte",stage="resolve"} 1`))

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
