package iso

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specmap/internal/transport"
	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/publishers"
)

const page = `<!DOCTYPE html>
<html><body>
<table id="datatable-tc-projects">
  <thead><tr><th>Standard and/or project</th><th>Title</th><th>Stage</th></tr></thead>
  <tbody>
    <tr>
      <td><a href="/standard/85120.html">ISO/IEC FDIS 21000-22</a></td>
      <td>Information technology — Multimedia framework (MPEG-21) — Part 22: User Description</td>
      <td>Under development</td>
    </tr>
    <tr>
      <td><a href="/standard/67890.html">ISO/IEC 21000-22:2016</a></td>
      <td>Information technology
          — Part 22: User Description</td>
    </tr>
    <tr>
      <td><a href="https://www.iso.org/standard/72100.html">ISO/IEC 21000-22:2016/Amd 1:2018</a></td>
      <td>Reference software</td>
      <td></td>
    </tr>
    <tr><td colspan="2"></td></tr>
  </tbody>
</table>
</body></html>`

func TestParse(t *testing.T) {
	items, err := Parse("https://www.iso.org/committee/45316/x/catalogue/", []byte(page))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, catalog.RawItem{
		Title:     "ISO/IEC FDIS 21000-22",
		Summary:   "Information technology — Multimedia framework (MPEG-21) — Part 22: User Description",
		Status:    "Under development",
		URL:       "https://www.iso.org/standard/85120.html",
		SortIndex: 1,
	}, items[0])

	assert.Equal(t, "Information technology — Part 22: User Description", items[1].Summary)
	assert.Empty(t, items[1].Status)
	assert.Equal(t, 2, items[1].SortIndex)

	assert.Equal(t, "https://www.iso.org/standard/72100.html", items[2].URL)
	assert.Empty(t, items[2].Status)
}

func TestParseEmptyPage(t *testing.T) {
	items, err := Parse("https://www.iso.org/", []byte("<html><body><p>maintenance</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	src := New(transport.New(), srv.URL+"/catalogue/")
	assert.Equal(t, publishers.ISO, src.ID())

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, srv.URL+"/standard/85120.html", items[0].URL)

	assert.Equal(t, DefaultURL, New(transport.New(), "").URL())
}
