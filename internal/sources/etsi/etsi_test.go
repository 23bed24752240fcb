package etsi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specmap/internal/transport"
	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
)

const export = "\ufeffsep=;\n" +
	"id;ETSI deliverable;title;Status;Details link;PDF link\n" +
	"1;ETSI TS 102 034 V2.1.1 (2016-03);Transport of MPEG-2 TS Based DVB Services over IP;Published;https://portal.etsi.org/1;/deliver/ts_102034v020101p.pdf\n" +
	"2;ETSI EN 300 468 V1.17.1;\"Specification for Service Information (SI) in DVB systems; draft\";On Approval;https://portal.etsi.org/2;\n" +
	"3;;ignored row;Published;;\n" +
	"4;ETSI TS 101 154 V1.9.1 (2009-09);Video and audio coding;Historical\n"

func TestParse(t *testing.T) {
	items, err := Parse("https://www.etsi.org/search", []byte(export))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, catalog.RawItem{
		Number:    "ETSI TS 102 034 V2.1.1 (2016-03)",
		Title:     "Transport of MPEG-2 TS Based DVB Services over IP",
		Status:    "Published",
		URL:       "https://www.etsi.org/deliver/ts_102034v020101p.pdf",
		SortIndex: 1,
	}, items[0])

	assert.Equal(t, "Specification for Service Information (SI) in DVB systems; draft", items[1].Title)
	assert.Equal(t, "https://portal.etsi.org/2", items[1].URL, "falls back to the details link")
	assert.Equal(t, 2, items[1].SortIndex)

	assert.Equal(t, "Historical", items[2].Status)
	assert.Empty(t, items[2].URL)
	assert.Equal(t, 3, items[2].SortIndex)
}

func TestParseCommaDefault(t *testing.T) {
	data := "ETSI deliverable,title,Status,PDF link\nETSI TS 1 V1.1.1 (2001-01),A,Published,https://x/1.pdf\n"
	items, err := Parse("https://www.etsi.org/", []byte(data))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ETSI TS 1 V1.1.1 (2001-01)", items[0].Number)
}

func TestParseMissingColumn(t *testing.T) {
	_, err := Parse("https://www.etsi.org/", []byte("number,name\n1,2\n"))
	require.Error(t, err)

	var resErr *errors.ResourceError
	require.ErrorAs(t, err, &resErr)
	assert.Contains(t, resErr.Message, "etsi deliverable")
}

func TestParseEmpty(t *testing.T) {
	items, err := Parse("https://www.etsi.org/", nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(export))
	}))
	defer srv.Close()

	src := New(transport.New(), srv.URL+"/export.csv")
	assert.Equal(t, publishers.ETSI, src.ID())

	items, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, srv.URL+"/deliver/ts_102034v020101p.pdf", items[0].URL)
}
