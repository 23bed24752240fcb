package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/logging"
	"github.com/agentstation/specmap/pkg/publishers"
	"github.com/agentstation/specmap/pkg/registry"
	"github.com/agentstation/specmap/pkg/xref"
)

func publisher(t *testing.T, id publishers.ID) *publishers.Publisher {
	t.Helper()
	p, err := publishers.Get(id)
	require.NoError(t, err)
	return p
}

func TestResolveISO(t *testing.T) {
	items := []catalog.RawItem{
		{Title: "ISO/IEC FDIS 21000-22", URL: "https://www.iso.org/standard/1.html"},
		{Title: "ISO/IEC 21000-22:2016", Summary: "Media value chain ontology", URL: "https://www.iso.org/standard/2.html"},
		{Title: "ISO/IEC 21000-22:2016/Amd 1:2018", URL: "https://www.iso.org/standard/3.html"},
		{Title: "ISO/IEC 21000-21:2008", Status: "Withdrawn", URL: "https://www.iso.org/standard/4.html"},
		{Title: "ISO/IEC 21000-21:2013", URL: "https://www.iso.org/standard/5.html"},
	}

	res, err := Resolve(context.Background(), publisher(t, publishers.ISO), items)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"iso21000-22",
		"iso21000-22-2016-amd1-2018",
		"iso21000-21",
	}, res.Registry.Keys())

	rec, ok := res.Registry.Lookup("iso21000-22")
	require.True(t, ok)
	assert.Equal(t, registry.Record{
		Href:      "https://www.iso.org/standard/2.html",
		Title:     "Media value chain ontology",
		Status:    "Published",
		Publisher: "ISO",
		ISONumber: "ISO 21000-22:2016",
	}, rec)

	amd, ok := res.Registry.Lookup("iso21000-22-2016-amd1-2018")
	require.True(t, ok)
	assert.Empty(t, amd.ISONumber)

	// the withdrawn 2008 edition is displaced by the later current observation
	part21, ok := res.Registry.Lookup("iso21000-21")
	require.True(t, ok)
	assert.Equal(t, "https://www.iso.org/standard/5.html", part21.Href)
	assert.False(t, part21.IsRetired)

	assert.Equal(t, 5, res.Stats.Observed)
	assert.Equal(t, 2, res.Stats.Replaced)
	assert.Equal(t, 5, res.Items)
}

func TestResolveObsolescence(t *testing.T) {
	items := []catalog.RawItem{
		{Title: "ETSI TS 102 034 V2.1.1 (2016-03)", Status: "Published", URL: "https://etsi.org/ts102034"},
		{Title: "ETSI TS 102 034/Cor 1 V1.0.1 (2010-01)", Status: "Historical", URL: "https://etsi.org/ts102034c1"},
		{Title: "ETSI TS 103 999 V1.1.1 (2001-01)", Status: "Withdrawn", URL: "https://etsi.org/ts103999"},
	}

	res, err := Resolve(context.Background(), publisher(t, publishers.ETSI), items)
	require.NoError(t, err)

	assert.Equal(t, []xref.Edge{{From: "etsits102034-cor1-1.0.1-2010-01", To: "etsits102034"}}, res.Edges)

	rec, ok := res.Registry.Lookup("etsits102034-cor1-1.0.1-2010-01")
	require.True(t, ok)
	assert.True(t, rec.IsSuperseded)
	assert.Equal(t, "etsits102034", rec.ObsoletedBy)
	assert.Equal(t, "2010-01", rec.RawDate)

	withdrawn, ok := res.Registry.Lookup("etsits103999")
	require.True(t, ok)
	assert.True(t, withdrawn.IsRetired)
	assert.Empty(t, withdrawn.ObsoletedBy)
}

func TestResolveVersionedDraftDoesNotClobber(t *testing.T) {
	items := []catalog.RawItem{
		{Title: "ETSI EN 300 468 V1.16.1 (2019-08)", Status: "Published", URL: "https://etsi.org/a"},
		{Title: "ETSI EN 300 468 V1.17.1", Status: "On Approval", URL: "https://etsi.org/b"},
	}

	res, err := Resolve(context.Background(), publisher(t, publishers.ETSI), items)
	require.NoError(t, err)

	rec, ok := res.Registry.Lookup("etsien300468")
	require.True(t, ok)
	assert.Equal(t, "https://etsi.org/a", rec.Href)
	assert.Equal(t, "Published", rec.Status)
}

func TestResolveSCTEAliasesAndDuplicateURLs(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	items := []catalog.RawItem{
		{Number: "ANSI/SCTE 24-02 2016", Title: "Cable modem", Status: "Published", URL: "https://scte.org/24-02.pdf"},
		{Number: "SCTE 231 2020", Title: "Part one", Status: "Published", URL: "https://scte.org/231-232.pdf"},
		{Number: "SCTE 232 2020", Title: "Part two", Status: "Published", URL: "https://scte.org/231-232.pdf"},
	}

	res, err := Resolve(ctx, publisher(t, publishers.SCTE), items)
	require.NoError(t, err)

	assert.Equal(t, []string{"scte24-02", "scte24-2", "scte231"}, res.Registry.Keys())
	alias, ok := res.Registry.Lookup("scte24-2")
	require.True(t, ok)
	assert.Equal(t, "scte24-02", alias.AliasOf)

	rec, _ := res.Registry.Lookup("scte24-02")
	assert.Equal(t, "Cable modem", rec.Title)
	assert.Equal(t, "2016", rec.RawDate)

	assert.Equal(t, 1, res.Stats.DuplicateURLs)
	tl.AssertContains(t, "Skipping entry with duplicate URL")
	tl.AssertContains(t, `"publisher":"scte"`)
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("parse error aborts the catalog", func(t *testing.T) {
		_, err := Resolve(ctx, publisher(t, publishers.ISO), []catalog.RawItem{
			{Title: "ISO 1:2000"},
			{Title: "ISO/IEC Directives"},
		})
		assert.True(t, errors.IsParse(err))
	})

	t.Run("unknown status aborts the catalog", func(t *testing.T) {
		_, err := Resolve(ctx, publisher(t, publishers.ETSI), []catalog.RawItem{
			{Title: "ETSI TS 1 V1.1.1 (2001-01)", Status: "Frozen"},
		})
		assert.True(t, errors.IsParse(err))
	})

	t.Run("current conflict", func(t *testing.T) {
		_, err := Resolve(ctx, publisher(t, publishers.ISO), []catalog.RawItem{
			{Title: "ISO 8601-1:2019", URL: "a"},
			{Title: "ISO 8601-1:2019", Status: "Published", URL: "b"},
		})
		assert.True(t, errors.IsConflict(err))
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, err := Resolve(ctx, publisher(t, publishers.SCTE), nil)
		assert.True(t, errors.IsEmptyRegistry(err))
	})

	t.Run("nil publisher", func(t *testing.T) {
		_, err := Resolve(ctx, nil, nil)
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestDescribe(t *testing.T) {
	desc, err := Describe(publisher(t, publishers.ISO), catalog.RawItem{Title: "ISO/IEC FDIS 21000-22", SortIndex: 7})
	require.NoError(t, err)

	assert.Equal(t, "21000-22", desc.Descriptor.BaseID)
	assert.False(t, desc.Descriptor.Addon)
	assert.Equal(t, "iso21000-22", desc.Identity.Key)
	assert.Equal(t, catalog.UnderDevelopment, desc.Status.Lifecycle)
	assert.Equal(t, "Under development", desc.Entry.Status)
	assert.Equal(t, 7, desc.Entry.SortIndex)
}
