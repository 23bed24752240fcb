package xref

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
)

func entry(key, baseID string, addon bool, lifecycle catalog.Lifecycle) *catalog.Entry {
	return &catalog.Entry{Key: key, BaseID: baseID, Addon: addon, Lifecycle: lifecycle}
}

func TestLink(t *testing.T) {
	ctx := context.Background()

	current := entry("etsits102034v2", "ts102034", false, catalog.Published)
	historical := entry("etsits102034v1", "ts102034", false, catalog.Superseded)
	amendment := entry("etsits102034-a1", "ts102034", true, catalog.Published)
	withdrawn := entry("etsits999", "ts999", false, catalog.Retired)
	draftAddon := entry("etsits102034-a2", "ts102034", true, catalog.UnderDevelopment)

	entries := []*catalog.Entry{current, historical, amendment, withdrawn, draftAddon}
	edges, err := Link(ctx, "etsi", entries)
	require.NoError(t, err)

	assert.Equal(t, "etsits102034v2", historical.ObsoletedBy)
	assert.Equal(t, "etsits102034v2", draftAddon.ObsoletedBy, "obsolete addons link to the current base document")
	assert.Empty(t, withdrawn.ObsoletedBy, "no successor is a terminal retirement")
	assert.Empty(t, current.ObsoletedBy)
	assert.Empty(t, amendment.ObsoletedBy)

	assert.Equal(t, []Edge{
		{From: "etsits102034-a2", To: "etsits102034v2"},
		{From: "etsits102034v1", To: "etsits102034v2"},
	}, edges)
}

func TestLinkIgnoresAddonCandidates(t *testing.T) {
	old := entry("iso1-old", "1", false, catalog.Retired)
	addon := entry("iso1-2016-amd1", "1", true, catalog.Published)

	edges, err := Link(context.Background(), "iso", []*catalog.Entry{old, addon})
	require.NoError(t, err)
	assert.Empty(t, edges)
	assert.Empty(t, old.ObsoletedBy)
}

func TestLinkAmbiguity(t *testing.T) {
	old := entry("etsits1v1", "ts1", false, catalog.Superseded)
	other := entry("etsits2v1", "ts2", false, catalog.Retired)
	a := entry("etsits1v3", "ts1", false, catalog.Published)
	b := entry("etsits1v2", "ts1", false, catalog.Published)
	successor := entry("etsits2v2", "ts2", false, catalog.Published)

	_, err := Link(context.Background(), "etsi", []*catalog.Entry{old, other, a, b, successor})
	require.Error(t, err)
	assert.True(t, errors.IsAmbiguous(err))

	var amb *errors.AmbiguityError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, "etsits1v1", amb.Key)
	assert.Equal(t, []string{"etsits1v2", "etsits1v3"}, amb.Candidates)
	assert.Empty(t, other.ObsoletedBy, "entries stay untouched when the pass fails")
}

// Every edge points at an existing current entry.
func TestLinkTargetsAreCurrent(t *testing.T) {
	lifecycles := []catalog.Lifecycle{catalog.Published, catalog.Superseded, catalog.Retired, catalog.UnderDevelopment}

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(rt, "n")
		entries := make([]*catalog.Entry, 0, n)
		byKey := make(map[string]*catalog.Entry, n)
		currentBase := make(map[string]bool)
		for i := 0; i < n; i++ {
			base := fmt.Sprintf("b%d", rapid.IntRange(0, 8).Draw(rt, "base"))
			lifecycle := rapid.SampledFrom(lifecycles).Draw(rt, "lifecycle")
			addon := rapid.Bool().Draw(rt, "addon")
			// at most one current non-addon per base keeps the pass unambiguous
			if lifecycle.IsCurrent() && !addon {
				if currentBase[base] {
					lifecycle = catalog.Retired
				}
				currentBase[base] = true
			}
			e := entry(fmt.Sprintf("k%d", i), base, addon, lifecycle)
			entries = append(entries, e)
			byKey[e.Key] = e
		}

		if _, err := Link(context.Background(), "p", entries); err != nil {
			rt.Fatal(err)
		}
		for _, e := range entries {
			if e.ObsoletedBy == "" {
				continue
			}
			if e.IsCurrent() {
				rt.Fatalf("current entry %s was linked", e.Key)
			}
			target, ok := byKey[e.ObsoletedBy]
			if !ok || !target.IsCurrent() || target.Addon {
				rt.Fatalf("%s links to invalid target %s", e.Key, e.ObsoletedBy)
			}
		}
	})
}
