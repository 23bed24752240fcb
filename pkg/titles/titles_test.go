package titles

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
)

func isoParser() *NumberedParser {
	return &NumberedParser{
		Publisher:   "iso",
		Prefix:      regexp.MustCompile(`^ISO(?:/[A-Z]+)*\s+`),
		NumberLabel: "ISO",
	}
}

func etsiParser() *DatedParser {
	return &DatedParser{Publisher: "etsi", Prefix: regexp.MustCompile(`^ETSI\s+`)}
}

func scteParser() *DatedParser {
	return &DatedParser{Publisher: "scte", Prefix: regexp.MustCompile(`^(?:ANSI/)?SCTE\s+`), NumericBase: true}
}

func TestNumberedParser(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Descriptor
	}{
		{
			name:  "draft without year",
			input: "ISO/IEC FDIS 21000-22",
			want:  Descriptor{BaseID: "21000-22"},
		},
		{
			name:  "published with year",
			input: "ISO/IEC 21000-22:2016",
			want: Descriptor{
				BaseID:    "21000-22",
				Version:   catalog.Version{Date: "2016"},
				ISONumber: "ISO 21000-22:2016",
			},
		},
		{
			name:  "amendment",
			input: "ISO/IEC 21000-22:2016/Amd 1:2018",
			want: Descriptor{
				BaseID:  "21000-22",
				Addon:   true,
				Suffix:  "2016/Amd 1:2018",
				Version: catalog.Version{Date: "2016"},
			},
		},
		{
			name:  "plain prefix",
			input: "ISO 8601-1:2019",
			want: Descriptor{
				BaseID:    "8601-1",
				Version:   catalog.Version{Date: "2019"},
				ISONumber: "ISO 8601-1:2019",
			},
		},
		{
			name:  "technical specification prefix",
			input: "ISO/TS 19001",
			want:  Descriptor{BaseID: "19001"},
		},
		{
			name:  "no prefix",
			input: "639-3:2007",
			want: Descriptor{
				BaseID:    "639-3",
				Version:   catalog.Version{Date: "2007"},
				ISONumber: "ISO 639-3:2007",
			},
		},
		{
			name:  "corrigendum without base year",
			input: "ISO 3166-1/Cor 1",
			want:  Descriptor{BaseID: "3166-1", Addon: true, Suffix: "Cor 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := isoParser().Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumberedParserErrors(t *testing.T) {
	for _, input := range []string{"", "   ", "ISO/IEC Guide", "ISO/IEC 21000/"} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			_, err := isoParser().Parse(input)
			require.Error(t, err)
			assert.True(t, errors.IsParse(err))

			var parseErr *errors.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, "iso", parseErr.Publisher)
			assert.Equal(t, input, parseErr.Input)
		})
	}
}

func TestDatedParser(t *testing.T) {
	tests := []struct {
		name   string
		parser *DatedParser
		input  string
		want   Descriptor
	}{
		{
			name:   "etsi deliverable",
			parser: etsiParser(),
			input:  "ETSI TS 102 034 V2.1.1 (2016-03)",
			want: Descriptor{
				BaseID:  "ts102034",
				Version: catalog.Version{Number: "2.1.1", Date: "2016-03"},
			},
		},
		{
			name:   "etsi single component version",
			parser: etsiParser(),
			input:  "ETSI EN 300 401 V2 (2017-01)",
			want: Descriptor{
				BaseID:  "en300401",
				Version: catalog.Version{Number: "2.0", Date: "2017-01"},
			},
		},
		{
			name:   "etsi draft without date",
			parser: etsiParser(),
			input:  "ETSI TS 103 720 V1.1.1",
			want: Descriptor{
				BaseID:  "ts103720",
				Version: catalog.Version{Number: "1.1.1"},
			},
		},
		{
			name:   "scte with ansi prefix",
			parser: scteParser(),
			input:  "ANSI/SCTE 24-02 2016",
			want: Descriptor{
				BaseID:  "24-02",
				Version: catalog.Version{Date: "2016"},
			},
		},
		{
			name:   "scte edition tag",
			parser: scteParser(),
			input:  "SCTE 35 ed. 3 2019",
			want: Descriptor{
				BaseID:  "35",
				Version: catalog.Version{Number: "3.0", Date: "2019"},
			},
		},
		{
			name:   "scte addon",
			parser: scteParser(),
			input:  "SCTE 35/A1 2023",
			want: Descriptor{
				BaseID:  "35",
				Addon:   true,
				Suffix:  "A1:2023",
				Version: catalog.Version{Date: "2023"},
			},
		},
		{
			name:   "scte revised year",
			parser: scteParser(),
			input:  "ANSI/SCTE 35 2019r1",
			want: Descriptor{
				BaseID:  "35",
				Version: catalog.Version{Date: "2019", Revision: 1},
			},
		},
		{
			name:   "scte letter revision",
			parser: scteParser(),
			input:  "SCTE 35 2019a",
			want: Descriptor{
				BaseID:  "35",
				Version: catalog.Version{Date: "2019", Revision: 1},
			},
		},
		{
			name:   "scte revised addon",
			parser: scteParser(),
			input:  "SCTE 35/A1 2023r2",
			want: Descriptor{
				BaseID:  "35",
				Addon:   true,
				Suffix:  "A1:2023r2",
				Version: catalog.Version{Date: "2023", Revision: 2},
			},
		},
		{
			name:   "extra whitespace",
			parser: scteParser(),
			input:  "  SCTE   231   2021 ",
			want: Descriptor{
				BaseID:  "231",
				Version: catalog.Version{Date: "2021"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parser.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatedParserErrors(t *testing.T) {
	for _, input := range []string{"", "ETSI Guide", "ETSI TS 102 034 (draft)", "ETSI /A1 2020"} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			_, err := etsiParser().Parse(input)
			require.Error(t, err)
			assert.True(t, errors.IsParse(err))
		})
	}
}

func TestDatedParserNumericBaseErrors(t *testing.T) {
	inputs := []string{
		"SCTE 35 2019 junk",
		"SCTE 35 draft",
		"SCTE 35a 2019",
		"SCTE Guide 2019",
		"SCTE 35 2019rx",
		"SCTE 35/ 2023",
	}
	for _, input := range inputs {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			_, err := scteParser().Parse(input)
			require.Error(t, err)
			assert.True(t, errors.IsParse(err))
		})
	}
}

func TestCanonicalSuffix(t *testing.T) {
	assert.Equal(t, "2016-amd1-2018", CanonicalSuffix("2016/Amd 1:2018"))
	assert.Equal(t, "cor1", CanonicalSuffix("Cor 1"))
	assert.Equal(t, "a1-2023", CanonicalSuffix("A1:2023"))
	assert.Equal(t, "", CanonicalSuffix("   "))
}

func TestDescriptorDated(t *testing.T) {
	assert.True(t, Descriptor{Version: catalog.Version{Date: "2016"}}.Dated())
	assert.False(t, Descriptor{Version: catalog.Version{Number: "1.0"}}.Dated())
}

// Parsing the same string twice always yields the same descriptor.
func TestParseIsDeterministic(t *testing.T) {
	parsers := map[string]Parser{
		"iso":  isoParser(),
		"etsi": etsiParser(),
		"scte": scteParser(),
	}

	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.StringMatching(`[1-9][0-9]{0,4}(-[0-9]{1,2}){0,2}`).Draw(rt, "base")
		year := rapid.IntRange(1950, 2030).Draw(rt, "year")
		inputs := map[string]string{
			"iso":  fmt.Sprintf("ISO/IEC %s:%d", base, year),
			"etsi": fmt.Sprintf("ETSI TS %s V%d.%d.1 (%d-0%d)", base, rapid.IntRange(1, 9).Draw(rt, "major"), rapid.IntRange(0, 9).Draw(rt, "minor"), year, rapid.IntRange(1, 9).Draw(rt, "month")),
			"scte": fmt.Sprintf("ANSI/SCTE %s %d", base, year),
		}

		for name, input := range inputs {
			first, err := parsers[name].Parse(input)
			if err != nil {
				rt.Fatalf("%s: parse %q: %v", name, input, err)
			}
			second, err := parsers[name].Parse(input)
			if err != nil {
				rt.Fatalf("%s: reparse %q: %v", name, input, err)
			}
			if first != second {
				rt.Fatalf("%s: %q parsed to %+v then %+v", name, input, first, second)
			}
			if first.BaseID == "" {
				rt.Fatalf("%s: %q produced an empty base id", name, input)
			}
		}
	})
}
