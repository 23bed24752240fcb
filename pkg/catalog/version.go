package catalog

import (
	"strconv"
	"strings"
)

// Version orders observations of one document. Number is a dotted version
// ("2.1.1"), Date a year or year-month ("2019-03"). Either may be empty.
// Revision counts re-issues within the same date ("2019r1" is Date "2019",
// Revision 1).
type Version struct {
	Number   string `json:"number,omitempty" yaml:"number,omitempty"`
	Date     string `json:"date,omitempty" yaml:"date,omitempty"`
	Revision int    `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// IsZero reports whether the version carries no information.
func (v Version) IsZero() bool {
	return v.Number == "" && v.Date == "" && v.Revision == 0
}

// String renders the version for logs.
func (v Version) String() string {
	date := v.Date
	if v.Revision > 0 {
		date += "r" + strconv.Itoa(v.Revision)
	}
	switch {
	case v.Number != "" && date != "":
		return "V" + v.Number + " (" + date + ")"
	case v.Number != "":
		return "V" + v.Number
	default:
		return date
	}
}

// Compare returns -1, 0 or 1. Version numbers are compared component-wise
// as integers; dates break ties, then revisions.
func (v Version) Compare(other Version) int {
	if c := compareDotted(v.Number, other.Number); c != 0 {
		return c
	}
	if c := compareDotted(strings.ReplaceAll(v.Date, "-", "."), strings.ReplaceAll(other.Date, "-", ".")); c != 0 {
		return c
	}
	switch {
	case v.Revision < other.Revision:
		return -1
	case v.Revision > other.Revision:
		return 1
	}
	return 0
}

// NormalizeVersion appends a zero minor component to single-component
// versions so that ordinal comparison is always well defined ("1" -> "1.0").
func NormalizeVersion(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || strings.Contains(number, ".") {
		return number
	}
	return number + ".0"
}

// compareDotted compares dot-separated numeric strings. Missing components
// count as zero; an empty string sorts before any non-empty one.
func compareDotted(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}

	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := max(len(as), len(bs))
	for i := 0; i < n; i++ {
		x, y := component(as, i), component(bs, i)
		if x < y {
			return -1
		}
		if x > y {
			return 1
		}
	}
	return 0
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return n
}
