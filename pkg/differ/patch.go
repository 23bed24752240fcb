package differ

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// Patch renders a unified-style line diff. Unchanged runs longer than the
// configured context are collapsed into hunk headers. Identical inputs
// yield an empty string.
func (diff *differ) Patch(existing, updated string) string {
	if existing == updated {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(existing, updated)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var all []diffLine
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			all = append(all, diffLine{op: d.Type, text: line})
		}
	}

	// Mark lines within context of a change
	keep := make([]bool, len(all))
	for i, l := range all {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		lo := max(0, i-diff.contextLines)
		hi := min(len(all)-1, i+diff.contextLines)
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}

	var sb strings.Builder
	oldLine, newLine := 1, 1
	inHunk := false
	for i, l := range all {
		if !keep[i] {
			inHunk = false
		} else {
			if !inHunk {
				fmt.Fprintf(&sb, "@@ -%d +%d @@\n", oldLine, newLine)
				inHunk = true
			}
			switch l.op {
			case diffmatchpatch.DiffDelete:
				sb.WriteString("-" + l.text + "\n")
			case diffmatchpatch.DiffInsert:
				sb.WriteString("+" + l.text + "\n")
			default:
				sb.WriteString(" " + l.text + "\n")
			}
		}

		switch l.op {
		case diffmatchpatch.DiffDelete:
			oldLine++
		case diffmatchpatch.DiffInsert:
			newLine++
		default:
			oldLine++
			newLine++
		}
	}
	return sb.String()
}
