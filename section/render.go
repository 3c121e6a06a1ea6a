package section

import (
	"strings"

	"github.com/ardnew/conifer/value"
)

const (
	branchDown  = " │ "
	branchLast  = " └─"
	branchSplit = " ├─"
	branchNone  = "   "
)

type renderLine struct {
	text  string
	level int
}

// lines flattens the subtree into display rows. Subsections come before
// content entries, both in insertion order.
func (s *Section) lines(level int) []renderLine {
	out := []renderLine{{text: s.name + s.sep, level: level}}
	for _, child := range s.ordered() {
		out = append(out, child.lines(level+1)...)
	}

	for _, key := range s.keys {
		out = append(out, renderLine{
			text:  key + " = " + display(s.content[key]),
			level: level + 1,
		})
	}

	return out
}

// display renders a stored value for the tree view. Strings appear bare,
// everything else in literal syntax.
func display(v value.Value) string {
	if v.Kind == value.KindString {
		return v.Text()
	}

	return v.String()
}

// String draws the subtree with box-drawing connectors:
//
//	toplevel/
//	 ├─Constants/
//	 │  └─c = 300000000
//	 └─Sampler/
//	    └─sampler_name = custom
func (s *Section) String() string {
	lines := s.lines(0)

	maxLevel := 0
	for _, ln := range lines {
		if ln.level > maxLevel {
			maxLevel = ln.level
		}
	}

	cells := make([][]string, len(lines))
	for i := range cells {
		cells[i] = make([]string, maxLevel+1)
		for j := range cells[i] {
			cells[i][j] = branchNone
		}
	}

	// Each row anchors a corner at its level, then earlier rows at the
	// same column turn into pass-throughs until a sibling or shallower
	// row is reached.
	for i, ln := range lines {
		cells[i][ln.level] = branchLast
		for j := i - 1; j >= 0; j-- {
			prev := lines[j].level
			switch {
			case prev > ln.level:
				cells[j][ln.level] = branchDown
			case prev == ln.level:
				cells[j][ln.level] = branchSplit
			}

			if prev <= ln.level {
				break
			}
		}
	}

	var sb strings.Builder

	sb.WriteString(lines[0].text)
	for i, ln := range lines[1:] {
		row := cells[i+1][1:]
		row[ln.level-1] += ln.text
		sb.WriteByte('\n')
		sb.WriteString(strings.TrimRight(strings.Join(row, ""), " "))
	}

	return sb.String()
}
