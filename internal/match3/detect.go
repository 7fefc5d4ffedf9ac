package match3

import (
	"fmt"
	"slices"
	"strings"
)

// MinRun is the shortest line of equal symbols that counts as a match.
const MinRun = 3

// Axis is the direction of a matched line.
type Axis uint8

const (
	AxisRow Axis = iota
	AxisColumn
)

func (a Axis) String() string {
	if a == AxisColumn {
		return "column"
	}
	return "row"
}

// Group is one matched line of equal symbols.
type Group struct {
	Symbol  Symbol
	Axis    Axis
	Indices []int
}

// Len returns the number of cells in the group.
func (g Group) Len() int {
	return len(g.Indices)
}

// Policy selects how runs are reported by FindMatches.
// Both policies produce the same clear set; they differ only in how many
// groups describe it.
type Policy uint8

const (
	// PolicyMaximalRuns reports every maximal run of length >= MinRun once.
	PolicyMaximalRuns Policy = iota
	// PolicyWindows reports every window of length 4 and 3 inside a run,
	// which yields overlapping groups for long runs.
	PolicyWindows
)

func (p Policy) String() string {
	switch p {
	case PolicyWindows:
		return "windows"
	default:
		return "maximal"
	}
}

// ParsePolicy parses a policy name as written in config files.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "maximal", "maximal_runs", "runs":
		return PolicyMaximalRuns, nil
	case "windows", "window":
		return PolicyWindows, nil
	}
	return PolicyMaximalRuns, fmt.Errorf("%w: unknown match policy %q", ErrInvalidConfig, s)
}

// windowSizes are the window lengths reported by PolicyWindows, longest first.
var windowSizes = [...]int{4, 3}

// FindMatches returns every horizontal and vertical line of MinRun or more
// equal non-empty symbols. Rows are scanned before columns, each top-left
// first. An empty result means the board has no match.
func FindMatches(g *Grid, policy Policy) []Group {
	var groups []Group
	w := g.width
	for row := range w {
		groups = scanLine(g, groups, row*w, 1, AxisRow, policy)
	}
	for col := range w {
		groups = scanLine(g, groups, col, w, AxisColumn, policy)
	}
	return groups
}

// HasMatch reports whether the board contains at least one match.
func HasMatch(g *Grid) bool {
	w := g.width
	for row := range w {
		if lineHasRun(g, row*w, 1) {
			return true
		}
	}
	for col := range w {
		if lineHasRun(g, col, w) {
			return true
		}
	}
	return false
}

// ClearSet returns the deduplicated, ascending indices covered by groups.
func ClearSet(groups []Group) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, grp := range groups {
		for _, i := range grp.Indices {
			if _, ok := seen[i]; ok {
				continue
			}
			seen[i] = struct{}{}
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

// scanLine walks one row or column (start, start+stride, ...) and appends a
// group for each qualifying run.
func scanLine(g *Grid, out []Group, start, stride int, axis Axis, policy Policy) []Group {
	n := g.width
	runStart := 0
	for pos := 1; pos <= n; pos++ {
		if pos < n && g.cells[start+pos*stride] == g.cells[start+runStart*stride] {
			continue
		}
		sym := g.cells[start+runStart*stride]
		length := pos - runStart
		if sym != Empty && length >= MinRun {
			out = emitRun(out, start+runStart*stride, stride, length, sym, axis, policy)
		}
		runStart = pos
	}
	return out
}

func emitRun(out []Group, first, stride, length int, sym Symbol, axis Axis, policy Policy) []Group {
	if policy != PolicyWindows {
		return append(out, Group{Symbol: sym, Axis: axis, Indices: lineIndices(first, stride, length)})
	}
	for _, size := range windowSizes {
		for off := 0; off+size <= length; off++ {
			out = append(out, Group{
				Symbol:  sym,
				Axis:    axis,
				Indices: lineIndices(first+off*stride, stride, size),
			})
		}
	}
	return out
}

func lineIndices(first, stride, length int) []int {
	idx := make([]int, length)
	for k := range idx {
		idx[k] = first + k*stride
	}
	return idx
}

func lineHasRun(g *Grid, start, stride int) bool {
	run := 1
	for pos := 1; pos < g.width; pos++ {
		cur := g.cells[start+pos*stride]
		if cur != Empty && cur == g.cells[start+(pos-1)*stride] {
			run++
			if run >= MinRun {
				return true
			}
			continue
		}
		run = 1
	}
	return false
}
