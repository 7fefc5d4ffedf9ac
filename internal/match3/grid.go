// Package match3 implements the match-resolution engine of a tile-matching
// puzzle: the grid model, swap legality, match detection, gravity collapse
// and deadlock detection.
// It contains no terminal or transport dependencies so the rules can be
// tested and reused by every front end (local TUI, SSH sessions, versus mode).
package match3

import (
	"fmt"
	"strings"
)

// Symbol is the content of a grid cell.
// Empty marks a cleared cell; symbols 1..MaxSymbols form the alphabet.
type Symbol uint8

// Empty is the marker for a cell whose tile has been cleared.
const Empty Symbol = 0

// MaxSymbols is the largest supported alphabet (letters A..Z in fixtures).
const MaxSymbols = 26

// Rune returns the fixture letter for the symbol ('.' for Empty).
func (s Symbol) Rune() rune {
	if s == Empty || s > MaxSymbols {
		return '.'
	}
	return rune('A' + s - 1)
}

// ParseSymbol converts a fixture letter into a symbol.
func ParseSymbol(r rune) (Symbol, bool) {
	switch {
	case r == '.':
		return Empty, true
	case r >= 'A' && r <= 'Z':
		return Symbol(r-'A') + 1, true
	case r >= 'a' && r <= 'z':
		return Symbol(r-'a') + 1, true
	}
	return Empty, false
}

// Grid is a fixed-size square board of N×N cells addressed linearly:
// row = index / N, column = index % N.
type Grid struct {
	width int
	cells []Symbol
}

// NewGrid creates an empty grid of the given width.
// Panics if width is not positive.
func NewGrid(width int) *Grid {
	if width <= 0 {
		panic(fmt.Sprintf("match3: invalid grid width %d", width))
	}
	return &Grid{
		width: width,
		cells: make([]Symbol, width*width),
	}
}

// ParseGrid builds a grid from literal rows such as "AABC".
// Letters map to symbols 1..26, '.' to Empty. Whitespace is ignored.
func ParseGrid(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidConfig)
	}

	g := NewGrid(len(rows))
	for y, row := range rows {
		row = strings.Join(strings.Fields(row), "")
		if len([]rune(row)) != g.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidConfig, y, len([]rune(row)), g.width)
		}
		for x, r := range []rune(row) {
			s, ok := ParseSymbol(r)
			if !ok {
				return nil, fmt.Errorf("%w: row %d: unknown symbol %q", ErrInvalidConfig, y, r)
			}
			g.cells[y*g.width+x] = s
		}
	}
	return g, nil
}

// MustParseGrid is like ParseGrid but panics on malformed input.
// Intended for fixtures.
func MustParseGrid(rows ...string) *Grid {
	g, err := ParseGrid(rows...)
	if err != nil {
		panic(err)
	}
	return g
}

// Width returns N.
func (g *Grid) Width() int {
	return g.width
}

// Size returns N².
func (g *Grid) Size() int {
	return len(g.cells)
}

// InRange reports whether i is a valid cell index.
func (g *Grid) InRange(i int) bool {
	return i >= 0 && i < len(g.cells)
}

// Get returns the symbol at index i.
// Panics on an out-of-range index.
func (g *Grid) Get(i int) Symbol {
	return g.cells[i]
}

// Set stores a symbol at index i.
// Panics on an out-of-range index.
func (g *Grid) Set(i int, s Symbol) {
	g.cells[i] = s
}

// Swap exchanges the contents of two cells.
func (g *Grid) Swap(a, b int) {
	g.cells[a], g.cells[b] = g.cells[b], g.cells[a]
}

// Row returns the row of index i.
func (g *Grid) Row(i int) int {
	return i / g.width
}

// Col returns the column of index i.
func (g *Grid) Col(i int) int {
	return i % g.width
}

// Index returns the linear index of (row, col).
func (g *Grid) Index(row, col int) int {
	return row*g.width + col
}

// HasEmpty reports whether any cell holds the Empty marker.
func (g *Grid) HasEmpty() bool {
	for _, s := range g.cells {
		if s == Empty {
			return true
		}
	}
	return false
}

// Cells returns a copy of the cell contents in row-major order.
func (g *Grid) Cells() []Symbol {
	out := make([]Symbol, len(g.cells))
	copy(out, g.cells)
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{
		width: g.width,
		cells: g.Cells(),
	}
}

// Equal reports whether two grids have the same width and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.width != other.width {
		return false
	}
	for i, s := range g.cells {
		if other.cells[i] != s {
			return false
		}
	}
	return true
}

// Rows returns the grid as fixture rows, the inverse of ParseGrid.
func (g *Grid) Rows() []string {
	rows := make([]string, g.width)
	for y := range g.width {
		var sb strings.Builder
		for x := range g.width {
			sb.WriteRune(g.cells[y*g.width+x].Rune())
		}
		rows[y] = sb.String()
	}
	return rows
}

// String renders the grid as newline-separated fixture rows.
func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}
