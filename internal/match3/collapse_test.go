package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseKeepsOrderAndRefills(t *testing.T) {
	g := MustParseGrid(
		"ABCD",
		".B.D",
		"C..A",
		"D.BA",
	)
	res := Collapse(g, NewSequenceSource(5))

	assert.Equal(t, []string{
		"EEED",
		"AEED",
		"CBCA",
		"DBBA",
	}, g.Rows())
	assert.False(t, g.HasEmpty())
	assert.Equal(t, []Fall{
		{From: 0, To: 4},
		{From: 5, To: 13},
		{From: 1, To: 9},
		{From: 2, To: 10},
	}, res.Falls)
	assert.Equal(t, []int{0, 1, 5, 2, 6}, res.Refilled)
}

func TestCollapseColumnIndependence(t *testing.T) {
	g := MustParseGrid(
		"ABCD",
		"B.DA",
		"C.AB",
		"DDBC",
	)
	before := g.Clone()
	Collapse(g, NewSequenceSource(6))

	for col := range g.Width() {
		if col == 1 {
			continue
		}
		for row := range g.Width() {
			i := g.Index(row, col)
			assert.Equal(t, before.Get(i), g.Get(i), "col %d row %d", col, row)
		}
	}
	assert.Equal(t, Symbol(6), g.Get(1))
	assert.Equal(t, Symbol(6), g.Get(5))
	assert.Equal(t, Symbol(2), g.Get(9))
	assert.Equal(t, Symbol(4), g.Get(13))
}

func TestCollapseFullBoardIsNoop(t *testing.T) {
	g := MustParseGrid("ABC", "BCA", "CAB")
	before := g.Clone()
	res := Collapse(g, NewSequenceSource(1))
	require.True(t, before.Equal(g))
	assert.Empty(t, res.Falls)
	assert.Empty(t, res.Refilled)
}
