package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasAvailableMoveFalseOnDeadlock(t *testing.T) {
	g := MustParseGrid(
		"ABCD",
		"CDAB",
		"ABCD",
		"CDAB",
	)
	before := g.Clone()

	assert.False(t, HasAvailableMove(g))
	assert.Zero(t, CountMoves(g))
	assert.True(t, before.Equal(g), "grid must be unchanged")
}

func TestHasAvailableMoveFindsPlantedSwap(t *testing.T) {
	g := MustParseGrid(
		"ABCD",
		"CDAB",
		"ABCD",
		"CAAB",
	)
	before := g.Clone()

	mv, ok := FindMove(g)
	require.True(t, ok)
	assert.True(t, before.Equal(g))
	assert.True(t, IsAdjacent(4, mv.A, mv.B))

	g.Swap(mv.A, mv.B)
	assert.True(t, HasMatch(g))
}
